// Package config handles loading and validation of application configuration
// from an optional YAML/JSON file and environment variables.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"route-weather/classifier"
	"route-weather/logger"
	"route-weather/models"

	"github.com/spf13/viper"
)

// Location cache backends
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// ProviderConfig holds the weather provider connection details.
type ProviderConfig struct {
	APIKey           string        `mapstructure:"API_KEY"`
	BaseURL          string        `mapstructure:"BASE_URL"`
	Timeout          time.Duration `mapstructure:"TIMEOUT"`
	RateLimitEnabled bool          `mapstructure:"RATE_LIMIT_ENABLED"`
	LocationRPS      float64       `mapstructure:"LOCATION_RPS"`
	ForecastRPS      float64       `mapstructure:"FORECAST_RPS"`
	Burst            int           `mapstructure:"BURST"`
}

// RouteConfig tunes route computation.
type RouteConfig struct {
	Concurrency int `mapstructure:"CONCURRENCY"`
	DefaultDays int `mapstructure:"DEFAULT_DAYS"`
	// ForecastCacheTTL > 0 shares one forecast cache across builds with that TTL.
	// Zero keeps a fresh cache per build.
	ForecastCacheTTL time.Duration `mapstructure:"FORECAST_CACHE_TTL"`
}

// LocationCacheConfig selects where resolved locations are remembered.
type LocationCacheConfig struct {
	Backend       string        `mapstructure:"BACKEND"`
	TTL           time.Duration `mapstructure:"TTL"`
	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"PORT"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// ScheduledRoute is a named route refreshed by the collector.
type ScheduledRoute struct {
	Name   string   `mapstructure:"NAME" yaml:"name" json:"name"`
	Cities []string `mapstructure:"CITIES" yaml:"cities" json:"cities"`
	Days   int      `mapstructure:"DAYS" yaml:"days" json:"days"`
}

// CollectorConfig drives the periodic refresh of named routes.
type CollectorConfig struct {
	Enabled  bool             `mapstructure:"ENABLED"`
	Schedule string           `mapstructure:"SCHEDULE"`
	PruneAge time.Duration    `mapstructure:"PRUNE_AGE"`
	Routes   []ScheduledRoute `mapstructure:"ROUTES"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Provider      ProviderConfig        `mapstructure:"PROVIDER"`
	Classifier    classifier.Thresholds `mapstructure:"CLASSIFIER"`
	Route         RouteConfig           `mapstructure:"ROUTE"`
	LocationCache LocationCacheConfig   `mapstructure:"LOCATION_CACHE"`
	Server        ServerConfig          `mapstructure:"SERVER"`
	Collector     CollectorConfig       `mapstructure:"COLLECTOR"`
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	thresholds := classifier.DefaultThresholds()

	v.SetDefault("PROVIDER.BASE_URL", "http://dataservice.accuweather.com")
	v.SetDefault("PROVIDER.TIMEOUT", "10s")
	v.SetDefault("PROVIDER.RATE_LIMIT_ENABLED", true)
	v.SetDefault("PROVIDER.LOCATION_RPS", 2.0)
	v.SetDefault("PROVIDER.FORECAST_RPS", 2.0)
	v.SetDefault("PROVIDER.BURST", 5)
	v.SetDefault("CLASSIFIER.MAX_TEMP", thresholds.MaxTemp)
	v.SetDefault("CLASSIFIER.MIN_TEMP", thresholds.MinTemp)
	v.SetDefault("CLASSIFIER.MAX_WIND", thresholds.MaxWind)
	v.SetDefault("ROUTE.CONCURRENCY", 4)
	v.SetDefault("ROUTE.DEFAULT_DAYS", int(models.HorizonFiveDays))
	v.SetDefault("ROUTE.FORECAST_CACHE_TTL", "0s")
	v.SetDefault("LOCATION_CACHE.BACKEND", BackendMemory)
	v.SetDefault("LOCATION_CACHE.TTL", "24h")
	v.SetDefault("LOCATION_CACHE.REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("LOCATION_CACHE.REDIS_PASSWORD", "")
	v.SetDefault("LOCATION_CACHE.REDIS_DB", 0)
	v.SetDefault("SERVER.PORT", 8080)
	v.SetDefault("SERVER.REQUEST_TIMEOUT", "30s")
	v.SetDefault("SERVER.SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("COLLECTOR.ENABLED", false)
	v.SetDefault("COLLECTOR.SCHEDULE", "@every 30m")
	v.SetDefault("COLLECTOR.PRUNE_AGE", "48h")
}

// LoadConfig reads defaults, then the file at path (skipped when path is empty
// or the file does not exist), then environment variables, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			log.Infow("Loaded config file", "path", path)
		} else {
			log.Infow("Config file not found, using defaults and environment", "path", path)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Provider config
		{"PROVIDER.API_KEY", "ACCUWEATHER_API_KEY"},
		{"PROVIDER.BASE_URL", "ACCUWEATHER_BASE_URL"},
		{"PROVIDER.TIMEOUT", "PROVIDER_TIMEOUT"},
		{"PROVIDER.RATE_LIMIT_ENABLED", "PROVIDER_RATE_LIMIT_ENABLED"},
		// Classifier config
		{"CLASSIFIER.MAX_TEMP", "CLASSIFIER_MAX_TEMP"},
		{"CLASSIFIER.MIN_TEMP", "CLASSIFIER_MIN_TEMP"},
		{"CLASSIFIER.MAX_WIND", "CLASSIFIER_MAX_WIND"},
		// Route config
		{"ROUTE.CONCURRENCY", "ROUTE_CONCURRENCY"},
		{"ROUTE.DEFAULT_DAYS", "ROUTE_DEFAULT_DAYS"},
		{"ROUTE.FORECAST_CACHE_TTL", "FORECAST_CACHE_TTL"},
		// Location cache config
		{"LOCATION_CACHE.BACKEND", "LOCATION_CACHE_BACKEND"},
		{"LOCATION_CACHE.TTL", "LOCATION_CACHE_TTL"},
		{"LOCATION_CACHE.REDIS_ADDRESS", "REDIS_ADDRESS"},
		{"LOCATION_CACHE.REDIS_PASSWORD", "REDIS_PASSWORD"},
		{"LOCATION_CACHE.REDIS_DB", "REDIS_DB"},
		// Server config
		{"SERVER.PORT", "PORT"},
		// Collector config
		{"COLLECTOR.ENABLED", "COLLECTOR_ENABLED"},
		{"COLLECTOR.SCHEDULE", "COLLECTOR_SCHEDULE"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"provider_base_url", cfg.Provider.BaseURL,
		"api_key", logger.MaskSensitiveString(cfg.Provider.APIKey, 3, 3),
		"location_cache", cfg.LocationCache.Backend,
		"concurrency", cfg.Route.Concurrency,
		"server_port", cfg.Server.Port,
		"scheduled_routes", len(cfg.Collector.Routes),
	)
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("provider API key is required (set ACCUWEATHER_API_KEY)")
	}
	if _, err := url.ParseRequestURI(cfg.Provider.BaseURL); err != nil {
		return fmt.Errorf("invalid provider base URL '%s': %w", cfg.Provider.BaseURL, err)
	}
	if cfg.Provider.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}
	if cfg.Provider.RateLimitEnabled {
		if cfg.Provider.LocationRPS <= 0 || cfg.Provider.ForecastRPS <= 0 {
			return fmt.Errorf("provider rate limits must be positive")
		}
		if cfg.Provider.Burst <= 0 {
			return fmt.Errorf("provider burst must be positive")
		}
	}

	if err := cfg.Classifier.Validate(); err != nil {
		return fmt.Errorf("invalid classifier thresholds: %w", err)
	}

	if cfg.Route.Concurrency <= 0 {
		return fmt.Errorf("route concurrency must be positive")
	}
	if _, err := models.ParseHorizon(cfg.Route.DefaultDays); err != nil {
		return fmt.Errorf("invalid default days: %w", err)
	}
	if cfg.Route.ForecastCacheTTL < 0 {
		return fmt.Errorf("forecast cache TTL must not be negative")
	}

	switch cfg.LocationCache.Backend {
	case BackendNone, BackendMemory:
	case BackendRedis:
		if cfg.LocationCache.RedisAddress == "" {
			return fmt.Errorf("redis address is required for the redis location cache")
		}
	default:
		return fmt.Errorf("unknown location cache backend '%s'", cfg.LocationCache.Backend)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", cfg.Server.Port)
	}

	if cfg.Collector.Enabled && cfg.Collector.Schedule == "" {
		return fmt.Errorf("collector schedule is required when the collector is enabled")
	}
	seen := make(map[string]bool, len(cfg.Collector.Routes))
	for i, r := range cfg.Collector.Routes {
		if r.Name == "" {
			return fmt.Errorf("scheduled route %d has no name", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate scheduled route '%s'", r.Name)
		}
		seen[r.Name] = true
		if len(r.Cities) == 0 {
			return fmt.Errorf("scheduled route '%s' has no cities", r.Name)
		}
		if r.Days == 0 {
			cfg.Collector.Routes[i].Days = cfg.Route.DefaultDays
		} else if _, err := models.ParseHorizon(r.Days); err != nil {
			return fmt.Errorf("scheduled route '%s': %w", r.Name, err)
		}
	}

	return nil
}
