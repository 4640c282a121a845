// Package di wires the route pipeline from configuration.
package di

import (
	"context"
	"fmt"
	"time"

	"route-weather/cache"
	"route-weather/classifier"
	"route-weather/config"
	"route-weather/datasource"
	"route-weather/logger"
	"route-weather/providers/accuweather"
	"route-weather/resolver"
	"route-weather/route"

	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Provider      datasource.WeatherProvider
	LocationStore cache.LocationStore // nil when the location cache is disabled
	ForecastCache *cache.ForecastCache // nil unless forecasts are shared across builds
	Resolver      *resolver.Resolver
	Classifier    *classifier.Classifier
	Aggregator    *route.Aggregator

	redisClient *redis.Client
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.GetLogger()
	c := &Container{}

	// Provider, optionally rate limited
	var provider datasource.WeatherProvider = accuweather.NewProvider(cfg.Provider.APIKey,
		accuweather.WithBaseURL(cfg.Provider.BaseURL),
		accuweather.WithTimeout(cfg.Provider.Timeout))
	if cfg.Provider.RateLimitEnabled {
		provider = datasource.NewRateLimitedProvider(provider,
			cfg.Provider.LocationRPS, cfg.Provider.ForecastRPS, cfg.Provider.Burst)
	}
	c.Provider = provider
	log.Infow("Using weather provider", "provider", provider.Name(),
		"api_key", logger.MaskSensitiveString(cfg.Provider.APIKey, 3, 3))

	// Location store
	switch cfg.LocationCache.Backend {
	case config.BackendMemory:
		c.LocationStore = cache.NewMemoryLocationStore(cfg.LocationCache.TTL)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.LocationCache.RedisAddress,
			Password: cfg.LocationCache.RedisPassword,
			DB:       cfg.LocationCache.RedisDB,
		})
		store := cache.NewRedisLocationStore(client, cfg.LocationCache.TTL)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.LocationCache.RedisAddress, err)
		}
		c.redisClient = client
		c.LocationStore = store
	}
	if c.LocationStore != nil {
		log.Infow("Using location store", "store", c.LocationStore.Name(), "ttl", cfg.LocationCache.TTL)
	}

	c.Resolver = resolver.New(provider, c.LocationStore)
	c.Classifier = classifier.New(cfg.Classifier)
	t := c.Classifier.Thresholds()
	log.Infow("Classifier thresholds", "max_temp", t.MaxTemp, "min_temp", t.MinTemp, "max_wind", t.MaxWind)

	opts := []route.Option{route.WithConcurrency(cfg.Route.Concurrency)}
	if cfg.Route.ForecastCacheTTL > 0 {
		c.ForecastCache = cache.NewForecastCache(provider, cfg.Route.ForecastCacheTTL)
		opts = append(opts, route.WithSharedCache(c.ForecastCache))
	}
	c.Aggregator = route.NewAggregator(c.Resolver, provider, c.Classifier, opts...)

	return c, nil
}

// Close releases external connections
func (c *Container) Close() error {
	if c.redisClient != nil {
		return c.redisClient.Close()
	}
	return nil
}
