package accuweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"route-weather/datasource"
	"route-weather/logger"
	"route-weather/metrics"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the public AccuWeather data service
	DefaultBaseURL = "http://dataservice.accuweather.com"

	autocompleteEndpoint = "/locations/v1/cities/autocomplete"
	locationEndpoint     = "/locations/v1/%s"
	dailyEndpoint        = "/forecasts/v1/daily/%dday/%s"

	defaultTimeout = 10 * time.Second
	userAgent      = "RouteWeather/1.0"
)

// Provider is an AccuWeather implementation of datasource.WeatherProvider
type Provider struct {
	apiKey string
	client *resty.Client
}

// Ensure Provider implements datasource.WeatherProvider
var _ datasource.WeatherProvider = (*Provider)(nil)

// Option customizes a Provider
type Option func(*Provider)

// WithBaseURL points the provider at another host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.client.SetBaseURL(baseURL)
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(p *Provider) {
		p.client.SetTimeout(timeout)
	}
}

// NewProvider creates a new AccuWeather provider. Requests are never retried.
func NewProvider(apiKey string, opts ...Option) *Provider {
	client := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(defaultTimeout).
		SetRetryCount(0)

	p := &Provider{
		apiKey: apiKey,
		client: client,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "AccuWeather"
}

// get issues a GET request and decodes a 200 response body into out
func (p *Provider) get(ctx context.Context, operation, endpoint string, params map[string]string, out interface{}) (err error) {
	log := logger.GetLogger()
	defer func() { metrics.ObserveUpstream(operation, err) }()

	query := map[string]string{"apikey": p.apiKey}
	for k, v := range params {
		query[k] = v
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(endpoint)
	if err != nil {
		// url.Error carries the request URL, api key included
		var ue *url.Error
		if errors.As(err, &ue) {
			return fmt.Errorf("failed to execute request %s %s: %w", ue.Op, endpoint, ue.Err)
		}
		return fmt.Errorf("failed to execute request %s: %w", endpoint, err)
	}

	log.Debugw("AccuWeather response",
		"operation", operation,
		"endpoint", endpoint,
		"status", resp.StatusCode(),
		"duration", resp.Time())

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode(), string(resp.Body()))
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
