package datasource

import (
	"context"
	"fmt"

	"route-weather/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a WeatherProvider with one limiter for location
// lookups and one for forecasts
type RateLimitedProvider struct {
	provider        WeatherProvider
	locationLimiter *rate.Limiter
	forecastLimiter *rate.Limiter
	name            string
}

// NewRateLimitedProvider creates a provider that waits for a token before each call.
// locationRPS and forecastRPS are the maximum requests per second for each API;
// they can be fractional for less than one request per second.
func NewRateLimitedProvider(provider WeatherProvider, locationRPS, forecastRPS float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider:        provider,
		locationLimiter: rate.NewLimiter(rate.Limit(locationRPS), burst),
		forecastLimiter: rate.NewLimiter(rate.Limit(forecastRPS), burst),
		name:            fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// AutocompleteLocation implements LocationSource with rate limiting
func (r *RateLimitedProvider) AutocompleteLocation(ctx context.Context, query string) ([]models.LocationCandidate, error) {
	if err := r.locationLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.AutocompleteLocation(ctx, query)
}

// GetLocationDetails implements LocationSource with rate limiting
func (r *RateLimitedProvider) GetLocationDetails(ctx context.Context, locationKey string) (models.LocationDetails, error) {
	if err := r.locationLimiter.Wait(ctx); err != nil {
		return models.LocationDetails{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.GetLocationDetails(ctx, locationKey)
}

// FetchForecast implements ForecastSource with rate limiting
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, locationKey string, days int) (*models.DailyForecastResponse, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.FetchForecast(ctx, locationKey, days)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

// Verify that the rate limited type implements the required interfaces
var _ WeatherProvider = (*RateLimitedProvider)(nil)
