package datasource

import (
	"context"

	"route-weather/models"
)

// Operation names used for logging and metrics
const (
	OperationAutocomplete    = "autocomplete"
	OperationLocationDetails = "location_details"
	OperationForecast        = "forecast"
)

// ForecastSource is an interface for services that can fetch daily forecasts
type ForecastSource interface {
	// FetchForecast fetches the raw daily forecast for a location key and horizon
	FetchForecast(ctx context.Context, locationKey string, days int) (*models.DailyForecastResponse, error)

	// Name returns the source's name
	Name() string
}

// WeatherProvider is a provider offering both geocoding and forecasts
type WeatherProvider interface {
	LocationSource
	ForecastSource
}
