package datasource

import (
	"context"

	"route-weather/models"
)

// LocationSource defines the geocoding half of a weather provider
type LocationSource interface {
	// AutocompleteLocation returns candidate locations matching a free-text query
	AutocompleteLocation(ctx context.Context, query string) ([]models.LocationCandidate, error)

	// GetLocationDetails returns the full record for a provider location key
	GetLocationDetails(ctx context.Context, locationKey string) (models.LocationDetails, error)

	// Name returns the source's name
	Name() string
}
