package accuweather

import (
	"context"
	"fmt"
	"net/url"

	"route-weather/datasource"
	"route-weather/models"
)

// AutocompleteLocation queries the city autocomplete endpoint with a free-text name
func (p *Provider) AutocompleteLocation(ctx context.Context, query string) ([]models.LocationCandidate, error) {
	var candidates []models.LocationCandidate
	err := p.get(ctx, datasource.OperationAutocomplete, autocompleteEndpoint, map[string]string{
		"q": query,
	}, &candidates)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// GetLocationDetails fetches the location record, including its GeoPosition
func (p *Provider) GetLocationDetails(ctx context.Context, locationKey string) (models.LocationDetails, error) {
	var details models.LocationDetails
	endpoint := fmt.Sprintf(locationEndpoint, url.PathEscape(locationKey))
	err := p.get(ctx, datasource.OperationLocationDetails, endpoint, map[string]string{
		"details": "false",
	}, &details)
	if err != nil {
		return models.LocationDetails{}, err
	}
	return details, nil
}
