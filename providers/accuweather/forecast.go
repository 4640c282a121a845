package accuweather

import (
	"context"
	"fmt"
	"net/url"

	"route-weather/datasource"
	"route-weather/models"
)

// FetchForecast fetches the daily forecast product for 1 or 5 days, in metric units
// with details so that wind speeds are present
func (p *Provider) FetchForecast(ctx context.Context, locationKey string, days int) (*models.DailyForecastResponse, error) {
	if !models.Horizon(days).Valid() {
		return nil, fmt.Errorf("unsupported forecast horizon: %d days", days)
	}

	var response models.DailyForecastResponse
	endpoint := fmt.Sprintf(dailyEndpoint, days, url.PathEscape(locationKey))
	err := p.get(ctx, datasource.OperationForecast, endpoint, map[string]string{
		"metric":  "true",
		"details": "true",
	}, &response)
	if err != nil {
		return nil, err
	}
	return &response, nil
}
