package models

import (
	"fmt"
	"time"
)

// Horizon is the number of forecast days requested from the provider
type Horizon int

const (
	HorizonOneDay   Horizon = 1
	HorizonFiveDays Horizon = 5
)

// Valid reports whether the provider offers a product for this horizon
func (h Horizon) Valid() bool {
	return h == HorizonOneDay || h == HorizonFiveDays
}

// ParseHorizon converts a day count into a Horizon
func ParseHorizon(days int) (Horizon, error) {
	h := Horizon(days)
	if !h.Valid() {
		return 0, NewValidationError(fmt.Sprintf("horizon must be %d or %d days, got %d", HorizonOneDay, HorizonFiveDays, days))
	}
	return h, nil
}

// Coordinates is an immutable latitude/longitude pair
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// City is a waypoint resolved against the provider
type City struct {
	Name        string      `json:"name"`
	LocationID  string      `json:"locationId"`
	Coordinates Coordinates `json:"coordinates"`
}

// RouteDataset is the consolidated result for one route computation
type RouteDataset struct {
	Cities    []City                   `json:"cities"`    // first-seen order, no duplicate names
	Forecasts map[string][]ForecastDay `json:"forecasts"` // key is city name
	Verdicts  map[string][]Verdict     `json:"verdicts"`  // key is city name
	Centroid  Coordinates              `json:"centroid"`
	Horizon   Horizon                  `json:"horizonDays"`
	Generated time.Time                `json:"generated"`
}

// CityNames returns the route's city names in order
func (d *RouteDataset) CityNames() []string {
	names := make([]string, len(d.Cities))
	for i, c := range d.Cities {
		names[i] = c.Name
	}
	return names
}

// Centroid returns the unweighted mean of the given coordinates
func Centroid(points []Coordinates) Coordinates {
	if len(points) == 0 {
		return Coordinates{}
	}

	var lat, lon float64
	for _, p := range points {
		lat += p.Latitude
		lon += p.Longitude
	}
	n := float64(len(points))
	return Coordinates{Latitude: lat / n, Longitude: lon / n}
}
