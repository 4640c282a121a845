// Package resolver maps free-text city names to provider location keys and
// location keys to coordinates, optionally through a LocationStore.
package resolver

import (
	"context"
	"fmt"

	"route-weather/cache"
	"route-weather/datasource"
	"route-weather/logger"
	"route-weather/metrics"
	"route-weather/models"
)

// Resolver performs single-attempt lookups against a location source
type Resolver struct {
	source datasource.LocationSource
	store  cache.LocationStore // nil disables memoization
}

// New creates a resolver. store may be nil.
func New(source datasource.LocationSource, store cache.LocationStore) *Resolver {
	return &Resolver{source: source, store: store}
}

// ResolveLocation returns the key of the first autocomplete match for cityName
func (r *Resolver) ResolveLocation(ctx context.Context, cityName string) (string, error) {
	log := logger.GetLogger()

	if r.store != nil {
		key, found, err := r.store.LookupKey(ctx, cityName)
		if err != nil {
			log.Warnw("Location store lookup failed", "store", r.store.Name(), "city", cityName, "error", err)
		} else if found {
			metrics.LocationStoreHits.WithLabelValues("key").Inc()
			return key, nil
		}
	}

	candidates, err := r.source.AutocompleteLocation(ctx, cityName)
	if err != nil {
		return "", models.NewRouteError(models.ResolutionError, cityName, "location lookup failed", err)
	}
	if len(candidates) == 0 {
		return "", models.NewRouteError(models.ResolutionError, cityName, "no matching location", nil)
	}
	key := candidates[0].Key
	if key == "" {
		return "", models.NewRouteError(models.ResolutionError, cityName, "first match has no location key", nil)
	}

	log.Debugw("Resolved location", "city", cityName, "key", key, "candidates", len(candidates))

	if r.store != nil {
		if err := r.store.StoreKey(ctx, cityName, key); err != nil {
			log.Warnw("Location store write failed", "store", r.store.Name(), "city", cityName, "error", err)
		}
	}
	return key, nil
}

// ResolveCoordinates returns the geoposition of a location key
func (r *Resolver) ResolveCoordinates(ctx context.Context, locationKey string) (models.Coordinates, error) {
	log := logger.GetLogger()

	if r.store != nil {
		coords, found, err := r.store.LookupCoordinates(ctx, locationKey)
		if err != nil {
			log.Warnw("Location store lookup failed", "store", r.store.Name(), "key", locationKey, "error", err)
		} else if found {
			metrics.LocationStoreHits.WithLabelValues("coordinates").Inc()
			return coords, nil
		}
	}

	details, err := r.source.GetLocationDetails(ctx, locationKey)
	if err != nil {
		return models.Coordinates{}, models.NewRouteError(models.CoordinateError, "",
			fmt.Sprintf("details lookup for location %s failed", locationKey), err)
	}
	geo := details.GeoPosition
	if geo == nil || geo.Latitude == nil || geo.Longitude == nil {
		return models.Coordinates{}, models.NewRouteError(models.CoordinateError, "",
			fmt.Sprintf("location %s has no geoposition", locationKey), nil)
	}
	coords := models.Coordinates{Latitude: *geo.Latitude, Longitude: *geo.Longitude}

	if r.store != nil {
		if err := r.store.StoreCoordinates(ctx, locationKey, coords); err != nil {
			log.Warnw("Location store write failed", "store", r.store.Name(), "key", locationKey, "error", err)
		}
	}
	return coords, nil
}
