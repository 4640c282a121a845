// Package route builds a consolidated weather dataset for an ordered list of cities.
package route

import (
	"context"
	"errors"
	"strings"
	"time"

	"route-weather/cache"
	"route-weather/classifier"
	"route-weather/datasource"
	"route-weather/logger"
	"route-weather/metrics"
	"route-weather/models"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of cities processed at once
const DefaultConcurrency = 4

// LocationResolver turns names into keys and keys into coordinates
type LocationResolver interface {
	ResolveLocation(ctx context.Context, cityName string) (string, error)
	ResolveCoordinates(ctx context.Context, locationKey string) (models.Coordinates, error)
}

// Aggregator runs the resolve, fetch and classify pipeline for every city of a route
type Aggregator struct {
	resolver    LocationResolver
	source      datasource.ForecastSource
	classifier  *classifier.Classifier
	concurrency int
	shared      *cache.ForecastCache // nil means a fresh cache per build
	now         func() time.Time
}

// Option customizes an Aggregator
type Option func(*Aggregator)

// WithConcurrency sets the worker limit. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithSharedCache makes every build use the same forecast cache
func WithSharedCache(c *cache.ForecastCache) Option {
	return func(a *Aggregator) {
		a.shared = c
	}
}

// NewAggregator creates an aggregator over the given collaborators
func NewAggregator(resolver LocationResolver, source datasource.ForecastSource, c *classifier.Classifier, opts ...Option) *Aggregator {
	a := &Aggregator{
		resolver:    resolver,
		source:      source,
		classifier:  c,
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dedup trims names, drops empty ones and keeps the first occurrence of each.
// Matching is case-sensitive.
func Dedup(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// cityResult is the per-city output of the pipeline
type cityResult struct {
	city     models.City
	days     []models.ForecastDay
	verdicts []models.Verdict
}

// BuildRoute resolves, fetches and classifies every unique city. The first failure
// cancels the remaining work and is returned attributed to its city; no partial
// dataset is ever returned.
func (a *Aggregator) BuildRoute(ctx context.Context, names []string, horizon models.Horizon) (ds *models.RouteDataset, err error) {
	log := logger.GetLogger()
	start := a.now()

	defer func() {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = string(models.KindOf(err))
			if outcome == "" {
				outcome = metrics.OutcomeError
			}
		}
		metrics.RouteBuilds.WithLabelValues(outcome).Inc()
		metrics.RouteBuildDuration.Observe(time.Since(start).Seconds())
	}()

	if !horizon.Valid() {
		_, err := models.ParseHorizon(int(horizon))
		return nil, err
	}

	cities := Dedup(names)
	if len(cities) == 0 {
		return nil, models.NewValidationError("route has no cities")
	}

	forecasts := a.shared
	if forecasts == nil {
		forecasts = cache.NewForecastCache(a.source, 0)
	}

	log.Infow("Building route", "cities", cities, "days", int(horizon), "concurrency", a.concurrency)

	results := make([]cityResult, len(cities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, name := range cities {
		i, name := i, name
		g.Go(func() error {
			res, err := a.processCity(gctx, forecasts, name, horizon)
			if err != nil {
				return attribute(err, name)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warnw("Route build failed", "city", models.CityOf(err), "kind", models.KindOf(err), "error", err)
		return nil, err
	}

	ds = &models.RouteDataset{
		Cities:    make([]models.City, len(results)),
		Forecasts: make(map[string][]models.ForecastDay, len(results)),
		Verdicts:  make(map[string][]models.Verdict, len(results)),
		Horizon:   horizon,
		Generated: a.now(),
	}
	points := make([]models.Coordinates, len(results))
	for i, res := range results {
		ds.Cities[i] = res.city
		ds.Forecasts[res.city.Name] = res.days
		ds.Verdicts[res.city.Name] = res.verdicts
		points[i] = res.city.Coordinates
	}
	ds.Centroid = models.Centroid(points)

	log.Infow("Route built", "cities", len(ds.Cities), "duration", time.Since(start))
	return ds, nil
}

func (a *Aggregator) processCity(ctx context.Context, forecasts *cache.ForecastCache, name string, horizon models.Horizon) (cityResult, error) {
	key, err := a.resolver.ResolveLocation(ctx, name)
	if err != nil {
		return cityResult{}, err
	}

	coords, err := a.resolver.ResolveCoordinates(ctx, key)
	if err != nil {
		return cityResult{}, err
	}

	days, err := forecasts.FetchForecast(ctx, key, horizon)
	if err != nil {
		return cityResult{}, err
	}

	return cityResult{
		city: models.City{
			Name:        name,
			LocationID:  key,
			Coordinates: coords,
		},
		days:     days,
		verdicts: a.classifier.ClassifyAll(days, int(horizon)),
	}, nil
}

// attribute makes sure err names the city it failed for. Errors that are not
// RouteErrors, such as a canceled context, become FetchErrors.
func attribute(err error, city string) error {
	var re *models.RouteError
	if !errors.As(err, &re) {
		return models.NewRouteError(models.FetchError, city, "route processing interrupted", err)
	}
	if re.City == "" {
		return re.WithCity(city)
	}
	return err
}
