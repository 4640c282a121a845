// Package collector periodically rebuilds the configured named routes.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"route-weather/config"
	"route-weather/logger"
	"route-weather/models"

	"github.com/robfig/cron/v3"
)

// Builder computes a route dataset
type Builder interface {
	BuildRoute(ctx context.Context, names []string, horizon models.Horizon) (*models.RouteDataset, error)
}

// Sink receives the outcome of each refresh
type Sink interface {
	UpdateRoute(name string, ds *models.RouteDataset)
	RecordFailure(name string, err error)
}

// RouteCollector refreshes every scheduled route on a cron schedule
type RouteCollector struct {
	builder      Builder
	sink         Sink
	routes       []config.ScheduledRoute
	schedule     string
	fetchTimeout time.Duration
	cron         *cron.Cron
}

// NewRouteCollector creates a collector. schedule accepts standard 5-field
// cron expressions and descriptors such as "@every 30m".
func NewRouteCollector(builder Builder, sink Sink, routes []config.ScheduledRoute, schedule string) *RouteCollector {
	return &RouteCollector{
		builder:      builder,
		sink:         sink,
		routes:       routes,
		schedule:     schedule,
		fetchTimeout: time.Minute,
		// Prevent overlapping runs
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// SetFetchTimeout changes the time allowed for a single route build
func (c *RouteCollector) SetFetchTimeout(timeout time.Duration) {
	c.fetchTimeout = timeout
}

// RunOnce rebuilds every route once. A failed route keeps its previous dataset;
// the returned error joins all failures.
func (c *RouteCollector) RunOnce(ctx context.Context) error {
	log := logger.GetLogger()
	start := time.Now()

	var errs []error
	for _, r := range c.routes {
		if err := c.refresh(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("route %s: %w", r.Name, err))
		}
	}

	log.Infow("Scheduled route refresh complete",
		"routes", len(c.routes),
		"failures", len(errs),
		"duration", time.Since(start))
	return errors.Join(errs...)
}

func (c *RouteCollector) refresh(ctx context.Context, r config.ScheduledRoute) error {
	log := logger.GetLogger()

	buildCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	horizon, err := models.ParseHorizon(r.Days)
	if err != nil {
		c.sink.RecordFailure(r.Name, err)
		return err
	}

	ds, err := c.builder.BuildRoute(buildCtx, r.Cities, horizon)
	if err != nil {
		log.Warnw("Scheduled route refresh failed", "route", r.Name, "city", models.CityOf(err), "error", err)
		c.sink.RecordFailure(r.Name, err)
		return err
	}

	c.sink.UpdateRoute(r.Name, ds)
	log.Debugw("Scheduled route refreshed", "route", r.Name, "cities", len(ds.Cities))
	return nil
}

// Start schedules the refresh job and runs it once immediately in the background.
// The returned function stops the schedule and waits for a running job to finish.
func (c *RouteCollector) Start(ctx context.Context) (func(), error) {
	log := logger.GetLogger()

	collectionCtx, cancelCollection := context.WithCancel(ctx)

	job := func() {
		if err := c.RunOnce(collectionCtx); err != nil {
			log.Warnw("Scheduled refresh had failures", "error", err)
		}
	}
	if _, err := c.cron.AddFunc(c.schedule, job); err != nil {
		cancelCollection()
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}

	log.Infow("Route collector started", "schedule", c.schedule, "routes", len(c.routes))
	c.cron.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		job()
	}()

	return func() {
		cancelCollection()
		<-c.cron.Stop().Done()
		<-done
	}, nil
}
