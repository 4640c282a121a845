// Package metrics holds the Prometheus collectors shared by the route pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// UpstreamRequests counts provider calls by operation and outcome
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeweather_upstream_requests_total",
		Help: "Total number of weather provider requests",
	}, []string{"operation", "outcome"})

	// ForecastCacheHits counts forecast lookups served without an upstream call
	ForecastCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routeweather_forecast_cache_hits_total",
		Help: "Total number of forecast cache hits",
	})

	// ForecastCacheMisses counts forecast lookups that went upstream
	ForecastCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "routeweather_forecast_cache_misses_total",
		Help: "Total number of forecast cache misses",
	})

	// LocationStoreHits counts resolutions answered by the location store
	LocationStoreHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeweather_location_store_hits_total",
		Help: "Total number of location store hits",
	}, []string{"lookup"})

	// RouteBuilds counts route computations by outcome (success or error kind)
	RouteBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "routeweather_route_builds_total",
		Help: "Total number of route computations",
	}, []string{"outcome"})

	// RouteBuildDuration observes end-to-end route computation time
	RouteBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "routeweather_route_build_duration_seconds",
		Help:    "Duration of route computations",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveUpstream records one provider call
func ObserveUpstream(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamRequests.WithLabelValues(operation, outcome).Inc()
}
