package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"route-weather/datasource"
	"route-weather/logger"
	"route-weather/metrics"
	"route-weather/models"

	"golang.org/x/sync/singleflight"
)

// ForecastCache wraps a ForecastSource, parses its payloads and memoizes the
// parsed days per (location, horizon). Concurrent misses for the same key share
// one upstream call. Failures are never stored.
type ForecastCache struct {
	source         datasource.ForecastSource
	cache          map[string]forecastCacheEntry // key is location:days
	mutex          sync.RWMutex
	group          singleflight.Group
	cacheDuration  time.Duration // zero means entries never expire
	cacheHitCount  int
	cacheMissCount int
	now            func() time.Time
}

// forecastCacheEntry represents a parsed forecast with its timestamp
type forecastCacheEntry struct {
	Days      []models.ForecastDay
	Timestamp time.Time
}

// NewForecastCache creates a cache in front of source. A zero cacheDuration keeps
// entries for the lifetime of the cache, which is what a single route build wants.
func NewForecastCache(source datasource.ForecastSource, cacheDuration time.Duration) *ForecastCache {
	return &ForecastCache{
		source:        source,
		cache:         make(map[string]forecastCacheEntry),
		cacheDuration: cacheDuration,
		now:           time.Now,
	}
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *ForecastCache) Name() string {
	return c.source.Name() + " [Cached]"
}

func cacheKey(locationID string, horizon models.Horizon) string {
	return fmt.Sprintf("%s:%d", locationID, horizon)
}

func (c *ForecastCache) lookup(key string) ([]models.ForecastDay, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, found := c.cache[key]
	if !found {
		return nil, false
	}
	if c.cacheDuration > 0 && c.now().Sub(entry.Timestamp) >= c.cacheDuration {
		return nil, false
	}
	return entry.Days, true
}

// FetchForecast returns the parsed daily forecast for a location, fetching it at
// most once per key. Upstream failures come back as FetchError, unparseable
// or empty payloads as DataError. A caller whose ctx ends stops waiting without
// disturbing other callers of the same key. The returned slice is a copy owned by the caller.
func (c *ForecastCache) FetchForecast(ctx context.Context, locationID string, horizon models.Horizon) ([]models.ForecastDay, error) {
	log := logger.GetLogger()

	if !horizon.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unsupported horizon: %d days", horizon))
	}

	key := cacheKey(locationID, horizon)

	if days, ok := c.lookup(key); ok {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()
		metrics.ForecastCacheHits.Inc()

		log.Debugw("Forecast cache hit", "location", locationID, "days", int(horizon), "source", c.source.Name())
		return copyDays(days), nil
	}

	// the upstream call is shared, so it must outlive any single caller
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (interface{}, error) {
		// another caller may have filled the entry while we waited on the group
		if days, ok := c.lookup(key); ok {
			return days, nil
		}

		c.mutex.Lock()
		c.cacheMissCount++
		c.mutex.Unlock()
		metrics.ForecastCacheMisses.Inc()

		log.Debugw("Forecast cache miss, fetching", "location", locationID, "days", int(horizon), "source", c.source.Name())

		raw, err := c.source.FetchForecast(fetchCtx, locationID, int(horizon))
		if err != nil {
			return nil, models.NewRouteError(models.FetchError, "", "forecast request failed", err)
		}

		days, err := models.ParseForecastDays(raw)
		if err != nil {
			return nil, models.NewRouteError(models.DataError, "", "forecast payload is malformed", err)
		}
		if len(days) == 0 {
			return nil, models.NewRouteError(models.DataError, "", "forecast payload has no days", nil)
		}

		c.mutex.Lock()
		c.cache[key] = forecastCacheEntry{
			Days:      days,
			Timestamp: c.now(),
		}
		c.mutex.Unlock()

		return days, nil
	})

	select {
	case <-ctx.Done():
		return nil, models.NewRouteError(models.FetchError, "", "forecast request canceled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debugw("Forecast fetch shared with concurrent caller", "location", locationID, "days", int(horizon))
		}
		return copyDays(res.Val.([]models.ForecastDay)), nil
	}
}

// CacheStats returns statistics about cache hits and misses
func (c *ForecastCache) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Len returns the number of stored entries, expired ones included
func (c *ForecastCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cache)
}

func copyDays(days []models.ForecastDay) []models.ForecastDay {
	out := make([]models.ForecastDay, len(days))
	copy(out, days)
	return out
}
