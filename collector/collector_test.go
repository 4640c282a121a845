package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"route-weather/config"
	"route-weather/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBuilder struct {
	mu    sync.Mutex
	calls map[string]int
	fail  string
}

func (b *stubBuilder) BuildRoute(ctx context.Context, names []string, horizon models.Horizon) (*models.RouteDataset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.calls == nil {
		b.calls = make(map[string]int)
	}
	b.calls[names[0]]++

	for _, n := range names {
		if n == b.fail {
			return nil, models.NewRouteError(models.ResolutionError, n, "no matching location", nil)
		}
	}
	cities := make([]models.City, len(names))
	for i, n := range names {
		cities[i] = models.City{Name: n}
	}
	return &models.RouteDataset{Cities: cities, Horizon: horizon}, nil
}

type recordingSink struct {
	mu       sync.Mutex
	updated  map[string]*models.RouteDataset
	failures map[string]error
}

func newSink() *recordingSink {
	return &recordingSink{
		updated:  make(map[string]*models.RouteDataset),
		failures: make(map[string]error),
	}
}

func (s *recordingSink) UpdateRoute(name string, ds *models.RouteDataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated[name] = ds
}

func (s *recordingSink) RecordFailure(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[name] = err
}

func (s *recordingSink) updatedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updated)
}

var routes = []config.ScheduledRoute{
	{Name: "alps", Cities: []string{"Geneva", "Turin"}, Days: 5},
	{Name: "coast", Cities: []string{"Nice", "Genoa"}, Days: 1},
}

func TestRunOnce(t *testing.T) {
	sink := newSink()
	c := NewRouteCollector(&stubBuilder{}, sink, routes, "@every 1h")

	require.NoError(t, c.RunOnce(context.Background()))

	require.Len(t, sink.updated, 2)
	assert.Equal(t, models.HorizonFiveDays, sink.updated["alps"].Horizon)
	assert.Equal(t, models.HorizonOneDay, sink.updated["coast"].Horizon)
	assert.Empty(t, sink.failures)
}

func TestRunOnce_FailureIsRecordedAndOthersContinue(t *testing.T) {
	sink := newSink()
	c := NewRouteCollector(&stubBuilder{fail: "Genoa"}, sink, routes, "@every 1h")

	err := c.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "route coast")
	assert.ErrorIs(t, err, models.ErrResolution)

	assert.Contains(t, sink.updated, "alps")
	assert.NotContains(t, sink.updated, "coast")
	assert.Equal(t, "Genoa", models.CityOf(sink.failures["coast"]))
}

func TestRunOnce_InvalidHorizon(t *testing.T) {
	sink := newSink()
	builder := &stubBuilder{}
	c := NewRouteCollector(builder, sink, []config.ScheduledRoute{{Name: "odd", Cities: []string{"Oslo"}, Days: 3}}, "@every 1h")

	err := c.RunOnce(context.Background())
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Zero(t, builder.calls["Oslo"])
	assert.Contains(t, sink.failures, "odd")
}

func TestStart_RunsImmediatelyAndStops(t *testing.T) {
	sink := newSink()
	c := NewRouteCollector(&stubBuilder{}, sink, routes, "@every 1h")

	stop, err := c.Start(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return sink.updatedCount() == 2 }, time.Second, 10*time.Millisecond)
	stop()
}

func TestStart_InvalidSchedule(t *testing.T) {
	c := NewRouteCollector(&stubBuilder{}, newSink(), routes, "not a schedule")

	stop, err := c.Start(context.Background())
	assert.Error(t, err)
	assert.Nil(t, stop)
}
