package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentroid(t *testing.T) {
	tests := []struct {
		name   string
		points []Coordinates
		want   Coordinates
	}{
		{"empty", nil, Coordinates{}},
		{"single", []Coordinates{{Latitude: 48.85, Longitude: 2.35}}, Coordinates{Latitude: 48.85, Longitude: 2.35}},
		{"two on equator", []Coordinates{{0, 0}, {0, 10}}, Coordinates{Latitude: 0, Longitude: 5}},
		{"three", []Coordinates{{10, 10}, {20, 20}, {30, 30}}, Coordinates{Latitude: 20, Longitude: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Centroid(tt.points)
			assert.InDelta(t, tt.want.Latitude, got.Latitude, 1e-9)
			assert.InDelta(t, tt.want.Longitude, got.Longitude, 1e-9)
		})
	}
}

func TestParseHorizon(t *testing.T) {
	for _, days := range []int{1, 5} {
		h, err := ParseHorizon(days)
		require.NoError(t, err)
		assert.Equal(t, Horizon(days), h)
	}

	for _, days := range []int{0, 2, 3, 10, -1} {
		_, err := ParseHorizon(days)
		assert.ErrorIs(t, err, ErrValidation, "days=%d", days)
	}
}

func TestRouteError_KindMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("building route: %w", NewRouteError(ResolutionError, "Paris", "autocomplete failed", cause))

	assert.ErrorIs(t, err, ErrResolution)
	assert.NotErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ResolutionError, KindOf(err))
	assert.Equal(t, "Paris", CityOf(err))
	assert.Contains(t, err.Error(), `city "Paris"`)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRouteError_WithCity(t *testing.T) {
	base := NewRouteError(CoordinateError, "", "missing GeoPosition", nil)
	named := base.WithCity("Berlin")

	assert.Equal(t, "", base.City)
	assert.Equal(t, "Berlin", named.City)
	assert.Equal(t, CoordinateError, named.Kind)
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("boom")))
	assert.Equal(t, "", CityOf(errors.New("boom")))
}

func TestVerdictMessages(t *testing.T) {
	assert.True(t, Verdict{Kind: BadWind}.IsBad())
	assert.False(t, Verdict{Kind: Good}.IsBad())
	assert.False(t, Verdict{Kind: InsufficientData}.IsBad())
	assert.Equal(t, "great weather", Verdict{Kind: Good}.Message())
	assert.Equal(t, "insufficient weather data", Verdict{Kind: InsufficientData}.Message())
}
