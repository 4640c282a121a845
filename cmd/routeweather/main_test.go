package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"route-weather/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRouteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alps.yaml")
	content := "name: alps\ndays: 1\ncities:\n  - Geneva\n  - Chamonix\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := loadRouteFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alps", r.Name)
	assert.Equal(t, 1, r.Days)
	assert.Equal(t, []string{"Geneva", "Chamonix"}, r.Cities)
}

func TestLoadRouteFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := loadRouteFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("name: nowhere\n"), 0o600))
	_, err = loadRouteFile(empty)
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("cities: [Geneva"), 0o600))
	_, err = loadRouteFile(broken)
	assert.Error(t, err)
}

func TestPrintTable(t *testing.T) {
	date := time.Date(2024, 10, 19, 7, 0, 0, 0, time.UTC)
	ds := &models.RouteDataset{
		Cities: []models.City{{Name: "Paris"}},
		Forecasts: map[string][]models.ForecastDay{
			"Paris": {{Date: date, TemperatureMax: 18, TemperatureMin: 9, HasPrecipitationDay: true}},
		},
		Verdicts: map[string][]models.Verdict{
			"Paris": {{Date: date, Kind: models.BadPrecipitation}},
		},
		Centroid: models.Coordinates{Latitude: 48.857, Longitude: 2.353},
	}

	var buf bytes.Buffer
	require.NoError(t, printTable(&buf, ds))

	out := buf.String()
	assert.Contains(t, out, "VERDICT")
	assert.Contains(t, out, "2024-10-19")
	assert.Contains(t, out, "bad weather (precipitation)")
	assert.Contains(t, out, "Centroid: 48.8570, 2.3530")
}
