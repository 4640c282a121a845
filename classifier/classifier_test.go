package classifier

import (
	"math"
	"testing"
	"time"

	"route-weather/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, 10, 19, 7, 0, 0, 0, time.UTC)

func goodDay() models.ForecastDay {
	return models.ForecastDay{
		Date:           testDate,
		TemperatureMax: 20,
		TemperatureMin: 5,
		WindSpeedDay:   5,
		WindSpeedNight: 5,
	}
}

func TestClassify(t *testing.T) {
	c := New(DefaultThresholds())

	tests := []struct {
		name   string
		modify func(d *models.ForecastDay)
		want   models.VerdictKind
	}{
		{"good weather", func(d *models.ForecastDay) {}, models.Good},
		{"temperature wins over wind and precipitation", func(d *models.ForecastDay) {
			d.TemperatureMax = 35
			d.WindSpeedDay = 20
			d.HasPrecipitationDay = true
		}, models.BadTemperature},
		{"max temperature at limit", func(d *models.ForecastDay) { d.TemperatureMax = 30 }, models.Good},
		{"max temperature above limit", func(d *models.ForecastDay) { d.TemperatureMax = 30.1 }, models.BadTemperature},
		{"min temperature at limit", func(d *models.ForecastDay) { d.TemperatureMin = -5 }, models.Good},
		{"min temperature below limit", func(d *models.ForecastDay) { d.TemperatureMin = -5.1 }, models.BadTemperature},
		{"wind wins over precipitation", func(d *models.ForecastDay) {
			d.WindSpeedNight = 12
			d.HasPrecipitationNight = true
		}, models.BadWind},
		{"wind at limit", func(d *models.ForecastDay) { d.WindSpeedDay = 10 }, models.Good},
		{"day wind above limit", func(d *models.ForecastDay) { d.WindSpeedDay = 10.5 }, models.BadWind},
		{"night precipitation", func(d *models.ForecastDay) { d.HasPrecipitationNight = true }, models.BadPrecipitation},
		{"day precipitation", func(d *models.ForecastDay) { d.HasPrecipitationDay = true }, models.BadPrecipitation},
		{"missing temperature", func(d *models.ForecastDay) { d.TemperatureMax = math.NaN() }, models.InsufficientData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := goodDay()
			tt.modify(&day)
			v := c.Classify(day)
			assert.Equal(t, tt.want, v.Kind)
			assert.Equal(t, testDate, v.Date)
		})
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	c := New(Thresholds{MaxTemp: 18, MinTemp: 0, MaxWind: 30})

	day := goodDay()
	day.WindSpeedDay = 25
	assert.Equal(t, models.BadTemperature, c.Classify(day).Kind)

	day.TemperatureMax = 17
	assert.Equal(t, models.Good, c.Classify(day).Kind)
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	c := New(DefaultThresholds())

	windy := goodDay()
	windy.Date = testDate.AddDate(0, 0, 1)
	windy.WindSpeedDay = 15
	wet := goodDay()
	wet.Date = testDate.AddDate(0, 0, 2)
	wet.HasPrecipitationDay = true

	verdicts := c.ClassifyAll([]models.ForecastDay{goodDay(), windy, wet}, 3)
	require.Len(t, verdicts, 3)
	assert.Equal(t, models.Good, verdicts[0].Kind)
	assert.Equal(t, models.BadWind, verdicts[1].Kind)
	assert.Equal(t, models.BadPrecipitation, verdicts[2].Kind)
	assert.Equal(t, wet.Date, verdicts[2].Date)
}

func TestClassifyAll_InsufficientData(t *testing.T) {
	c := New(DefaultThresholds())

	verdicts := c.ClassifyAll(nil, 5)
	require.Len(t, verdicts, 5)
	for _, v := range verdicts {
		assert.Equal(t, models.InsufficientData, v.Kind)
	}

	broken := goodDay()
	broken.Date = time.Time{}
	verdicts = c.ClassifyAll([]models.ForecastDay{goodDay(), broken}, 5)
	require.Len(t, verdicts, 2)
	assert.Equal(t, models.InsufficientData, verdicts[0].Kind)
	assert.Equal(t, testDate, verdicts[0].Date)
	assert.Equal(t, models.InsufficientData, verdicts[1].Kind)

	assert.Empty(t, c.ClassifyAll(nil, 0))
}

func TestClassifyResponse(t *testing.T) {
	c := New(DefaultThresholds())

	t.Run("absent DailyForecasts", func(t *testing.T) {
		verdicts := c.ClassifyResponse(&models.DailyForecastResponse{}, 5)
		require.Len(t, verdicts, 5)
		assert.Equal(t, models.InsufficientData, verdicts[4].Kind)

		assert.Len(t, c.ClassifyResponse(nil, 1), 1)
	})

	t.Run("optional fields default", func(t *testing.T) {
		date := "2024-10-19T07:00:00+02:00"
		tmax, tmin := 22.0, 9.0
		resp := &models.DailyForecastResponse{DailyForecasts: []models.RawDailyForecast{{
			Date: &date,
			Temperature: &models.RawTemperature{
				Maximum: &models.RawValue{Value: &tmax},
				Minimum: &models.RawValue{Value: &tmin},
			},
		}}}

		verdicts := c.ClassifyResponse(resp, 1)
		require.Len(t, verdicts, 1)
		assert.Equal(t, models.Good, verdicts[0].Kind)
	})

	t.Run("missing required field", func(t *testing.T) {
		date := "2024-10-19T07:00:00+02:00"
		tmax, tmin := 22.0, 9.0
		resp := &models.DailyForecastResponse{DailyForecasts: []models.RawDailyForecast{
			{Date: &date, Temperature: &models.RawTemperature{
				Maximum: &models.RawValue{Value: &tmax},
				Minimum: &models.RawValue{Value: &tmin},
			}},
			{Date: &date},
		}}

		verdicts := c.ClassifyResponse(resp, 5)
		require.Len(t, verdicts, 2)
		for _, v := range verdicts {
			assert.Equal(t, models.InsufficientData, v.Kind)
			assert.False(t, v.Date.IsZero())
		}
	})
}

func TestThresholdsValidate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.Error(t, Thresholds{MaxTemp: 0, MinTemp: 10, MaxWind: 5}.Validate())
	assert.Error(t, Thresholds{MaxTemp: 30, MinTemp: -5, MaxWind: -1}.Validate())
}
