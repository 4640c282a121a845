// Package classifier turns forecast days into travel-weather verdicts.
package classifier

import (
	"fmt"
	"time"

	"route-weather/models"
)

// Thresholds are the limits beyond which a day is bad for travel.
// Comparisons are strict: a value equal to a limit is acceptable.
type Thresholds struct {
	MaxTemp float64 `mapstructure:"MAX_TEMP" json:"maxTemp"` // Celsius
	MinTemp float64 `mapstructure:"MIN_TEMP" json:"minTemp"` // Celsius
	MaxWind float64 `mapstructure:"MAX_WIND" json:"maxWind"` // km/h
}

// DefaultThresholds returns 30°C, -5°C and 10 km/h
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxTemp: 30,
		MinTemp: -5,
		MaxWind: 10,
	}
}

// Validate rejects inverted temperature limits and negative wind limits
func (t Thresholds) Validate() error {
	if t.MinTemp >= t.MaxTemp {
		return fmt.Errorf("min temperature %.1f must be below max temperature %.1f", t.MinTemp, t.MaxTemp)
	}
	if t.MaxWind < 0 {
		return fmt.Errorf("max wind must not be negative, got %.1f", t.MaxWind)
	}
	return nil
}

// Classifier applies a fixed rule order: temperature, then wind, then precipitation
type Classifier struct {
	thresholds Thresholds
}

// New creates a classifier with the given thresholds
func New(thresholds Thresholds) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// Thresholds returns the limits in use
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Classify judges a single day. The first matching rule wins.
func (c *Classifier) Classify(day models.ForecastDay) models.Verdict {
	t := c.thresholds
	v := models.Verdict{Date: day.Date}

	switch {
	case day.Malformed():
		v.Kind = models.InsufficientData
	case day.TemperatureMax > t.MaxTemp || day.TemperatureMin < t.MinTemp:
		v.Kind = models.BadTemperature
	case day.WindSpeedDay > t.MaxWind || day.WindSpeedNight > t.MaxWind:
		v.Kind = models.BadWind
	case day.HasPrecipitationDay || day.HasPrecipitationNight:
		v.Kind = models.BadPrecipitation
	default:
		v.Kind = models.Good
	}
	return v
}

// ClassifyAll maps Classify over days in order. An empty or malformed sequence
// yields one InsufficientData verdict per expected day instead of an error.
func (c *Classifier) ClassifyAll(days []models.ForecastDay, expected int) []models.Verdict {
	if len(days) == 0 {
		return insufficient(nil, expected)
	}
	for _, d := range days {
		if d.Malformed() {
			dates := make([]time.Time, len(days))
			for i, d := range days {
				dates[i] = d.Date
			}
			return insufficient(dates, len(days))
		}
	}

	verdicts := make([]models.Verdict, len(days))
	for i, d := range days {
		verdicts[i] = c.Classify(d)
	}
	return verdicts
}

// ClassifyResponse classifies a raw provider payload with the same lenient policy:
// an absent DailyForecasts or a day missing a required field turns every day into
// InsufficientData. Optional fields fall back to their defaults.
func (c *Classifier) ClassifyResponse(resp *models.DailyForecastResponse, expected int) []models.Verdict {
	if resp == nil || resp.DailyForecasts == nil {
		return insufficient(nil, expected)
	}

	days, err := models.ParseForecastDays(resp)
	if err != nil {
		dates := make([]time.Time, len(resp.DailyForecasts))
		for i, raw := range resp.DailyForecasts {
			if raw.Date == nil {
				continue
			}
			if parsed, err := time.Parse(time.RFC3339, *raw.Date); err == nil {
				dates[i] = parsed
			}
		}
		return insufficient(dates, len(dates))
	}
	return c.ClassifyAll(days, expected)
}

// insufficient builds n InsufficientData verdicts, dated from dates where known
func insufficient(dates []time.Time, n int) []models.Verdict {
	if n < 0 {
		n = 0
	}
	verdicts := make([]models.Verdict, n)
	for i := range verdicts {
		verdicts[i].Kind = models.InsufficientData
		if i < len(dates) {
			verdicts[i].Date = dates[i]
		}
	}
	return verdicts
}
