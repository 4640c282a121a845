package models

import (
	"fmt"
	"math"
	"time"
)

// Defaults applied when the provider omits optional detail fields
const (
	DefaultWindSpeed        = 0.0
	DefaultHasPrecipitation = false
)

// ForecastDay represents one calendar day of forecast for a location
type ForecastDay struct {
	Date                  time.Time `json:"date"`
	TemperatureMax        float64   `json:"temperatureMax"`        // in Celsius
	TemperatureMin        float64   `json:"temperatureMin"`        // in Celsius
	WindSpeedDay          float64   `json:"windSpeedDay"`          // in km/h
	WindSpeedNight        float64   `json:"windSpeedNight"`        // in km/h
	HasPrecipitationDay   bool      `json:"hasPrecipitationDay"`
	HasPrecipitationNight bool      `json:"hasPrecipitationNight"`
	IconCode              *int      `json:"iconCode,omitempty"`
}

// Malformed reports whether the day is missing data a verdict depends on
func (d ForecastDay) Malformed() bool {
	return d.Date.IsZero() || math.IsNaN(d.TemperatureMax) || math.IsNaN(d.TemperatureMin)
}

// DailyForecastResponse is the raw daily forecast payload as returned by the provider.
// Every field is optional at this level; ParseForecastDays decides what is required.
type DailyForecastResponse struct {
	DailyForecasts []RawDailyForecast `json:"DailyForecasts"`
}

// RawDailyForecast is a single provider day before validation
type RawDailyForecast struct {
	Date        *string         `json:"Date"`
	Temperature *RawTemperature `json:"Temperature"`
	Day         *RawHalfDay     `json:"Day"`
	Night       *RawHalfDay     `json:"Night"`
}

// RawTemperature holds the min/max pair of a provider day
type RawTemperature struct {
	Minimum *RawValue `json:"Minimum"`
	Maximum *RawValue `json:"Maximum"`
}

// RawValue is the provider's {Value, Unit} measurement wrapper
type RawValue struct {
	Value *float64 `json:"Value"`
	Unit  string   `json:"Unit,omitempty"`
}

// RawHalfDay describes the day or night part of a provider day
type RawHalfDay struct {
	Icon             *int     `json:"Icon"`
	IconPhrase       string   `json:"IconPhrase,omitempty"`
	HasPrecipitation *bool    `json:"HasPrecipitation"`
	Wind             *RawWind `json:"Wind"`
}

// RawWind wraps the wind speed measurement
type RawWind struct {
	Speed *RawValue `json:"Speed"`
}

// ParseForecastDays converts a raw payload into validated forecast days.
// Date and min/max temperature are required; wind and precipitation fall back to defaults.
func ParseForecastDays(resp *DailyForecastResponse) ([]ForecastDay, error) {
	if resp == nil || resp.DailyForecasts == nil {
		return nil, fmt.Errorf("response has no DailyForecasts")
	}

	days := make([]ForecastDay, 0, len(resp.DailyForecasts))
	for i, raw := range resp.DailyForecasts {
		day, err := raw.toForecastDay()
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i, err)
		}
		days = append(days, day)
	}

	return days, nil
}

func (r RawDailyForecast) toForecastDay() (ForecastDay, error) {
	if r.Date == nil || *r.Date == "" {
		return ForecastDay{}, fmt.Errorf("missing Date")
	}
	date, err := time.Parse(time.RFC3339, *r.Date)
	if err != nil {
		return ForecastDay{}, fmt.Errorf("invalid Date %q: %w", *r.Date, err)
	}
	if r.Temperature == nil {
		return ForecastDay{}, fmt.Errorf("missing Temperature")
	}
	tmax, ok := r.Temperature.Maximum.value()
	if !ok {
		return ForecastDay{}, fmt.Errorf("missing Temperature.Maximum.Value")
	}
	tmin, ok := r.Temperature.Minimum.value()
	if !ok {
		return ForecastDay{}, fmt.Errorf("missing Temperature.Minimum.Value")
	}

	return ForecastDay{
		Date:                  date,
		TemperatureMax:        tmax,
		TemperatureMin:        tmin,
		WindSpeedDay:          r.Day.windSpeed(),
		WindSpeedNight:        r.Night.windSpeed(),
		HasPrecipitationDay:   r.Day.hasPrecipitation(),
		HasPrecipitationNight: r.Night.hasPrecipitation(),
		IconCode:              r.Day.icon(),
	}, nil
}

func (v *RawValue) value() (float64, bool) {
	if v == nil || v.Value == nil {
		return 0, false
	}
	return *v.Value, true
}

func (h *RawHalfDay) windSpeed() float64 {
	if h == nil || h.Wind == nil {
		return DefaultWindSpeed
	}
	if speed, ok := h.Wind.Speed.value(); ok {
		return speed
	}
	return DefaultWindSpeed
}

func (h *RawHalfDay) hasPrecipitation() bool {
	if h == nil || h.HasPrecipitation == nil {
		return DefaultHasPrecipitation
	}
	return *h.HasPrecipitation
}

func (h *RawHalfDay) icon() *int {
	if h == nil || h.Icon == nil {
		return nil
	}
	icon := *h.Icon
	return &icon
}
