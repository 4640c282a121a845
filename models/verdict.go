package models

import "time"

// VerdictKind is the travel-weather judgment for a single day
type VerdictKind string

const (
	BadTemperature   VerdictKind = "bad_temperature"
	BadWind          VerdictKind = "bad_wind"
	BadPrecipitation VerdictKind = "bad_precipitation"
	Good             VerdictKind = "good"
	// InsufficientData marks a day that could not be judged
	InsufficientData VerdictKind = "insufficient_data"
)

// Verdict pairs a judgment with the day it applies to
type Verdict struct {
	Date time.Time   `json:"date"`
	Kind VerdictKind `json:"kind"`
}

// IsBad reports whether the verdict advises against travel
func (v Verdict) IsBad() bool {
	switch v.Kind {
	case BadTemperature, BadWind, BadPrecipitation:
		return true
	}
	return false
}

// Message returns a short human readable description of the verdict
func (v Verdict) Message() string {
	switch v.Kind {
	case BadTemperature:
		return "bad weather (temperature)"
	case BadWind:
		return "bad weather (wind)"
	case BadPrecipitation:
		return "bad weather (precipitation)"
	case Good:
		return "great weather"
	default:
		return "insufficient weather data"
	}
}
