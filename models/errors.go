package models

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the pipeline stage that failed
type ErrorKind string

const (
	ResolutionError ErrorKind = "RESOLUTION_ERROR"
	CoordinateError ErrorKind = "COORDINATE_ERROR"
	FetchError      ErrorKind = "FETCH_ERROR"
	DataError       ErrorKind = "DATA_ERROR"
	ValidationError ErrorKind = "VALIDATION_ERROR"
)

// Sentinels usable with errors.Is against any RouteError of the same kind
var (
	ErrResolution = &RouteError{Kind: ResolutionError}
	ErrCoordinate = &RouteError{Kind: CoordinateError}
	ErrFetch      = &RouteError{Kind: FetchError}
	ErrData       = &RouteError{Kind: DataError}
	ErrValidation = &RouteError{Kind: ValidationError}
)

// RouteError is a structured failure of a route computation stage
type RouteError struct {
	Kind    ErrorKind `json:"type"`
	City    string    `json:"city,omitempty"`
	Message string    `json:"message"`
	Raw     error     `json:"-"`
}

func (e *RouteError) Error() string {
	msg := string(e.Kind)
	if e.City != "" {
		msg = fmt.Sprintf("%s: city %q", msg, e.City)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Raw != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Raw)
	}
	return msg
}

func (e *RouteError) Unwrap() error {
	return e.Raw
}

// Is matches any RouteError of the same kind
func (e *RouteError) Is(target error) bool {
	t, ok := target.(*RouteError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithCity returns a copy of the error attributed to the given city
func (e *RouteError) WithCity(city string) *RouteError {
	c := *e
	c.City = city
	return &c
}

// NewRouteError wraps err as a failure of the given kind
func NewRouteError(kind ErrorKind, city, message string, err error) *RouteError {
	return &RouteError{
		Kind:    kind,
		City:    city,
		Message: message,
		Raw:     err,
	}
}

// NewValidationError reports invalid caller input
func NewValidationError(message string) *RouteError {
	return &RouteError{Kind: ValidationError, Message: message}
}

// KindOf extracts the ErrorKind of err, or "" when err is not a RouteError
func KindOf(err error) ErrorKind {
	var re *RouteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// CityOf extracts the offending city name of err, if any
func CityOf(err error) string {
	var re *RouteError
	if errors.As(err, &re) {
		return re.City
	}
	return ""
}
