package utils

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidDayCount  = errors.New("trip day count must be at least 1")
	ErrUnknownPace      = errors.New("unknown pace value")
	ErrTripNotFound     = errors.New("trip not found")
	ErrPlaceNotFound    = errors.New("place not found")
	ErrNoStoredPlan     = errors.New("no itinerary stored for this trip")
	ErrDatabaseError    = errors.New("database error")
	ErrMissingAPIKey    = errors.New("generation API key is not configured")
	ErrGenerationFailed = errors.New("itinerary generation failed")
)
