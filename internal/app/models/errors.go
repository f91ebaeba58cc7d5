package models

import "errors"

// Domain specific errors for the itinerary pipeline.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("requested item not found")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrEmptyResult = errors.New("no results available")
)
