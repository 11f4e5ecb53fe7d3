package ai

import "errors"

var (
	// ErrNoGeocodeResult indicates the geocoder found no match for a query.
	ErrNoGeocodeResult = errors.New("no geocode result")

	// ErrEmptyResponse indicates the model returned no choices.
	ErrEmptyResponse = errors.New("empty model response")

	// ErrInvalidResponse indicates a model reply that could not be decoded.
	ErrInvalidResponse = errors.New("invalid model response")
)
