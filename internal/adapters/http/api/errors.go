package api

import "errors"

// Sentinel kinds for API errors. Their text is what clients see.
var (
	ErrBadRequest  = errors.New("request body must be a JSON object")
	ErrTooLarge    = errors.New("request body too large")
	ErrReadFailed  = errors.New("Failed to read data")   //nolint:stylecheck // client-facing message
	ErrWriteFailed = errors.New("Failed to update data") //nolint:stylecheck // client-facing message
	ErrInternal    = errors.New("internal server error")

	ErrFieldNotFound = errors.New("Field not found") //nolint:stylecheck // client-facing message
	ErrRouteNotFound = errors.New("Route not found") //nolint:stylecheck // client-facing message
)
