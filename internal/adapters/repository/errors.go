package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrIO    = errors.New("profile storage i/o failed")
	ErrParse = errors.New("profile document parse failed")
)
