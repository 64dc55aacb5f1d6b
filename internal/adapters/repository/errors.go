package repository

import "errors"

// Sentinel kinds for local cache errors.
var (
	ErrNotConfigured    = errors.New("local cache is not configured")
	ErrMalformedPayload = errors.New("malformed cache payload")
	ErrInvalidArgument  = errors.New("invalid argument")
)
