package remote

import "errors"

// Sentinel kinds for remote source errors.
var (
	ErrUnavailable      = errors.New("remote source unavailable")
	ErrMalformedPayload = errors.New("malformed remote payload")
)
