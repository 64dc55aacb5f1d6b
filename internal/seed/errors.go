package seed

import "errors"

// ErrInvalidConfig reports an unusable seeding configuration.
var ErrInvalidConfig = errors.New("invalid seed config")
