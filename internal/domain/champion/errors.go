package champion

import "errors"

// ErrInvalidRegistry marks a registry document that failed to decode or validate.
var ErrInvalidRegistry = errors.New("invalid champion registry")
