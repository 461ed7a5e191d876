package resultcache

import "errors"

// ErrInvalidSize is returned for a non-positive cache size.
var ErrInvalidSize = errors.New("invalid cache size")
