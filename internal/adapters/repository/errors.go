package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("player history not found")
	ErrInvalidMatch = errors.New("invalid match")
)
