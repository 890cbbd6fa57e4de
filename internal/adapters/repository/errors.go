package repository

import "errors"

// Sentinel kinds for cache store errors.
var (
	ErrCacheWrite = errors.New("cache write failed")
)
