package service

import "errors"

var (
	// ErrNoFetcher indicates the service was started without a GitHub
	// gateway.
	ErrNoFetcher = errors.New("no fetcher configured")
)
