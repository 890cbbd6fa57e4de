package github

import "errors"

var (
	// ErrRepoNotFound indicates the requested repository does not exist
	// or is not visible with the configured credentials.
	ErrRepoNotFound = errors.New("repository not found")
)
