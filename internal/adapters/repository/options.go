package repository

import "github.com/user7217/OSS-Engine/pkg/logger"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithPath sets the cache file location.
func WithPath(path string) Option {
	return func(s *FileStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}
