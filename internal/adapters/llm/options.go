package llm

import (
	"time"

	"github.com/user7217/OSS-Engine/pkg/logger"
)

// ScorerOption applies a configuration option to the Scorer.
type ScorerOption func(*Scorer)

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) ScorerOption {
	return func(s *Scorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets a custom logger for the scorer.
func WithLogger(l logger.Logger) ScorerOption {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}
