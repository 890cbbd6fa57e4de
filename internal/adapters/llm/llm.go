// Package llm holds the LLM provider implementations and the text
// scoring contract built on top of them. Providers speak raw HTTP; the
// rest of the system only sees "prompt in, numeric score out".
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

const defaultCallTimeout = 30 * time.Second

// Provider generates free text from a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// scorePattern matches the first decimal number in a model response.
var scorePattern = regexp.MustCompile(`(\d+(\.\d+)?)`)

// ParseScore extracts the first decimal number found in free text.
// Returns ErrUnparsableScore when the text carries no number.
func ParseScore(text string) (float64, error) {
	match := scorePattern.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableScore, truncate(text, 80))
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparsableScore, match)
	}
	return v, nil
}

// Scorer adapts a Provider to the scoring.TextScorer contract: one
// bounded call per prompt, response parsed for its leading number.
// Failures are logged here and propagated; callers fail open to zero.
type Scorer struct {
	provider Provider
	timeout  time.Duration
	logger   logger.Logger
}

// NewScorer creates a text scorer over the given provider.
func NewScorer(provider Provider, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		provider: provider,
		timeout:  defaultCallTimeout,
		logger:   logger.Get().Named("llm"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreText sends the prompt and parses the numeric score from the
// response.
func (s *Scorer) ScoreText(ctx context.Context, prompt string) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.provider.Generate(callCtx, prompt)
	metrics.RecordLLMCall(s.provider.Name(), time.Since(start))
	if err != nil {
		metrics.RecordLLMError(s.provider.Name())
		s.logger.Warn(ctx, "llm call failed",
			logger.String("provider", s.provider.Name()), logger.Error(err))
		return 0, fmt.Errorf("llm generate: %w", err)
	}

	v, err := ParseScore(text)
	if err != nil {
		metrics.RecordLLMError(s.provider.Name())
		s.logger.Warn(ctx, "llm response had no parseable score",
			logger.String("provider", s.provider.Name()), logger.Error(err))
		return 0, err
	}
	return v, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
