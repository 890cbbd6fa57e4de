package github

import (
	"time"

	"github.com/user7217/OSS-Engine/pkg/logger"
)

// Option configures the gateway.
type Option func(*Gateway)

// WithToken sets the GitHub access token used for authentication.
func WithToken(token string) Option {
	return func(g *Gateway) {
		g.token = token
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(g *Gateway) {
		g.logger = log
	}
}

// WithHTTPTimeout sets the per-request timeout on the shared HTTP client.
func WithHTTPTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.httpTimeout = d
		}
	}
}

// WithContributorSample bounds how many contributor profiles are
// resolved in full.
func WithContributorSample(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.contributorSample = n
		}
	}
}

// WithPRSample bounds how many recent pull requests are inspected for
// review activity and merge latency.
func WithPRSample(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.prSample = n
		}
	}
}

// WithIssueSample bounds how many recent issues are inspected for
// responsiveness and close latency.
func WithIssueSample(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.issueSample = n
		}
	}
}

// WithMaxSnippets bounds how many source files are excerpted for
// quality review.
func WithMaxSnippets(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxSnippets = n
		}
	}
}

// WithMaxSnippetBytes bounds the size of each excerpted source file.
func WithMaxSnippetBytes(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.maxSnippetBytes = n
		}
	}
}

// WithSearchMax bounds how many candidates a repository search returns.
func WithSearchMax(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.searchMax = n
		}
	}
}
