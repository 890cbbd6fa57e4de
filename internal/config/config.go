// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override them.
// - External errors are wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GitHubToken authenticates REST and GraphQL calls to GitHub.
	GitHubToken string `koanf:"github_token"`

	// GeminiAPIKey and OpenAIAPIKey select the LLM provider; Gemini
	// wins when both are set. LLMModel optionally overrides the
	// provider default.
	GeminiAPIKey string `koanf:"gemini_api_key"`
	OpenAIAPIKey string `koanf:"openai_api_key"`
	LLMModel     string `koanf:"llm_model"`

	// CachePath locates the persisted score cache file.
	CachePath string `koanf:"cache_path"`

	// BatchWorkers bounds concurrent repository scoring in a batch.
	BatchWorkers int `koanf:"batch_workers"`

	// DeepScoreLimit caps how many batch candidates get the expensive
	// documentation and code quality scores.
	DeepScoreLimit int `koanf:"deep_score_limit"`

	// SearchMaxRepos caps search results fed into batch scoring.
	SearchMaxRepos int `koanf:"search_max_repos"`

	// MaxSnippets and MaxSnippetBytes bound code fetched for quality
	// review.
	MaxSnippets     int `koanf:"max_snippets"`
	MaxSnippetBytes int `koanf:"max_snippet_bytes"`

	// Sample bounds for community inputs.
	ContributorSample int `koanf:"contributor_sample"`
	PRSample          int `koanf:"pr_sample"`
	IssueSample       int `koanf:"issue_sample"`

	// Per-call timeouts for external boundaries, in seconds.
	GitHubTimeoutSec int `koanf:"github_timeout_sec"`
	LLMTimeoutSec    int `koanf:"llm_timeout_sec"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		CachePath:         "score_cache.json",
		BatchWorkers:      10,
		DeepScoreLimit:    15,
		SearchMaxRepos:    100,
		MaxSnippets:       5,
		MaxSnippetBytes:   4096,
		ContributorSample: 15,
		PRSample:          20,
		IssueSample:       30,
		GitHubTimeoutSec:  15,
		LLMTimeoutSec:     30,
	}
}
