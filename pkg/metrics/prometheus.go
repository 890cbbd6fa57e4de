// Package metrics provides Prometheus metrics for the OSS-Engine
// scoring service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector for the service.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	// Scoring metrics
	reposScored      prometheus.Counter
	subScoreDuration *prometheus.HistogramVec
	scoringErrors    *prometheus.CounterVec
	batchesScored    prometheus.Counter
	batchSize        prometheus.Histogram

	// Cache metrics
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	cacheWriteErrors prometheus.Counter

	// Upstream metrics
	githubRequests  *prometheus.CounterVec
	githubErrors    *prometheus.CounterVec
	githubLatency   prometheus.Histogram
	llmCalls        *prometheus.CounterVec
	llmErrors       *prometheus.CounterVec
	llmLatency      prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var manager *Manager

func init() { //nolint:gochecknoinits // global metrics setup mirrors process lifetime
	manager = NewManager()
}

// NewManager creates a Manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "oss_engine",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.reposScored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "repos_scored_total",
		Help:      "Repositories fully scored and persisted.",
	})
	m.subScoreDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "sub_score_duration_seconds",
		Help:      "Wall time spent computing a sub-score, by category.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"category"})
	m.scoringErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "scoring_errors_total",
		Help:      "Sub-scorer failures substituted with a zero score.",
	}, []string{"category"})
	m.batchesScored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "batches_scored_total",
		Help:      "Completed search-and-score batches.",
	})
	m.batchSize = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "batch_size_repos",
		Help:      "Repositories per search-and-score batch.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 150},
	})

	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_hits_total",
		Help:      "Score cache lookups that found a record.",
	})
	m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_misses_total",
		Help:      "Score cache lookups that found nothing.",
	})
	m.cacheWriteErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "cache_write_errors_total",
		Help:      "Failed cache persistence attempts.",
	})

	m.githubRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "github_requests_total",
		Help:      "Outbound GitHub API requests, by operation.",
	}, []string{"operation"})
	m.githubErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "github_errors_total",
		Help:      "Failed GitHub API requests, by operation.",
	}, []string{"operation"})
	m.githubLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "github_request_duration_seconds",
		Help:      "GitHub API request latency.",
		Buckets:   prometheus.DefBuckets,
	})
	m.llmCalls = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "llm_calls_total",
		Help:      "Outbound LLM calls, by provider.",
	}, []string{"provider"})
	m.llmErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "llm_errors_total",
		Help:      "Failed or unparsable LLM calls, by provider.",
	}, []string{"provider"})
	m.llmLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "llm_call_duration_seconds",
		Help:      "LLM call latency.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests, by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by endpoint and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
}

// Package-level record functions on the global manager.

// RecordRepoScored counts one fully scored repository.
func RecordRepoScored() { manager.reposScored.Inc() }

// RecordSubScoreDuration tracks wall time for one sub-score category.
func RecordSubScoreDuration(category string, d time.Duration) {
	manager.subScoreDuration.WithLabelValues(category).Observe(d.Seconds())
}

// RecordScoringError counts one fail-open substitution for a category.
func RecordScoringError(category string) {
	manager.scoringErrors.WithLabelValues(category).Inc()
}

// RecordBatchScored tracks one completed batch and its size.
func RecordBatchScored(size int) {
	manager.batchesScored.Inc()
	manager.batchSize.Observe(float64(size))
}

// RecordCacheHit counts a cache lookup that found a record.
func RecordCacheHit() { manager.cacheHits.Inc() }

// RecordCacheMiss counts a cache lookup that found nothing.
func RecordCacheMiss() { manager.cacheMisses.Inc() }

// RecordCacheWriteError counts a failed cache persistence attempt.
func RecordCacheWriteError() { manager.cacheWriteErrors.Inc() }

// RecordGitHubRequest tracks one outbound GitHub request.
func RecordGitHubRequest(operation string, d time.Duration) {
	manager.githubRequests.WithLabelValues(operation).Inc()
	manager.githubLatency.Observe(d.Seconds())
}

// RecordGitHubError counts one failed GitHub request.
func RecordGitHubError(operation string) {
	manager.githubErrors.WithLabelValues(operation).Inc()
}

// RecordLLMCall tracks one outbound LLM call.
func RecordLLMCall(provider string, d time.Duration) {
	manager.llmCalls.WithLabelValues(provider).Inc()
	manager.llmLatency.Observe(d.Seconds())
}

// RecordLLMError counts one failed or unparsable LLM call.
func RecordLLMError(provider string) {
	manager.llmErrors.WithLabelValues(provider).Inc()
}

// RecordHTTPRequest counts one served HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	manager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration tracks one HTTP request's latency.
func RecordHTTPRequestDuration(endpoint, method string, d time.Duration) {
	manager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

// GetRegistry exposes the registry backing the global manager, for
// promhttp handlers.
func GetRegistry() *prometheus.Registry {
	return manager.registry
}
