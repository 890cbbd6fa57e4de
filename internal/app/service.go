// Package service provides the core scoring service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	gateway "github.com/user7217/OSS-Engine/internal/adapters/github"
	"github.com/user7217/OSS-Engine/internal/adapters/repository"
	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/internal/domain/score"
	"github.com/user7217/OSS-Engine/internal/domain/scoring"
	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

const (
	defaultBatchWorkers   = 10
	defaultDeepScoreLimit = 15
)

// Service computes and caches discoverability scores for repositories.
type Service struct {
	mu sync.RWMutex

	fetcher gateway.Fetcher
	scorer  scoring.TextScorer
	store   repository.Store

	batchWorkers   int
	deepScoreLimit int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the GitHub gateway.
func WithFetcher(f gateway.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = f
	}
}

// WithTextScorer sets the LLM scorer used for documentation and code
// quality. A nil scorer degrades both categories to zero.
func WithTextScorer(sc scoring.TextScorer) Option {
	return func(s *Service) {
		s.scorer = sc
	}
}

// WithStore sets the score cache store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		s.store = st
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithBatchWorkers bounds the concurrency of batch scoring.
func WithBatchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchWorkers = n
		}
	}
}

// WithDeepScoreLimit sets how many batch candidates receive the full
// four-category treatment.
func WithDeepScoreLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.deepScoreLimit = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		batchWorkers:   defaultBatchWorkers,
		deepScoreLimit: defaultDeepScoreLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the wiring and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if s.store == nil {
		s.store = repository.NewFileStore()
	}
	if s.scorer == nil {
		s.logger.Warn(ctx, "no LLM provider configured, documentation and code quality will score zero")
	}

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("batchWorkers", s.batchWorkers),
		logger.Int("deepScoreLimit", s.deepScoreLimit),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// ScoreRepository returns the composite score record for one
// repository. A fully populated cached record is returned untouched
// with no external calls; otherwise only the absent sub-scores are
// computed, merged with the cached ones and persisted.
func (s *Service) ScoreRepository(ctx context.Context, owner, name string) (score.Record, error) {
	key := score.Key(owner, name)

	cached, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "cache lookup failed", logger.String("repo", key), logger.Error(err))
	}
	if ok && cached.Complete() {
		s.logger.Debug(ctx, "cache hit, returning stored record", logger.String("repo", key))
		return cached, nil
	}

	snapshot, err := s.fetcher.FetchRepoMetrics(ctx, owner, name)
	if err != nil {
		return score.Record{}, fmt.Errorf("fetch metrics for %s: %w", key, err)
	}

	now := time.Now()
	var (
		maintenance   float64
		codeQuality   float64
		community     float64
		documentation float64
		numSnippets   int
	)

	// Sub-scorers are independent; compute the absent ones concurrently
	// and reuse cached values for the rest. Every scorer fails open to
	// zero so one bad category never blocks the record.
	g, gctx := errgroup.WithContext(ctx)
	if cached.Maintenance != nil {
		maintenance = *cached.Maintenance
	} else {
		g.Go(func() error {
			maintenance = s.scoreMaintenance(gctx, *snapshot, now)
			return nil
		})
	}
	if cached.Community != nil {
		community = *cached.Community
	} else {
		g.Go(func() error {
			community = s.scoreCommunity(gctx, owner, name, now)
			return nil
		})
	}
	if cached.Documentation != nil {
		documentation = *cached.Documentation
	} else {
		g.Go(func() error {
			documentation = s.scoreDocumentation(gctx, owner, name)
			return nil
		})
	}
	codeQualityComputed := cached.CodeQuality == nil
	if cached.CodeQuality != nil {
		codeQuality = *cached.CodeQuality
	} else {
		g.Go(func() error {
			codeQuality, numSnippets = s.scoreCodeQuality(gctx, owner, name)
			return nil
		})
	}
	_ = g.Wait()

	combined := scoring.Combined(maintenance, codeQuality, community, documentation)
	highlights, mentions := score.Classify(maintenance, codeQuality, community, documentation)

	patch := score.Record{
		Repo:            key,
		Maintenance:     score.Float(maintenance),
		CodeQuality:     score.Float(codeQuality),
		Community:       score.Float(community),
		Documentation:   score.Float(documentation),
		Combined:        score.Float(combined),
		TopHighlights:   highlights,
		SpecialMentions: mentions,
	}
	if codeQualityComputed {
		patch.NumSnippets = score.Int(numSnippets)
	}

	merged, err := s.store.MergeAndSave(ctx, key, patch)
	if err != nil {
		s.logger.Error(ctx, "persisting score record failed", logger.String("repo", key), logger.Error(err))
		// The computed record is still valid; serve it unpersisted.
		merged = cached.Merge(patch)
	}

	metrics.RecordRepoScored()
	s.logger.Info(ctx, "repository scored",
		logger.String("repo", key),
		logger.Float64("combined", combined),
	)
	return merged, nil
}

func (s *Service) scoreMaintenance(_ context.Context, snapshot model.RepoMetrics, now time.Time) float64 {
	start := time.Now()
	defer func() {
		metrics.RecordSubScoreDuration(score.CategoryMaintenance, time.Since(start))
	}()
	return scoring.Maintenance(snapshot, now).Total
}

func (s *Service) scoreCommunity(ctx context.Context, owner, name string, now time.Time) float64 {
	start := time.Now()
	defer func() {
		metrics.RecordSubScoreDuration(score.CategoryCommunity, time.Since(start))
	}()

	var in scoring.CommunityInput
	var err error

	in.Contributors, err = s.fetcher.FetchContributors(ctx, owner, name)
	if err != nil {
		metrics.RecordScoringError(score.CategoryCommunity)
		s.logger.Warn(ctx, "contributor fetch failed",
			logger.String("repo", score.Key(owner, name)), logger.Error(err))
	}
	in.Reviews, err = s.fetcher.FetchReviewActivity(ctx, owner, name)
	if err != nil {
		metrics.RecordScoringError(score.CategoryCommunity)
		s.logger.Warn(ctx, "review activity fetch failed",
			logger.String("repo", score.Key(owner, name)), logger.Error(err))
	}
	in.Issues, err = s.fetcher.FetchIssueActivity(ctx, owner, name)
	if err != nil {
		metrics.RecordScoringError(score.CategoryCommunity)
		s.logger.Warn(ctx, "issue activity fetch failed",
			logger.String("repo", score.Key(owner, name)), logger.Error(err))
	}
	return scoring.Community(in, now).Total
}

func (s *Service) scoreDocumentation(ctx context.Context, owner, name string) float64 {
	start := time.Now()
	defer func() {
		metrics.RecordSubScoreDuration(score.CategoryDocumentation, time.Since(start))
	}()

	if s.scorer == nil {
		metrics.RecordScoringError(score.CategoryDocumentation)
		return 0
	}
	readme, err := s.fetcher.FetchReadme(ctx, owner, name)
	if err != nil {
		metrics.RecordScoringError(score.CategoryDocumentation)
		s.logger.Warn(ctx, "readme fetch failed",
			logger.String("repo", score.Key(owner, name)), logger.Error(err))
		return 0
	}
	return scoring.Documentation(ctx, s.scorer, readme).Total
}

func (s *Service) scoreCodeQuality(ctx context.Context, owner, name string) (float64, int) {
	start := time.Now()
	defer func() {
		metrics.RecordSubScoreDuration(score.CategoryCodeQuality, time.Since(start))
	}()

	if s.scorer == nil {
		metrics.RecordScoringError(score.CategoryCodeQuality)
		return 0, 0
	}
	snippets, err := s.fetcher.FetchCodeSnippets(ctx, owner, name)
	if err != nil {
		metrics.RecordScoringError(score.CategoryCodeQuality)
		s.logger.Warn(ctx, "snippet fetch failed",
			logger.String("repo", score.Key(owner, name)), logger.Error(err))
		return 0, 0
	}
	return scoring.CodeQuality(ctx, s.scorer, snippets), len(snippets)
}

// GetStats reports operational details for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"batch_workers":    s.batchWorkers,
		"deep_score_limit": s.deepScoreLimit,
		"llm_enabled":      s.scorer != nil,
	}
	if p, ok := s.store.(interface{ Path() string }); ok {
		stats["cache_path"] = p.Path()
	}
	return stats
}
