package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/internal/domain/score"
	"github.com/user7217/OSS-Engine/internal/domain/scoring"
	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

// SearchAndScore finds repositories matching the filter and scores them
// with a bounded worker pool. The first deepScoreLimit candidates get
// the full four-category treatment; the rest skip the LLM passes and
// use the shallow blend. Results are sorted by combined score and are
// not persisted.
func (s *Service) SearchAndScore(ctx context.Context, filter model.SearchFilter) ([]model.RepoSummary, error) {
	candidates, err := s.fetcher.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search repositories: %w", err)
	}
	if len(candidates) == 0 {
		return []model.RepoSummary{}, nil
	}

	s.logger.Info(ctx, "scoring search candidates",
		logger.Int("candidates", len(candidates)),
		logger.Int("workers", s.batchWorkers),
	)

	now := time.Now()
	summaries := make([]model.RepoSummary, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			summaries[i] = s.scoreCandidate(gctx, c, i < s.deepScoreLimit, now)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CombinedScore > summaries[j].CombinedScore
	})

	metrics.RecordBatchScored(len(summaries))
	return summaries, nil
}

// scoreCandidate scores one search hit. Failures zero the candidate's
// scores instead of aborting the batch.
func (s *Service) scoreCandidate(ctx context.Context, c model.RepoCandidate, deep bool, now time.Time) model.RepoSummary {
	summary := model.RepoSummary{
		Repo:            c.FullName,
		Owner:           c.Owner,
		Name:            c.Name,
		GoodFirstIssues: c.GoodFirstIssues,
		PushedAt:        c.PushedAt,
		Topics:          c.Topics,
	}

	snapshot, err := s.fetcher.FetchRepoMetrics(ctx, c.Owner, c.Name)
	if err != nil {
		s.logger.Warn(ctx, "candidate metrics fetch failed, scoring zero",
			logger.String("repo", c.FullName), logger.Error(err))
		return summary
	}

	summary.MaintenanceScore = s.scoreMaintenance(ctx, *snapshot, now)
	summary.CommunityScore = s.scoreCommunity(ctx, c.Owner, c.Name, now)

	if deep {
		doc := s.scoreDocumentation(ctx, c.Owner, c.Name)
		cq, _ := s.scoreCodeQuality(ctx, c.Owner, c.Name)
		summary.DocumentationScore = score.Float(doc)
		summary.CodeQualityScore = score.Float(cq)
		summary.CombinedScore = scoring.Combined(summary.MaintenanceScore, cq, summary.CommunityScore, doc)
	} else {
		summary.CombinedScore = scoring.ShallowCombined(summary.MaintenanceScore, summary.CommunityScore)
	}
	return summary
}
