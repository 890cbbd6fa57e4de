package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v62/github"
	"github.com/montanaflynn/stats"
	"github.com/shurcooL/githubv4"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

// assumedCoverageWithCI is the coverage percentage credited to a
// repository that runs CI but publishes no coverage figure.
const assumedCoverageWithCI = 80

// repoMetricsQuery snapshots activity counters for one repository in a
// single GraphQL round trip.
type repoMetricsQuery struct {
	Repository struct {
		PushedAt         *githubv4.DateTime
		DefaultBranchRef *struct {
			Target struct {
				Commit struct {
					History struct {
						TotalCount int
					}
					Recent struct {
						TotalCount int
					} `graphql:"recent: history(since: $since)"`
				} `graphql:"... on Commit"`
			}
		}
		PullRequests struct {
			TotalCount int
		}
		Merged struct {
			TotalCount int
		} `graphql:"merged: pullRequests(states: MERGED)"`
		Issues struct {
			TotalCount int
		}
		Closed struct {
			TotalCount int
		} `graphql:"closed: issues(states: CLOSED)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// FetchRepoMetrics builds the activity snapshot the maintenance scorer
// consumes. The GraphQL snapshot is required; the REST latency samples
// and the CI probe degrade to zero values on failure.
func (g *Gateway) FetchRepoMetrics(ctx context.Context, owner, name string) (*model.RepoMetrics, error) {
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
		"since": githubv4.GitTimestamp{Time: time.Now().Add(-recentCommitWindow)},
	}

	var q repoMetricsQuery
	start := time.Now()
	err := g.graphqlClient.Query(ctx, &q, variables)
	metrics.RecordGitHubRequest("repo_metrics", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("repo_metrics")
		if strings.Contains(err.Error(), "Could not resolve to a Repository") {
			return nil, fmt.Errorf("%w: %s/%s", ErrRepoNotFound, owner, name)
		}
		return nil, fmt.Errorf("query repository metrics: %w", err)
	}

	m := &model.RepoMetrics{
		PullRequests: model.PullRequestStats{
			Total:  q.Repository.PullRequests.TotalCount,
			Merged: q.Repository.Merged.TotalCount,
		},
		Issues: model.IssueStats{
			Total:  q.Repository.Issues.TotalCount,
			Closed: q.Repository.Closed.TotalCount,
		},
	}
	if q.Repository.PushedAt != nil {
		t := q.Repository.PushedAt.Time
		m.PushedAt = &t
	}
	if ref := q.Repository.DefaultBranchRef; ref != nil {
		m.CommitCountTotal = ref.Target.Commit.History.TotalCount
		m.CommitCountRecent = ref.Target.Commit.Recent.TotalCount
	}

	m.PullRequests.AvgMergeTimeDays = g.sampleMergeLatency(ctx, owner, name)
	m.Issues.AvgCloseTimeDays = g.sampleCloseLatency(ctx, owner, name)
	m.CIPresent = g.probeCI(ctx, owner, name)
	if m.CIPresent {
		m.TestCoveragePercent = assumedCoverageWithCI
	}
	return m, nil
}

// sampleMergeLatency averages the open-to-merge time over a bounded
// sample of recently closed pull requests.
func (g *Gateway) sampleMergeLatency(ctx context.Context, owner, name string) float64 {
	opts := &gh.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: g.prSample},
	}
	start := time.Now()
	prs, _, err := g.restClient.PullRequests.List(ctx, owner, name, opts)
	metrics.RecordGitHubRequest("pr_sample", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("pr_sample")
		g.logger.Warn(ctx, "pull request sampling failed",
			logger.String("repo", owner+"/"+name), logger.Error(err))
		return 0
	}

	var durations []float64
	for _, pr := range prs {
		if pr.MergedAt == nil || pr.CreatedAt == nil {
			continue
		}
		durations = append(durations, pr.MergedAt.Sub(pr.CreatedAt.Time).Hours()/24)
	}
	return meanOrZero(durations)
}

// sampleCloseLatency averages the open-to-close time over a bounded
// sample of recently closed issues. Pull requests surfaced by the
// issues endpoint are skipped.
func (g *Gateway) sampleCloseLatency(ctx context.Context, owner, name string) float64 {
	opts := &gh.IssueListByRepoOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: g.issueSample},
	}
	start := time.Now()
	issues, _, err := g.restClient.Issues.ListByRepo(ctx, owner, name, opts)
	metrics.RecordGitHubRequest("issue_sample", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("issue_sample")
		g.logger.Warn(ctx, "issue sampling failed",
			logger.String("repo", owner+"/"+name), logger.Error(err))
		return 0
	}

	var durations []float64
	for _, issue := range issues {
		if issue.IsPullRequest() || issue.ClosedAt == nil || issue.CreatedAt == nil {
			continue
		}
		durations = append(durations, issue.ClosedAt.Sub(issue.CreatedAt.Time).Hours()/24)
	}
	return meanOrZero(durations)
}

// probeCI reports whether the repository carries workflow definitions.
func (g *Gateway) probeCI(ctx context.Context, owner, name string) bool {
	start := time.Now()
	_, dir, resp, err := g.restClient.Repositories.GetContents(ctx, owner, name, ".github/workflows", nil)
	metrics.RecordGitHubRequest("ci_probe", time.Since(start))
	if err != nil {
		if resp == nil || resp.StatusCode != 404 {
			metrics.RecordGitHubError("ci_probe")
			g.logger.Warn(ctx, "CI probe failed",
				logger.String("repo", owner+"/"+name), logger.Error(err))
		}
		return false
	}
	return len(dir) > 0
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}
