package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v62/github"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

// Search runs a repository search for the filter, sorted by stars, and
// annotates each candidate with its open good-first-issue count.
// Candidates outside the filter's good-first-issue band are dropped.
func (g *Gateway) Search(ctx context.Context, filter model.SearchFilter) ([]model.RepoCandidate, error) {
	query := buildSearchQuery(filter)
	g.logger.Debug(ctx, "searching repositories", logger.String("query", query))

	opts := &gh.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: min(g.searchMax, 100)},
	}

	var candidates []model.RepoCandidate
	for len(candidates) < g.searchMax {
		start := time.Now()
		result, resp, err := g.restClient.Search.Repositories(ctx, query, opts)
		metrics.RecordGitHubRequest("repo_search", time.Since(start))
		if err != nil {
			metrics.RecordGitHubError("repo_search")
			return nil, fmt.Errorf("search repositories: %w", err)
		}

		for _, repo := range result.Repositories {
			if len(candidates) >= g.searchMax {
				break
			}
			c := model.RepoCandidate{
				Owner:      repo.GetOwner().GetLogin(),
				Name:       repo.GetName(),
				FullName:   repo.GetFullName(),
				Stars:      repo.GetStargazersCount(),
				OpenIssues: repo.GetOpenIssuesCount(),
				Topics:     repo.Topics,
			}
			if repo.PushedAt != nil {
				c.PushedAt = repo.PushedAt.Format(time.RFC3339)
			}
			c.GoodFirstIssues = g.goodFirstIssueCount(ctx, c.FullName)
			if !withinIssueBand(c.GoodFirstIssues, filter) {
				continue
			}
			candidates = append(candidates, c)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return candidates, nil
}

// buildSearchQuery assembles a GitHub search expression from the
// filter's keyword, language, topic and recency constraints.
func buildSearchQuery(filter model.SearchFilter) string {
	var parts []string
	if kw := strings.TrimSpace(filter.Keywords); kw != "" {
		parts = append(parts, kw+" in:name,description")
	}
	if filter.Language != "" {
		parts = append(parts, "language:"+filter.Language)
	}
	for _, topic := range filter.Topics {
		if topic = strings.TrimSpace(topic); topic != "" {
			parts = append(parts, "topic:"+topic)
		}
	}
	if filter.RecentCommitDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -filter.RecentCommitDays)
		parts = append(parts, "pushed:>="+cutoff.Format("2006-01-02"))
	}
	return strings.Join(parts, " ")
}

// goodFirstIssueCount counts open good-first-issue labeled issues. A
// lookup failure degrades to zero so one candidate cannot abort the
// search.
func (g *Gateway) goodFirstIssueCount(ctx context.Context, fullName string) int {
	query := fmt.Sprintf(`repo:%s is:issue is:open label:"good first issue"`, fullName)
	opts := &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: 1}}

	start := time.Now()
	result, _, err := g.restClient.Search.Issues(ctx, query, opts)
	metrics.RecordGitHubRequest("issue_search", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("issue_search")
		g.logger.Warn(ctx, "good first issue count failed",
			logger.String("repo", fullName), logger.Error(err))
		return 0
	}
	return result.GetTotal()
}

func withinIssueBand(count int, filter model.SearchFilter) bool {
	if count < filter.MinGoodFirstIssues {
		return false
	}
	if filter.MaxGoodFirstIssues > 0 && count > filter.MaxGoodFirstIssues {
		return false
	}
	return true
}
