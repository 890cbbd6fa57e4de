package github

import (
	"context"
	"time"

	gh "github.com/google/go-github/v62/github"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

// FetchContributors lists contributors and resolves profile details
// (location, account age) for a bounded sample of them. Profile lookups
// that fail are skipped rather than failing the set.
func (g *Gateway) FetchContributors(ctx context.Context, owner, name string) (model.ContributorSet, error) {
	var all []*gh.Contributor
	opts := &gh.ListContributorsOptions{ListOptions: gh.ListOptions{PerPage: 100}}
	for page := 0; page < contributorPageCap; page++ {
		start := time.Now()
		contributors, resp, err := g.restClient.Repositories.ListContributors(ctx, owner, name, opts)
		metrics.RecordGitHubRequest("contributors", time.Since(start))
		if err != nil {
			metrics.RecordGitHubError("contributors")
			return model.ContributorSet{}, err
		}
		all = append(all, contributors...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	set := model.ContributorSet{TotalCount: len(all)}
	for _, c := range all {
		if len(set.Sampled) >= g.contributorSample {
			break
		}
		login := c.GetLogin()
		if login == "" {
			continue
		}

		start := time.Now()
		user, _, err := g.restClient.Users.Get(ctx, login)
		metrics.RecordGitHubRequest("user_profile", time.Since(start))
		if err != nil {
			metrics.RecordGitHubError("user_profile")
			g.logger.Warn(ctx, "contributor profile lookup failed",
				logger.String("login", login), logger.Error(err))
			continue
		}
		set.Sampled = append(set.Sampled, model.Contributor{
			Login:         login,
			Contributions: c.GetContributions(),
			Location:      user.GetLocation(),
			CreatedAt:     user.GetCreatedAt().Time,
		})
	}
	return set, nil
}

// FetchReviewActivity samples recently closed pull requests and their
// review threads. A sample with no reviews is marked unreviewed so the
// scorer can exclude it from averages.
func (g *Gateway) FetchReviewActivity(ctx context.Context, owner, name string) ([]model.ReviewSample, error) {
	opts := &gh.PullRequestListOptions{
		State:       "closed",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: g.prSample},
	}
	start := time.Now()
	prs, _, err := g.restClient.PullRequests.List(ctx, owner, name, opts)
	metrics.RecordGitHubRequest("review_activity", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("review_activity")
		return nil, err
	}

	samples := make([]model.ReviewSample, 0, len(prs))
	for _, pr := range prs {
		start := time.Now()
		reviews, _, err := g.restClient.PullRequests.ListReviews(ctx, owner, name, pr.GetNumber(), &gh.ListOptions{PerPage: 50})
		metrics.RecordGitHubRequest("pr_reviews", time.Since(start))
		if err != nil {
			metrics.RecordGitHubError("pr_reviews")
			g.logger.Warn(ctx, "review listing failed",
				logger.String("repo", owner+"/"+name),
				logger.Int("pr", pr.GetNumber()), logger.Error(err))
			continue
		}

		sample := model.ReviewSample{CommentCount: len(reviews)}
		if len(reviews) > 0 && pr.CreatedAt != nil {
			first := firstReviewTime(reviews)
			if !first.IsZero() {
				sample.Reviewed = true
				sample.FirstReviewLatencyDays = first.Sub(pr.CreatedAt.Time).Hours() / 24
			}
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func firstReviewTime(reviews []*gh.PullRequestReview) time.Time {
	var first time.Time
	for _, r := range reviews {
		if r.SubmittedAt == nil {
			continue
		}
		if first.IsZero() || r.SubmittedAt.Before(first) {
			first = r.SubmittedAt.Time
		}
	}
	return first
}

// FetchIssueActivity samples recent issues with their comment counts
// and time to first response.
func (g *Gateway) FetchIssueActivity(ctx context.Context, owner, name string) ([]model.IssueSample, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: g.issueSample},
	}
	start := time.Now()
	issues, _, err := g.restClient.Issues.ListByRepo(ctx, owner, name, opts)
	metrics.RecordGitHubRequest("issue_activity", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("issue_activity")
		return nil, err
	}

	samples := make([]model.IssueSample, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		sample := model.IssueSample{CommentCount: issue.GetComments()}
		if issue.GetComments() > 0 && issue.CreatedAt != nil {
			if first, ok := g.firstCommentTime(ctx, owner, name, issue.GetNumber()); ok {
				sample.Responded = true
				sample.FirstResponseLatencyDays = first.Sub(issue.CreatedAt.Time).Hours() / 24
			}
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func (g *Gateway) firstCommentTime(ctx context.Context, owner, name string, number int) (time.Time, bool) {
	opts := &gh.IssueListCommentsOptions{
		Sort:        gh.String("created"),
		Direction:   gh.String("asc"),
		ListOptions: gh.ListOptions{PerPage: 1},
	}
	start := time.Now()
	comments, _, err := g.restClient.Issues.ListComments(ctx, owner, name, number, opts)
	metrics.RecordGitHubRequest("issue_comments", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("issue_comments")
		g.logger.Warn(ctx, "issue comment lookup failed",
			logger.String("repo", owner+"/"+name),
			logger.Int("issue", number), logger.Error(err))
		return time.Time{}, false
	}
	if len(comments) == 0 || comments[0].CreatedAt == nil {
		return time.Time{}, false
	}
	return comments[0].CreatedAt.Time, true
}
