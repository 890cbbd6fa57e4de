// Package github is the gateway to the GitHub API, abstracting away the
// underlying REST and GraphQL clients behind domain-shaped fetch methods.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	gh "github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/pkg/logger"
)

const (
	defaultHTTPTimeout       = 15 * time.Second
	defaultContributorSample = 15
	defaultPRSample          = 20
	defaultIssueSample       = 30
	defaultMaxSnippets       = 5
	defaultMaxSnippetBytes   = 4096
	defaultSearchMax         = 100

	// contributorPageCap bounds contributor pagination; the diversity
	// scorer saturates well below this.
	contributorPageCap = 3

	recentCommitWindow = 90 * 24 * time.Hour
)

// Fetcher defines the behavior of a gateway for fetching repository
// information from GitHub.
type Fetcher interface {
	FetchRepoMetrics(ctx context.Context, owner, name string) (*model.RepoMetrics, error)
	FetchContributors(ctx context.Context, owner, name string) (model.ContributorSet, error)
	FetchReviewActivity(ctx context.Context, owner, name string) ([]model.ReviewSample, error)
	FetchIssueActivity(ctx context.Context, owner, name string) ([]model.IssueSample, error)
	FetchReadme(ctx context.Context, owner, name string) (string, error)
	FetchCodeSnippets(ctx context.Context, owner, name string) ([]model.Snippet, error)
	Search(ctx context.Context, filter model.SearchFilter) ([]model.RepoCandidate, error)
}

// Gateway is the concrete implementation of the Fetcher interface.
type Gateway struct {
	restClient    *gh.Client
	graphqlClient *githubv4.Client
	logger        logger.Logger

	token       string
	httpTimeout time.Duration

	contributorSample int
	prSample          int
	issueSample       int
	maxSnippets       int
	maxSnippetBytes   int
	searchMax         int
}

// New creates a gateway sharing one rate-limit-aware HTTP client between
// the REST and GraphQL endpoints. An empty token yields an
// unauthenticated client with GitHub's lower rate limits.
func New(opts ...Option) (*Gateway, error) {
	g := &Gateway{
		logger:            logger.Get().Named("github"),
		httpTimeout:       defaultHTTPTimeout,
		contributorSample: defaultContributorSample,
		prSample:          defaultPRSample,
		issueSample:       defaultIssueSample,
		maxSnippets:       defaultMaxSnippets,
		maxSnippetBytes:   defaultMaxSnippetBytes,
		searchMax:         defaultSearchMax,
	}
	for _, opt := range opts {
		opt(g)
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil,
		github_ratelimit.WithSingleSleepLimit(time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = rateLimitWaiter
	if g.token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: g.token}),
		}
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   g.httpTimeout,
	}

	g.restClient = gh.NewClient(httpClient)
	g.graphqlClient = githubv4.NewClient(httpClient)
	return g, nil
}
