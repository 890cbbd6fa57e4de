package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	gh "github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// setupTestGateway creates a Gateway that communicates with a mock HTTP
// server for both the REST and GraphQL endpoints.
func setupTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	restClient := gh.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	graphqlClient := githubv4.NewEnterpriseClient(server.URL, server.Client())

	return &Gateway{
		restClient:        restClient,
		graphqlClient:     graphqlClient,
		logger:            logger.Named("github-test"),
		contributorSample: defaultContributorSample,
		prSample:          defaultPRSample,
		issueSample:       defaultIssueSample,
		maxSnippets:       defaultMaxSnippets,
		maxSnippetBytes:   defaultMaxSnippetBytes,
		searchMax:         defaultSearchMax,
	}, server
}

func TestGateway_FetchRepoMetrics(t *testing.T) {
	pushedAt := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)

	testCases := []struct {
		name           string
		graphqlBody    string
		expectError    bool
		expectNotFound bool
		check          func(t *testing.T, m *model.RepoMetrics)
	}{
		{
			name: "happy path - full snapshot",
			graphqlBody: fmt.Sprintf(`{"data":{"repository":{
				"pushedAt":"%s",
				"defaultBranchRef":{"target":{"history":{"totalCount":1500},"recent":{"totalCount":40}}},
				"pullRequests":{"totalCount":200},
				"merged":{"totalCount":180},
				"issues":{"totalCount":300},
				"closed":{"totalCount":250}}}}`, pushedAt),
			check: func(t *testing.T, m *model.RepoMetrics) {
				require.NotNil(t, m.PushedAt)
				assert.Equal(t, 1500, m.CommitCountTotal)
				assert.Equal(t, 40, m.CommitCountRecent)
				assert.Equal(t, 200, m.PullRequests.Total)
				assert.Equal(t, 180, m.PullRequests.Merged)
				assert.Equal(t, 300, m.Issues.Total)
				assert.Equal(t, 250, m.Issues.Closed)
			},
		},
		{
			name:           "repository not found",
			graphqlBody:    `{"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a Repository with the name 'acme/missing'."}]}`,
			expectError:    true,
			expectNotFound: true,
		},
		{
			name:        "other GraphQL failure",
			graphqlBody: `{"errors":[{"message":"Something went wrong"}]}`,
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodPost {
					fmt.Fprint(w, tc.graphqlBody)
					return
				}
				// REST sampling and the CI probe degrade on 404.
				w.WriteHeader(http.StatusNotFound)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			m, err := gateway.FetchRepoMetrics(context.Background(), "acme", "widget")
			if tc.expectError {
				require.Error(t, err)
				if tc.expectNotFound {
					assert.ErrorIs(t, err, ErrRepoNotFound)
				}
				return
			}
			require.NoError(t, err)
			tc.check(t, m)
		})
	}
}

func TestGateway_FetchRepoMetrics_SamplingDegradesToZero(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"data":{"repository":{"pushedAt":null,"defaultBranchRef":null,
				"pullRequests":{"totalCount":0},"merged":{"totalCount":0},
				"issues":{"totalCount":0},"closed":{"totalCount":0}}}}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	m, err := gateway.FetchRepoMetrics(context.Background(), "acme", "widget")
	require.NoError(t, err)
	assert.Nil(t, m.PushedAt)
	assert.Zero(t, m.PullRequests.AvgMergeTimeDays)
	assert.Zero(t, m.Issues.AvgCloseTimeDays)
	assert.False(t, m.CIPresent)
	assert.Zero(t, m.TestCoveragePercent)
}

func TestGateway_FetchContributors(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/contributors"):
			fmt.Fprint(w, `[{"login":"alice","contributions":120},{"login":"bob","contributions":30}]`)
		case strings.Contains(r.URL.Path, "/users/alice"):
			fmt.Fprint(w, `{"login":"alice","location":"Berlin, Germany","created_at":"2015-04-01T00:00:00Z"}`)
		case strings.Contains(r.URL.Path, "/users/bob"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	set, err := gateway.FetchContributors(context.Background(), "acme", "widget")
	require.NoError(t, err)
	assert.Equal(t, 2, set.TotalCount)
	// bob's failed profile lookup is skipped, not fatal.
	require.Len(t, set.Sampled, 1)
	assert.Equal(t, "alice", set.Sampled[0].Login)
	assert.Equal(t, 120, set.Sampled[0].Contributions)
	assert.Equal(t, "Berlin, Germany", set.Sampled[0].Location)
}

func TestGateway_FetchReviewActivity(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	reviewedAt := createdAt.Add(48 * time.Hour)

	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/pulls/1/reviews"):
			fmt.Fprintf(w, `[{"submitted_at":"%s"},{"submitted_at":"%s"}]`,
				reviewedAt.Format(time.RFC3339), reviewedAt.Add(time.Hour).Format(time.RFC3339))
		case strings.HasSuffix(r.URL.Path, "/pulls/2/reviews"):
			fmt.Fprint(w, `[]`)
		case strings.Contains(r.URL.Path, "/pulls"):
			fmt.Fprintf(w, `[{"number":1,"created_at":"%s"},{"number":2,"created_at":"%s"}]`,
				createdAt.Format(time.RFC3339), createdAt.Format(time.RFC3339))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	samples, err := gateway.FetchReviewActivity(context.Background(), "acme", "widget")
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.True(t, samples[0].Reviewed)
	assert.Equal(t, 2, samples[0].CommentCount)
	assert.InDelta(t, 2.0, samples[0].FirstReviewLatencyDays, 0.01)

	assert.False(t, samples[1].Reviewed)
	assert.Zero(t, samples[1].CommentCount)
}

func TestGateway_FetchIssueActivity(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	respondedAt := createdAt.Add(24 * time.Hour)

	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/issues/7/comments"):
			fmt.Fprintf(w, `[{"created_at":"%s"}]`, respondedAt.Format(time.RFC3339))
		case strings.Contains(r.URL.Path, "/issues"):
			fmt.Fprintf(w, `[
				{"number":7,"comments":3,"created_at":"%s"},
				{"number":8,"comments":0,"created_at":"%s"},
				{"number":9,"comments":5,"created_at":"%s","pull_request":{"url":"https://example.test/pulls/9"}}
			]`, createdAt.Format(time.RFC3339), createdAt.Format(time.RFC3339), createdAt.Format(time.RFC3339))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	samples, err := gateway.FetchIssueActivity(context.Background(), "acme", "widget")
	require.NoError(t, err)
	// The PR masquerading as an issue is skipped.
	require.Len(t, samples, 2)

	assert.True(t, samples[0].Responded)
	assert.Equal(t, 3, samples[0].CommentCount)
	assert.InDelta(t, 1.0, samples[0].FirstResponseLatencyDays, 0.01)

	assert.False(t, samples[1].Responded)
}

func TestGateway_FetchReadme(t *testing.T) {
	t.Run("decodes base64 content", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/readme")
			// "# Widget\n\nInstall it." base64-encoded.
			fmt.Fprint(w, `{"type":"file","encoding":"base64","content":"IyBXaWRnZXQKCkluc3RhbGwgaXQu"}`)
		}
		gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		readme, err := gateway.FetchReadme(context.Background(), "acme", "widget")
		require.NoError(t, err)
		assert.Equal(t, "# Widget\n\nInstall it.", readme)
	})

	t.Run("missing README is not an error", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		}
		gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
		defer server.Close()

		readme, err := gateway.FetchReadme(context.Background(), "acme", "widget")
		require.NoError(t, err)
		assert.Empty(t, readme)
	})
}

func TestGateway_FetchCodeSnippets(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/contents/"):
			fmt.Fprint(w, `[
				{"type":"file","name":"main.go"},
				{"type":"file","name":"README.md"},
				{"type":"dir","name":"internal"},
				{"type":"file","name":"setup.py"}
			]`)
		case strings.HasSuffix(r.URL.Path, "/contents/main.go"):
			// "package main" base64-encoded.
			fmt.Fprint(w, `{"type":"file","encoding":"base64","name":"main.go","content":"cGFja2FnZSBtYWlu"}`)
		case strings.HasSuffix(r.URL.Path, "/contents/setup.py"):
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	snippets, err := gateway.FetchCodeSnippets(context.Background(), "acme", "widget")
	require.NoError(t, err)
	// README.md and the directory are filtered, setup.py's fetch failure
	// is skipped.
	require.Len(t, snippets, 1)
	assert.Equal(t, "main.go", snippets[0].Path)
	assert.Equal(t, "package main", snippets[0].Content)
}

func TestGateway_Search(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/search/repositories"):
			q := r.URL.Query().Get("q")
			assert.Contains(t, q, "http client in:name,description")
			assert.Contains(t, q, "language:go")
			assert.Contains(t, q, "topic:networking")
			assert.Contains(t, q, "pushed:>=")
			fmt.Fprint(w, `{"total_count":2,"items":[
				{"name":"alpha","full_name":"acme/alpha","owner":{"login":"acme"},"stargazers_count":900,"open_issues_count":12,"pushed_at":"2025-08-01T00:00:00Z","topics":["networking"]},
				{"name":"beta","full_name":"acme/beta","owner":{"login":"acme"},"stargazers_count":400,"open_issues_count":3,"pushed_at":"2025-07-01T00:00:00Z","topics":[]}
			]}`)
		case strings.Contains(r.URL.Path, "/search/issues"):
			q := r.URL.Query().Get("q")
			if strings.Contains(q, "repo:acme/alpha") {
				fmt.Fprint(w, `{"total_count":5,"items":[]}`)
			} else {
				fmt.Fprint(w, `{"total_count":0,"items":[]}`)
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	filter := model.SearchFilter{
		Keywords:           "http client",
		Language:           "go",
		Topics:             []string{"networking"},
		MinGoodFirstIssues: 1,
		MaxGoodFirstIssues: 100,
		RecentCommitDays:   90,
	}
	candidates, err := gateway.Search(context.Background(), filter)
	require.NoError(t, err)

	// beta has zero good first issues and falls outside the band.
	require.Len(t, candidates, 1)
	assert.Equal(t, "acme/alpha", candidates[0].FullName)
	assert.Equal(t, "acme", candidates[0].Owner)
	assert.Equal(t, 5, candidates[0].GoodFirstIssues)
	assert.Equal(t, 900, candidates[0].Stars)
}

func TestGateway_Search_UpstreamFailure(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"rate limited"}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	_, err := gateway.Search(context.Background(), model.SearchFilter{Keywords: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search repositories")
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("empty filter yields empty query", func(t *testing.T) {
		assert.Empty(t, buildSearchQuery(model.SearchFilter{}))
	})

	t.Run("all parts joined", func(t *testing.T) {
		q := buildSearchQuery(model.SearchFilter{
			Keywords:         "cli tool",
			Language:         "rust",
			Topics:           []string{"terminal", " "},
			RecentCommitDays: 30,
		})
		assert.Contains(t, q, "cli tool in:name,description")
		assert.Contains(t, q, "language:rust")
		assert.Contains(t, q, "topic:terminal")
		assert.NotContains(t, q, "topic: ")
		assert.Contains(t, q, "pushed:>=")
	})
}
