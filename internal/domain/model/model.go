// Package model contains domain models passed between layers.
//
// Everything here is a normalized snapshot built once at the gateway
// boundary. Scorers never see raw API payloads.
package model

import "time"

// RepoMetrics is an ephemeral activity snapshot for one repository.
// Missing numeric inputs are zero values; PushedAt is nil when the
// repository has no recorded push.
type RepoMetrics struct {
	PushedAt            *time.Time
	CommitCountRecent   int // commits on the default branch in the last 90 days
	CommitCountTotal    int
	PullRequests        PullRequestStats
	Issues              IssueStats
	CIPresent           bool
	TestCoveragePercent float64
}

// PullRequestStats summarizes pull request throughput.
type PullRequestStats struct {
	Total            int
	Merged           int
	AvgMergeTimeDays float64
}

// IssueStats summarizes issue throughput.
type IssueStats struct {
	Total            int
	Closed           int
	AvgCloseTimeDays float64
}

// Contributor is one sampled contributor profile.
type Contributor struct {
	Login         string
	Contributions int
	Location      string
	CreatedAt     time.Time
}

// ContributorSet holds the total contributor count plus a bounded sample
// with profile details.
type ContributorSet struct {
	TotalCount int
	Sampled    []Contributor
}

// ReviewSample captures review activity on one sampled pull request.
// Reviewed is false when the PR never received a review; such samples
// are excluded from averages.
type ReviewSample struct {
	CommentCount           int
	FirstReviewLatencyDays float64
	Reviewed               bool
}

// IssueSample captures responsiveness on one sampled issue.
type IssueSample struct {
	CommentCount            int
	FirstResponseLatencyDays float64
	Responded               bool
}

// Snippet is one bounded code excerpt used for LLM quality review.
type Snippet struct {
	Path    string
	Content string
}

// SearchFilter narrows the repository search for batch scoring.
type SearchFilter struct {
	Keywords           string
	Language           string
	MinGoodFirstIssues int
	MaxGoodFirstIssues int
	Topics             []string
	RecentCommitDays   int
}

// RepoCandidate is one search hit prior to scoring.
type RepoCandidate struct {
	Owner           string
	Name            string
	FullName        string
	Stars           int
	OpenIssues      int
	PushedAt        string
	Topics          []string
	GoodFirstIssues int
}

// RepoSummary is one row of a batch scoring response.
type RepoSummary struct {
	Repo               string   `json:"repo"`
	Owner              string   `json:"owner"`
	Name               string   `json:"repo_name"`
	MaintenanceScore   float64  `json:"maintenance_score"`
	CommunityScore     float64  `json:"community_score"`
	DocumentationScore *float64 `json:"documentation_score"`
	CodeQualityScore   *float64 `json:"code_quality_score"`
	CombinedScore      float64  `json:"combined_score"`
	GoodFirstIssues    int      `json:"good_first_issues_count"`
	PushedAt           string   `json:"pushedAt"`
	Topics             []string `json:"topics"`
}
