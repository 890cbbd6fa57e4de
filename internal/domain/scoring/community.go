package scoring

import (
	"strings"
	"time"

	"github.com/user7217/OSS-Engine/internal/domain/model"
)

// Community scoring constants.
const (
	contributorCountCap = 50
	newAccountMaxAgeDays = 365
	countryCap          = 10

	adequacyWeight    = 0.5
	newAccountWeight  = 0.3
	countryWeight     = 0.2

	reviewCommentCap        = 20
	reviewLatencyFullDays   = 7
	issueResponseFastDays   = 7
	issueResponseSlowDays   = 14
	issueCommentCap         = 20

	diversityBlendWeight      = 0.5
	reviewBlendWeight         = 0.25
	responsivenessBlendWeight = 0.25
)

// CommunityInput bundles the three normalized inputs of the community
// scorer.
type CommunityInput struct {
	Contributors model.ContributorSet
	Reviews      []model.ReviewSample
	Issues       []model.IssueSample
}

// CommunityBreakdown carries the community sub-components alongside the
// blended total.
type CommunityBreakdown struct {
	ContributorDiversity float64
	PRReviewQuality      float64
	IssueResponsiveness  float64
	Total                float64
}

// Community computes the community engagement score. Empty inputs score
// zero for their component; the scorer never fails.
func Community(in CommunityInput, now time.Time) CommunityBreakdown {
	b := CommunityBreakdown{
		ContributorDiversity: ContributorDiversity(in.Contributors, now),
		PRReviewQuality:      PRReviewQuality(in.Reviews),
		IssueResponsiveness:  IssueResponsiveness(in.Issues),
	}
	b.Total = round2(diversityBlendWeight*b.ContributorDiversity +
		reviewBlendWeight*b.PRReviewQuality +
		responsivenessBlendWeight*b.IssueResponsiveness)
	return b
}

// ContributorDiversity blends contributor-count adequacy, the share of
// recently created accounts among the sampled profiles, and country
// spread inferred from free-text locations.
func ContributorDiversity(set model.ContributorSet, now time.Time) float64 {
	if len(set.Sampled) == 0 {
		return 0
	}

	adequacy := clamp01(float64(set.TotalCount) / contributorCountCap)

	newAccounts := 0
	countries := make(map[string]struct{})
	for _, c := range set.Sampled {
		if !c.CreatedAt.IsZero() && now.Sub(c.CreatedAt) <= newAccountMaxAgeDays*24*time.Hour {
			newAccounts++
		}
		if country := parseCountry(c.Location); country != "" {
			countries[country] = struct{}{}
		}
	}
	newRatio := float64(newAccounts) / float64(len(set.Sampled))
	countrySpread := clamp01(float64(len(countries)) / countryCap)

	return round2(10 * (adequacyWeight*adequacy + newAccountWeight*newRatio + countryWeight*countrySpread))
}

// parseCountry takes the trailing comma-separated token of a free-text
// location field as the country, lowercased. "San Francisco, CA, USA"
// yields "usa".
func parseCountry(location string) string {
	if strings.TrimSpace(location) == "" {
		return ""
	}
	parts := strings.Split(location, ",")
	return strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
}

// PRReviewQuality averages a review-comment volume score with a
// first-review latency score. PRs that never got a review are excluded;
// zero reviewed PRs scores zero.
func PRReviewQuality(samples []model.ReviewSample) float64 {
	var reviewed int
	var comments, latencyDays float64
	for _, s := range samples {
		if !s.Reviewed {
			continue
		}
		reviewed++
		comments += float64(s.CommentCount)
		latencyDays += s.FirstReviewLatencyDays
	}
	if reviewed == 0 {
		return 0
	}
	avgComments := comments / float64(reviewed)
	avgLatency := latencyDays / float64(reviewed)

	commentScore := 10 * clamp01(avgComments/reviewCommentCap)
	latencyScore := 10 - (avgLatency/reviewLatencyFullDays)*10
	if latencyScore < 0 {
		latencyScore = 0
	}
	return (commentScore + latencyScore) / 2
}

// IssueResponsiveness mirrors PRReviewQuality for issues: a first
// response within 7 days scores 10, at or beyond 14 days scores 0, with
// linear interpolation between, averaged with a comment-volume score.
func IssueResponsiveness(samples []model.IssueSample) float64 {
	var responded int
	var comments, latencyDays float64
	for _, s := range samples {
		if !s.Responded {
			continue
		}
		responded++
		comments += float64(s.CommentCount)
		latencyDays += s.FirstResponseLatencyDays
	}
	if responded == 0 {
		return 0
	}
	avgComments := comments / float64(responded)
	avgLatency := latencyDays / float64(responded)

	var responseScore float64
	switch {
	case avgLatency <= issueResponseFastDays:
		responseScore = 10
	case avgLatency >= issueResponseSlowDays:
		responseScore = 0
	default:
		responseScore = 10 * (issueResponseSlowDays - avgLatency) / (issueResponseSlowDays - issueResponseFastDays)
	}
	commentScore := 10 * clamp01(avgComments/issueCommentCap)
	return (responseScore + commentScore) / 2
}
