package scoring

import (
	"time"

	"github.com/user7217/OSS-Engine/internal/domain/model"
)

// Maintenance scoring constants.
const (
	recencyWindowHours = 2160 // 90 days; recency decays linearly to zero here
	recentCommitCap    = 100  // commits per 90 days for a full frequency score
	totalCommitCap     = 2000 // lifetime commits for a full volume score

	recencyWeight   = 0.5
	frequencyWeight = 0.3
	volumeWeight    = 0.2

	prMergeDayThreshold    = 7
	prMergePenaltyPerDay   = 0.1
	issueCloseDayThreshold = 14
	issueClosePenaltyPerDay = 0.05

	coverageHighBar   = 80
	coverageMediumBar = 50

	commitActivityWeight  = 0.75
	prMergeRateWeight     = 0.15
	issueResolutionWeight = 0.05
	ciPresenceWeight      = 0.05
)

// MaintenanceBreakdown carries the maintenance sub-components alongside
// the weighted total.
type MaintenanceBreakdown struct {
	CommitActivity  float64
	PRMergeRate     float64
	IssueResolution float64
	CIPresence      float64
	Total           float64
}

// Maintenance computes the maintenance activity score for one
// repository snapshot. It never fails: absent or malformed inputs score
// zero for their component.
func Maintenance(m model.RepoMetrics, now time.Time) MaintenanceBreakdown {
	b := MaintenanceBreakdown{
		CommitActivity:  CommitActivity(m, now),
		PRMergeRate:     PRMergeRate(m.PullRequests.Total, m.PullRequests.Merged, m.PullRequests.AvgMergeTimeDays),
		IssueResolution: IssueResolutionRate(m.Issues.Total, m.Issues.Closed, m.Issues.AvgCloseTimeDays),
		CIPresence:      CIPresence(m.CIPresent, m.TestCoveragePercent),
	}
	b.Total = round2(commitActivityWeight*b.CommitActivity +
		prMergeRateWeight*b.PRMergeRate +
		issueResolutionWeight*b.IssueResolution +
		ciPresenceWeight*b.CIPresence)
	return b
}

// CommitActivity blends push recency with commit frequency and lifetime
// volume. Recency starts at 10 for a just-pushed repository and decays
// linearly to zero at 90 days; a repository with no recorded push scores
// zero outright.
func CommitActivity(m model.RepoMetrics, now time.Time) float64 {
	if m.PushedAt == nil {
		return 0
	}
	hours := now.Sub(*m.PushedAt).Hours()
	if hours < 0 {
		hours = 0
	}
	recency := 10 * clamp01(1-hours/recencyWindowHours)
	frequency := 10 * clamp01(float64(m.CommitCountRecent)/recentCommitCap)
	volume := 10 * clamp01(float64(m.CommitCountTotal)/totalCommitCap)
	return recencyWeight*recency + frequencyWeight*frequency + volumeWeight*volume
}

// PRMergeRate maps the merged/total ratio onto 0-10 and applies a linear
// time penalty when the average merge takes longer than seven days.
// Zero total PRs is an explicit strong penalty, not missing data.
func PRMergeRate(total, merged int, avgMergeTimeDays float64) float64 {
	return ratioWithDelayPenalty(total, merged, avgMergeTimeDays, prMergeDayThreshold, prMergePenaltyPerDay)
}

// IssueResolutionRate is the issue-side twin of PRMergeRate with a
// 14-day threshold and a gentler penalty slope.
func IssueResolutionRate(total, closed int, avgCloseTimeDays float64) float64 {
	return ratioWithDelayPenalty(total, closed, avgCloseTimeDays, issueCloseDayThreshold, issueClosePenaltyPerDay)
}

func ratioWithDelayPenalty(total, done int, avgDays float64, thresholdDays, penaltyPerDay float64) float64 {
	if total <= 0 {
		return 0
	}
	base := 10 * clamp01(float64(done)/float64(total))
	penalty := 1.0
	if avgDays > thresholdDays {
		penalty = clamp01(1 - penaltyPerDay*(avgDays-thresholdDays))
	}
	return base * penalty
}

// CIPresence gates on CI being configured at all, then scales by test
// coverage.
func CIPresence(present bool, coveragePercent float64) float64 {
	if !present {
		return 0
	}
	switch {
	case coveragePercent >= coverageHighBar:
		return 10
	case coveragePercent >= coverageMediumBar:
		return 7
	default:
		return 5
	}
}
