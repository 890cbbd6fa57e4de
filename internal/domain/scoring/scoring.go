// Package scoring holds the four discoverability sub-scorers. Each one
// maps a normalized input snapshot onto a 0-10 scale and degrades to 0
// on missing input instead of failing.
package scoring

import (
	"context"
	"math"
)

// TextScorer is the black-box LLM contract consumed by the documentation
// and code quality scorers: prompt in, numeric 0-10 score out. A failed
// call is reported as an error and the caller treats it as 0.
type TextScorer interface {
	ScoreText(ctx context.Context, prompt string) (float64, error)
}

// Combined-score weights. The deep scheme blends all four sub-scores;
// the shallow scheme is used for batch candidates that skip the LLM
// passes and blends only the metric-backed pair.
const (
	combinedMaintenanceWeight   = 0.4
	combinedCodeQualityWeight   = 0.25
	combinedCommunityWeight     = 0.25
	combinedDocumentationWeight = 0.10

	shallowMaintenanceWeight = 0.6
	shallowCommunityWeight   = 0.4
)

// Combined blends the four sub-scores into the published composite.
func Combined(maintenance, codeQuality, community, documentation float64) float64 {
	return round2(combinedMaintenanceWeight*maintenance +
		combinedCodeQualityWeight*codeQuality +
		combinedCommunityWeight*community +
		combinedDocumentationWeight*documentation)
}

// ShallowCombined blends the two metric-backed sub-scores for
// candidates that were not deep-scored.
func ShallowCombined(maintenance, community float64) float64 {
	return round2(shallowMaintenanceWeight*maintenance + shallowCommunityWeight*community)
}

// round2 rounds to two decimal places; every published score goes
// through it.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clamp01 limits a ratio to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
