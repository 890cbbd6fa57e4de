// Package score defines the persisted score record for one repository
// and the classification of sub-scores into highlights and weak areas.
package score

import "fmt"

// Category display names, in the fixed order used for classification
// and response bodies.
const (
	CategoryMaintenance   = "Maintenance"
	CategoryCodeQuality   = "Code Quality"
	CategoryCommunity     = "Community"
	CategoryDocumentation = "Documentation"
)

// Classification thresholds.
const (
	highlightThreshold = 8.0
	weakThreshold      = 5.0
)

// Record is the persisted composite result for one repository, keyed by
// "{owner}/{name}". Sub-scores are pointers because the record is
// partially fillable: each field may be written independently and at
// different times, and absent means not-yet-computed, not zero.
//
// JSON field names are part of the cache file format; external consumers
// read them as-is.
type Record struct {
	Repo            string   `json:"repo"`
	Maintenance     *float64 `json:"maintenance_score,omitempty"`
	CodeQuality     *float64 `json:"code_quality_score,omitempty"`
	Community       *float64 `json:"community_engagement_score,omitempty"`
	Documentation   *float64 `json:"documentation_score,omitempty"`
	Combined        *float64 `json:"combined_score,omitempty"`
	TopHighlights   []string `json:"top_highlights,omitempty"`
	SpecialMentions []string `json:"special_mentions,omitempty"`
	NumSnippets     *int     `json:"num_snippets,omitempty"`
}

// Key builds the canonical record key for a repository.
func Key(owner, name string) string {
	return fmt.Sprintf("%s/%s", owner, name)
}

// Complete reports whether all four sub-scores have been computed.
// A complete record short-circuits the aggregator.
func (r Record) Complete() bool {
	return r.Maintenance != nil && r.CodeQuality != nil &&
		r.Community != nil && r.Documentation != nil
}

// Merge overlays the present (non-nil, non-empty) fields of patch onto r
// and returns the result. The overlay is shallow and field-level: a field
// carried by patch replaces the same field wholesale, fields absent from
// patch survive untouched. This is what lets independent scorer
// invocations accumulate into one record without clobbering each other.
func (r Record) Merge(patch Record) Record {
	out := r
	if patch.Repo != "" {
		out.Repo = patch.Repo
	}
	if patch.Maintenance != nil {
		out.Maintenance = patch.Maintenance
	}
	if patch.CodeQuality != nil {
		out.CodeQuality = patch.CodeQuality
	}
	if patch.Community != nil {
		out.Community = patch.Community
	}
	if patch.Documentation != nil {
		out.Documentation = patch.Documentation
	}
	if patch.Combined != nil {
		out.Combined = patch.Combined
	}
	if patch.TopHighlights != nil {
		out.TopHighlights = patch.TopHighlights
	}
	if patch.SpecialMentions != nil {
		out.SpecialMentions = patch.SpecialMentions
	}
	if patch.NumSnippets != nil {
		out.NumSnippets = patch.NumSnippets
	}
	return out
}

// Classify buckets each category score against the fixed thresholds:
// >= 8.0 becomes a highlight, < 5.0 becomes a "Weak in {category}"
// mention. Categories are visited in the fixed display order so the
// output is deterministic.
func Classify(maintenance, codeQuality, community, documentation float64) (highlights, mentions []string) {
	categories := []struct {
		name  string
		value float64
	}{
		{CategoryMaintenance, maintenance},
		{CategoryCodeQuality, codeQuality},
		{CategoryCommunity, community},
		{CategoryDocumentation, documentation},
	}
	for _, c := range categories {
		switch {
		case c.value >= highlightThreshold:
			highlights = append(highlights, c.name)
		case c.value < weakThreshold:
			mentions = append(mentions, fmt.Sprintf("Weak in %s", c.name))
		}
	}
	return highlights, mentions
}

// Float returns a pointer to v; convenience for building patches.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
