package scoring

import (
	"context"
	"fmt"
	"strings"
)

// Documentation scoring constants.
const (
	excerptMaxLines = 50

	clarityWeight        = 0.4
	examplesWeight       = 0.3
	setupWeight          = 0.2
	licenseContribWeight = 0.1
)

// Keyword groups used to cut focused README excerpts per criterion.
var (
	clarityKeywords        = []string{"description", "overview", "summary", "introduction", "purpose"}
	examplesKeywords       = []string{"example", "tutorial", "sample", "quick start", "demo"}
	setupKeywords          = []string{"install", "setup", "configure", "prerequisite", "requirements"}
	licenseContribKeywords = []string{"license", "contributing", "contribution", "cla", "code of conduct"}
)

const documentationPromptTemplate = "You are an expert technical writer. Evaluate the following README snippet " +
	"for %s. Respond with a numeric score from 0 (poor) to 10 (excellent).\n\n"

// DocumentationBreakdown carries the four section scores alongside the
// weighted total.
type DocumentationBreakdown struct {
	Clarity        float64
	Examples       float64
	Setup          float64
	LicenseContrib float64
	Total          float64
}

// Documentation scores README quality as a weighted sum of four
// LLM-scored sections. An absent README scores zero without any LLM
// call; a failed LLM call zeroes that section only. Only the combined
// total is cached upstream, never the section scores.
func Documentation(ctx context.Context, scorer TextScorer, readme string) DocumentationBreakdown {
	if strings.TrimSpace(readme) == "" {
		return DocumentationBreakdown{}
	}

	lines := nonBlankLines(readme)

	b := DocumentationBreakdown{
		Clarity:        scoreSection(ctx, scorer, "clarity and understandability", excerptByKeywords(lines, clarityKeywords)),
		Examples:       scoreSection(ctx, scorer, "examples and tutorials", excerptByKeywords(lines, examplesKeywords)),
		Setup:          scoreSection(ctx, scorer, "setup and installation instructions", excerptByKeywords(lines, setupKeywords)),
		LicenseContrib: scoreSection(ctx, scorer, "license and contribution guidelines", excerptByKeywords(lines, licenseContribKeywords)),
	}
	b.Total = round2(clarityWeight*b.Clarity +
		examplesWeight*b.Examples +
		setupWeight*b.Setup +
		licenseContribWeight*b.LicenseContrib)
	return b
}

func scoreSection(ctx context.Context, scorer TextScorer, criterion, excerpt string) float64 {
	prompt := fmt.Sprintf(documentationPromptTemplate, criterion) + excerpt
	v, err := scorer.ScoreText(ctx, prompt)
	if err != nil {
		return 0
	}
	return 10 * clamp01(v/10)
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// excerptByKeywords collects lines mentioning any keyword,
// case-insensitively, falling back to the leading lines when nothing
// matches. Either way the excerpt is capped at excerptMaxLines.
func excerptByKeywords(lines []string, keywords []string) string {
	var matched []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, line)
				break
			}
		}
		if len(matched) >= excerptMaxLines {
			break
		}
	}
	if len(matched) == 0 {
		if len(lines) > excerptMaxLines {
			lines = lines[:excerptMaxLines]
		}
		return strings.Join(lines, "\n")
	}
	return strings.Join(matched, "\n")
}
