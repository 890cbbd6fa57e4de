package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/user7217/OSS-Engine/internal/domain/model"
)

const codeQualityRubric = "You are a software quality expert. Assess the overall code quality " +
	"based on the following combined code snippets from the main files of a repository. " +
	"Evaluate readability, structure, correctness, maintainability, and best practices.\n" +
	"Provide a normalized score from 0 (poor) to 10 (excellent). Reply with only the numeric score."

// CodeQuality concatenates the fetched snippets under a fixed rubric and
// delegates to the LLM in a single call. No snippets or a failed or
// unparsable response scores zero.
func CodeQuality(ctx context.Context, scorer TextScorer, snippets []model.Snippet) float64 {
	if len(snippets) == 0 {
		return 0
	}
	v, err := scorer.ScoreText(ctx, BuildCodeQualityPrompt(snippets))
	if err != nil {
		return 0
	}
	return round2(10 * clamp01(v/10))
}

// BuildCodeQualityPrompt renders the rubric followed by each snippet
// tagged with its file path.
func BuildCodeQualityPrompt(snippets []model.Snippet) string {
	blocks := make([]string, 0, len(snippets))
	for _, s := range snippets {
		blocks = append(blocks, fmt.Sprintf("// File: %s\n%s", s.Path, s.Content))
	}
	return codeQualityRubric + "\n\n" + strings.Join(blocks, "\n\n")
}
