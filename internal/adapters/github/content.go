package github

import (
	"context"
	"path"
	"time"

	"github.com/user7217/OSS-Engine/internal/domain/model"
	"github.com/user7217/OSS-Engine/pkg/logger"
	"github.com/user7217/OSS-Engine/pkg/metrics"
)

// snippetExtensions are the source file types considered for quality
// review, matched against top-level repository files.
var snippetExtensions = map[string]bool{
	".go":   true,
	".py":   true,
	".js":   true,
	".ts":   true,
	".java": true,
	".rb":   true,
	".rs":   true,
	".c":    true,
	".cpp":  true,
	".h":    true,
}

// FetchReadme returns the decoded README contents. A repository without
// a README yields an empty string and no error.
func (g *Gateway) FetchReadme(ctx context.Context, owner, name string) (string, error) {
	start := time.Now()
	readme, resp, err := g.restClient.Repositories.GetReadme(ctx, owner, name, nil)
	metrics.RecordGitHubRequest("readme", time.Since(start))
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return "", nil
		}
		metrics.RecordGitHubError("readme")
		return "", err
	}
	content, err := readme.GetContent()
	if err != nil {
		metrics.RecordGitHubError("readme")
		return "", err
	}
	return content, nil
}

// FetchCodeSnippets returns bounded excerpts of top-level source files.
// Individual file fetch failures are skipped.
func (g *Gateway) FetchCodeSnippets(ctx context.Context, owner, name string) ([]model.Snippet, error) {
	start := time.Now()
	_, dir, _, err := g.restClient.Repositories.GetContents(ctx, owner, name, "", nil)
	metrics.RecordGitHubRequest("root_listing", time.Since(start))
	if err != nil {
		metrics.RecordGitHubError("root_listing")
		return nil, err
	}

	var snippets []model.Snippet
	for _, entry := range dir {
		if len(snippets) >= g.maxSnippets {
			break
		}
		if entry.GetType() != "file" || !snippetExtensions[path.Ext(entry.GetName())] {
			continue
		}

		start := time.Now()
		file, _, _, err := g.restClient.Repositories.GetContents(ctx, owner, name, entry.GetName(), nil)
		metrics.RecordGitHubRequest("snippet", time.Since(start))
		if err != nil || file == nil {
			metrics.RecordGitHubError("snippet")
			g.logger.Warn(ctx, "snippet fetch failed",
				logger.String("repo", owner+"/"+name),
				logger.String("path", entry.GetName()), logger.Error(err))
			continue
		}
		content, err := file.GetContent()
		if err != nil {
			g.logger.Warn(ctx, "snippet decode failed",
				logger.String("path", entry.GetName()), logger.Error(err))
			continue
		}
		if len(content) > g.maxSnippetBytes {
			content = content[:g.maxSnippetBytes]
		}
		snippets = append(snippets, model.Snippet{Path: entry.GetName(), Content: content})
	}
	return snippets, nil
}
