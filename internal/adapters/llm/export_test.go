package llm

import "net/http"

// NewGeminiForTest builds a Gemini provider pointed at a test server.
func NewGeminiForTest(apiBase string, client *http.Client) *GeminiProvider {
	return &GeminiProvider{apiKey: "test", apiBase: apiBase, model: geminiDefaultModel, client: client}
}
