package llm

import "fmt"

// Credentials carries the provider keys and model override taken from
// configuration.
type Credentials struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	Model        string
}

// Resolve picks a provider from the configured credentials. Gemini wins
// when both keys are present; the model override applies to whichever
// provider is chosen.
func Resolve(creds Credentials) (Provider, error) {
	if creds.GeminiAPIKey != "" {
		return NewGemini(creds.GeminiAPIKey, creds.Model)
	}
	if creds.OpenAIAPIKey != "" {
		return NewOpenAI(creds.OpenAIAPIKey, creds.Model)
	}
	return nil, fmt.Errorf("%w: set gemini_api_key or openai_api_key", ErrNoProvider)
}
