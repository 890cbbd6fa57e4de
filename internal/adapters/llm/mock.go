package llm

import "context"

// MockProvider is a canned provider for tests and offline runs.
type MockProvider struct {
	Response string
	Err      error
	Calls    int
}

// NewMock creates a provider that always answers with response.
func NewMock(response string) *MockProvider {
	return &MockProvider{Response: response}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, _ string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
