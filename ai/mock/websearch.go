package mock

import "context"

// MockWebSearcher is a test double for ai.WebSearcher.
type MockWebSearcher struct {
	// SearchFunc is called by Search if set.
	// If nil, returns a canned result.
	SearchFunc func(ctx context.Context, query string) (string, error)

	callCount int
}

// NewMockWebSearcher creates a mock web searcher with default canned behavior.
func NewMockWebSearcher() *MockWebSearcher {
	return &MockWebSearcher{}
}

// Search returns a canned search result.
func (m *MockWebSearcher) Search(ctx context.Context, query string) (string, error) {
	m.callCount++

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return "mock web search results for: " + query, nil
}

// CallCount returns the number of times Search was called.
func (m *MockWebSearcher) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockWebSearcher) Reset() {
	m.callCount = 0
	m.SearchFunc = nil
}
