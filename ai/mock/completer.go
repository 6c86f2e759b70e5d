package mock

import "context"

// MockCompleter is a test double for ai.Completer.
// It allows custom behavior injection via function fields.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns a canned response.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// CompleteJSONFunc is called by CompleteJSON if set.
	// If nil, returns an empty JSON object.
	CompleteJSONFunc func(ctx context.Context, prompt string) (string, error)

	callCount int
}

// NewMockCompleter creates a mock completer with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete returns a canned text response.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "mock completion", nil
}

// CompleteJSON returns an empty JSON object.
func (m *MockCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.CompleteJSONFunc != nil {
		return m.CompleteJSONFunc(ctx, prompt)
	}
	return "{}", nil
}

// CallCount returns the number of times any method was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
	m.CompleteJSONFunc = nil
}
