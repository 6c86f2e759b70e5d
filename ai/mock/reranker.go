package mock

import (
	"context"

	"github.com/poiesic/answerit/ai"
)

// MockReranker is a test double for ai.Reranker.
// It allows custom behavior injection via function fields.
type MockReranker struct {
	// RerankFunc is called by Rerank if set.
	// If nil, returns the documents in their original order with
	// linearly decreasing scores.
	RerankFunc func(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error)

	callCount int
}

// NewMockReranker creates a mock reranker with default pass-through behavior.
// Note: Returns concrete type to allow test assertions via GetMockReranker().
func NewMockReranker() *MockReranker {
	return &MockReranker{}
}

// Rerank scores documents, preserving input order by default.
func (m *MockReranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error) {
	m.callCount++

	if m.RerankFunc != nil {
		return m.RerankFunc(ctx, query, documents, topN)
	}

	if topN <= 0 || topN > len(documents) {
		topN = len(documents)
	}
	results := make([]ai.RerankResult, topN)
	for i := 0; i < topN; i++ {
		results[i] = ai.RerankResult{
			Index:          i,
			RelevanceScore: 1.0 - float64(i)/float64(len(documents)+1),
		}
	}
	return results, nil
}

// CallCount returns the number of times Rerank was called.
func (m *MockReranker) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockReranker) Reset() {
	m.callCount = 0
	m.RerankFunc = nil
}
