// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Completer,
// ai.Reranker, ai.WebSearcher and ai.AIProvider for use in unit tests. The
// mocks allow tests to run without external AI service dependencies and
// enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockCompleter := mock.NewMockCompleter()
//	mockCompleter.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return `{"answer": "yes"}`, nil
//	}
//
//	// Check call counts
//	count := mockCompleter.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockCompleter: Returns canned text and empty JSON objects
//   - MockReranker: Preserves input order with decreasing scores
//   - MockWebSearcher: Echoes the query in a canned result
//   - MockProvider: Aggregates the mock services
package mock
