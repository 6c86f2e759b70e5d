package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer generates text completions from a language model.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends a prompt to the model and returns the generated text.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteJSON sends a prompt to the model in JSON mode and returns the
	// raw response text. Callers are responsible for unmarshaling; responses
	// may still need fence stripping and repair before parsing.
	CompleteJSON(ctx context.Context, prompt string) (string, error)
}

// Reranker reorders candidate documents by relevance to a query using a
// cross-encoder-class model. Implementations normalize whatever shape the
// external service returns into RerankResult records, so nothing past this
// boundary sees provider-specific response formats.
type Reranker interface {
	// Rerank scores the documents against the query and returns up to topN
	// results ordered by descending relevance. Each result's Index refers
	// to the position of the document in the input slice.
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]RerankResult, error)
}

// WebSearcher runs a web search and returns a text summary of the results.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the embedding, completion and reranking
// services, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Completer returns the text completion service.
	// The returned Completer is safe for concurrent use.
	Completer() Completer

	// Reranker returns the reranking service, or nil when reranking is not
	// configured. Callers must treat a nil reranker as "reranking disabled".
	Reranker() Reranker

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
