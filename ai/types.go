package ai

// RerankResult is the normalized record produced by a Reranker. External
// reranking APIs disagree about response shapes; implementations convert
// whatever they receive into this fixed form at the collaborator boundary.
type RerankResult struct {
	// Index is the position of the document in the candidate slice that was
	// passed to Rerank. Consumers must ignore out-of-range indices.
	Index int

	// RelevanceScore is the model's relevance estimate, higher is better.
	RelevanceScore float64
}
