package retrieval

import "github.com/poiesic/answerit/core"

// RetrievalMonitor provides hooks to observe the retrieval pipeline.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(question string)
	AfterSemanticSearch(matches []*core.SemanticMatch)
	AfterHybridMerge(candidates []*core.ScoredChunk)
	AfterTemporalFilter(candidates []*core.ScoredChunk)
	AfterRerank(candidates []*core.ScoredChunk)
	Finish(results []*core.ScoredChunk)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.SemanticMatch) {}
func (n *noopMonitor) AfterHybridMerge(_ []*core.ScoredChunk)     {}
func (n *noopMonitor) AfterTemporalFilter(_ []*core.ScoredChunk)  {}
func (n *noopMonitor) AfterRerank(_ []*core.ScoredChunk)          {}
func (n *noopMonitor) Finish(_ []*core.ScoredChunk)               {}
