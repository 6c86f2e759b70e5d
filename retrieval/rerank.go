package retrieval

import (
	"context"
	"log/slog"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
)

// applyRerank reorders candidates using the external reranker. It fails
// open: on any reranker error, malformed response or empty result, the
// original candidates are returned truncated to topN. Out-of-range indices
// in the response are silently skipped.
func applyRerank(ctx context.Context, reranker ai.Reranker, question string, candidates []*core.ScoredChunk, topN int, logger *slog.Logger) []*core.ScoredChunk {
	if topN <= 0 || topN > len(candidates) {
		topN = len(candidates)
	}

	if reranker == nil {
		return candidates[:topN]
	}

	documents := make([]string, len(candidates))
	for i, c := range candidates {
		documents[i] = c.Chunk.Content
	}

	results, err := reranker.Rerank(ctx, question, documents, topN)
	if err != nil {
		logger.Warn("reranker failed, keeping original order", "err", err)
		return candidates[:topN]
	}

	reranked := make([]*core.ScoredChunk, 0, topN)
	seen := make(map[int]bool, len(results))
	for _, r := range results {
		if r.Index < 0 || r.Index >= len(candidates) || seen[r.Index] {
			continue
		}
		seen[r.Index] = true
		c := candidates[r.Index]
		c.FinalScore = r.RelevanceScore
		reranked = append(reranked, c)
		if len(reranked) == topN {
			break
		}
	}

	if len(reranked) == 0 {
		logger.Warn("reranker returned no usable results, keeping original order")
		return candidates[:topN]
	}
	return reranked
}
