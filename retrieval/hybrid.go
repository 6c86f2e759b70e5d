package retrieval

import (
	"math"
	"sort"

	"github.com/poiesic/answerit/core"
)

// minMaxEpsilon keeps min-max normalization defined when every candidate
// has the same lexical score.
const minMaxEpsilon = 1e-8

// semanticSimilarity maps an unbounded distance into (0,1], monotonically
// decreasing with distance. Non-positive distances score zero.
func semanticSimilarity(distance float64) float64 {
	if distance > 0 {
		return 1 / (1 + distance)
	}
	return 0
}

// mergeHybrid blends lexical and semantic relevance into one ranked list.
//
// The candidate pool is the union of the semantic matches and every chunk
// the lexical index scored (filtered to the same metadata predicate the
// semantic search used). A chunk absent from the semantic result set is
// treated as infinitely distant. Candidates are assembled in corpus order
// and sorted with a stable sort, so equal hybrid scores preserve corpus
// iteration order.
func mergeHybrid(matches []*core.SemanticMatch, idx *lexicalIndex, lexScores []float64, filter map[string]string, alpha float64, limit int) []*core.ScoredChunk {
	distances := make(map[core.ID]float64, len(matches))
	for _, m := range matches {
		distances[m.Chunk.Id] = m.Distance
	}

	// Assemble candidates in corpus order
	candidates := make([]*core.ScoredChunk, 0, len(idx.chunks))
	seen := make(map[core.ID]bool, len(idx.chunks))
	for i, chunk := range idx.chunks {
		if !chunkMatchesFilter(chunk, filter) {
			continue
		}
		distance := math.Inf(1)
		if d, ok := distances[chunk.Id]; ok {
			distance = d
		}
		candidates = append(candidates, &core.ScoredChunk{
			Chunk:        chunk,
			LexicalScore: lexScores[i],
			Distance:     distance,
		})
		seen[chunk.Id] = true
	}

	// Semantic matches can reference chunks added after the index snapshot;
	// they carry no lexical score
	for _, m := range matches {
		if seen[m.Chunk.Id] {
			continue
		}
		candidates = append(candidates, &core.ScoredChunk{
			Chunk:    m.Chunk,
			Distance: m.Distance,
		})
	}

	// Min-max normalize lexical scores across the candidate set
	minLex, maxLex := math.Inf(1), math.Inf(-1)
	for _, c := range candidates {
		minLex = math.Min(minLex, c.LexicalScore)
		maxLex = math.Max(maxLex, c.LexicalScore)
	}

	for _, c := range candidates {
		normLex := (c.LexicalScore - minLex) / (maxLex - minLex + minMaxEpsilon)
		sem := semanticSimilarity(c.Distance)
		c.HybridScore = alpha*sem + (1-alpha)*normLex
		c.FinalScore = c.HybridScore
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].HybridScore > candidates[j].HybridScore
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// chunkMatchesFilter reports whether a chunk satisfies the metadata
// equality predicate. A nil or empty filter matches everything.
func chunkMatchesFilter(chunk *core.Chunk, filter map[string]string) bool {
	for k, v := range filter {
		if chunk.Metadata[k] != v {
			return false
		}
	}
	return true
}
