package retrieval

import (
	"math"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticSimilarity(t *testing.T) {
	assert.Equal(t, 0.5, semanticSimilarity(1))
	assert.InDelta(t, 0.0909, semanticSimilarity(10), 0.001)
	assert.Equal(t, 0.0, semanticSimilarity(0))
	assert.Equal(t, 0.0, semanticSimilarity(-1))
	assert.Equal(t, 0.0, semanticSimilarity(math.Inf(1)))
}

func TestMergeHybrid_BlendsScores(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: 1, Content: "strong lexical match machine learning machine learning"},
		{Id: 2, Content: "nothing in common"},
	}
	idx := buildLexicalIndex(1, chunks)
	lexScores := idx.score("machine learning")

	// Chunk 2 is the semantic winner
	matches := []*core.SemanticMatch{
		{Chunk: chunks[1], Distance: 0.1},
		{Chunk: chunks[0], Distance: 5.0},
	}

	// Alpha 0: pure lexical, chunk 1 wins
	ranked := mergeHybrid(matches, idx, lexScores, nil, 0, 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, core.ID(1), ranked[0].Chunk.Id)

	// Alpha 1: pure semantic, chunk 2 wins
	ranked = mergeHybrid(matches, idx, lexScores, nil, 1, 10)
	assert.Equal(t, core.ID(2), ranked[0].Chunk.Id)
}

func TestMergeHybrid_AbsentFromSemanticSetScoresZeroSimilarity(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: 1, Content: "alpha"},
		{Id: 2, Content: "beta"},
	}
	idx := buildLexicalIndex(1, chunks)
	lexScores := idx.score("gamma")

	matches := []*core.SemanticMatch{{Chunk: chunks[0], Distance: 0.5}}

	ranked := mergeHybrid(matches, idx, lexScores, nil, 1, 10)
	require.Len(t, ranked, 2)
	assert.Equal(t, core.ID(1), ranked[0].Chunk.Id)
	assert.True(t, math.IsInf(ranked[1].Distance, 1))
	assert.Equal(t, 0.0, ranked[1].HybridScore)
}

func TestMergeHybrid_EqualScoresPreserveCorpusOrder(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: 10, Content: "identical"},
		{Id: 20, Content: "identical"},
		{Id: 30, Content: "identical"},
	}
	idx := buildLexicalIndex(1, chunks)
	lexScores := idx.score("unrelated query")

	ranked := mergeHybrid(nil, idx, lexScores, nil, 0.5, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, core.ID(10), ranked[0].Chunk.Id)
	assert.Equal(t, core.ID(20), ranked[1].Chunk.Id)
	assert.Equal(t, core.ID(30), ranked[2].Chunk.Id)
}

func TestMergeHybrid_RespectsMetadataFilter(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: 1, Content: "kept", Metadata: map[string]string{core.MetaFileName: "a.pdf"}},
		{Id: 2, Content: "dropped", Metadata: map[string]string{core.MetaFileName: "b.pdf"}},
	}
	idx := buildLexicalIndex(1, chunks)
	lexScores := idx.score("kept")

	ranked := mergeHybrid(nil, idx, lexScores, map[string]string{core.MetaFileName: "a.pdf"}, 0.5, 10)
	require.Len(t, ranked, 1)
	assert.Equal(t, core.ID(1), ranked[0].Chunk.Id)
}

// Raising alpha must lift a semantically strong, lexically weak chunk above
// its lexically strong, semantically weak counterpart.
func TestMergeHybrid_AlphaMonotonicity(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: 1, Content: "quarterly revenue report with revenue figures and revenue tables"},
		{Id: 2, Content: "completely different wording about income for the quarter"},
	}
	idx := buildLexicalIndex(1, chunks)
	lexScores := idx.score("revenue report")

	matches := []*core.SemanticMatch{
		{Chunk: chunks[1], Distance: 0.05},
		{Chunk: chunks[0], Distance: 8.0},
	}

	rankOf := func(alpha float64, id core.ID) int {
		ranked := mergeHybrid(matches, idx, lexScores, nil, alpha, 10)
		for i, c := range ranked {
			if c.Chunk.Id == id {
				return i
			}
		}
		t.Fatalf("chunk %d not found", id)
		return -1
	}

	assert.Greater(t, rankOf(0.1, 2), rankOf(0.9, 2))
	assert.Equal(t, 0, rankOf(0.9, 2))
	assert.Equal(t, 0, rankOf(0.1, 1))
}
