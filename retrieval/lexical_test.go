package retrieval

import (
	"context"
	"log/slog"
	"testing"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "42"}, tokenize("Hello, WORLD! 42"))
	assert.Empty(t, tokenize("!!! ... ---"))
	assert.Empty(t, tokenize(""))
}

func TestLexicalIndex_ScoresKeywordOverlap(t *testing.T) {
	chunks := []*core.Chunk{
		{Id: 1, Content: "machine learning models need training data"},
		{Id: 2, Content: "apples and oranges are fruit"},
		{Id: 3, Content: "deep learning is a branch of machine learning"},
	}
	idx := buildLexicalIndex(1, chunks)

	scores := idx.score("machine learning")
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], 0.0)
	assert.Equal(t, 0.0, scores[1])
	assert.Greater(t, scores[2], scores[1])
}

func TestLexicalIndex_EmptyCorpus(t *testing.T) {
	idx := buildLexicalIndex(0, nil)
	scores := idx.score("anything")
	assert.Empty(t, scores)
}

func TestLexicalIndex_EmptyQuery(t *testing.T) {
	idx := buildLexicalIndex(1, []*core.Chunk{{Id: 1, Content: "some text"}})
	scores := idx.score("")
	require.Len(t, scores, 1)
	assert.Equal(t, 0.0, scores[0])
}

func TestLexicalCache_RebuildsOnVersionChange(t *testing.T) {
	repo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	_, err = repo.AddChunks(ctx, &core.Chunk{Content: "first document"})
	require.NoError(t, err)

	cache := newLexicalCache(repo, slog.Default())

	v1, err := repo.Version(ctx)
	require.NoError(t, err)
	idx1, err := cache.current(ctx, v1)
	require.NoError(t, err)
	assert.Len(t, idx1.chunks, 1)

	// Same version returns the cached index
	again, err := cache.current(ctx, v1)
	require.NoError(t, err)
	assert.Same(t, idx1, again)

	// Corpus mutation invalidates the cache
	_, err = repo.AddChunks(ctx, &core.Chunk{Content: "second document"})
	require.NoError(t, err)

	v2, err := repo.Version(ctx)
	require.NoError(t, err)
	idx2, err := cache.current(ctx, v2)
	require.NoError(t, err)
	assert.NotSame(t, idx1, idx2)
	assert.Len(t, idx2.chunks, 2)
}
