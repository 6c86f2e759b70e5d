package retrieval

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
	"golang.org/x/sync/singleflight"
)

// BM25 parameters. Standard Okapi values.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// tokenize splits text into lowercase alphanumeric word tokens.
func tokenize(text string) []string {
	var tokens []string
	var sb strings.Builder
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			continue
		}
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}
	if sb.Len() > 0 {
		tokens = append(tokens, sb.String())
	}
	return tokens
}

// lexicalIndex is a BM25 scoring structure over the corpus, built from a
// snapshot of the chunk set. Position in the chunks slice is corpus order
// and doubles as the document index.
type lexicalIndex struct {
	version   uint64
	chunks    []*core.Chunk
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	docFreq   map[string]int
}

// buildLexicalIndex constructs a BM25 index over the given chunks.
func buildLexicalIndex(version uint64, chunks []*core.Chunk) *lexicalIndex {
	idx := &lexicalIndex{
		version:   version,
		chunks:    chunks,
		termFreqs: make([]map[string]int, len(chunks)),
		docLens:   make([]int, len(chunks)),
		docFreq:   make(map[string]int),
	}

	totalLen := 0
	for i, chunk := range chunks {
		tokens := tokenize(chunk.Content)
		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}
		idx.termFreqs[i] = tf
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)
		for tok := range tf {
			idx.docFreq[tok]++
		}
	}
	if len(chunks) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(chunks))
	}
	return idx
}

// score computes the BM25 score of every indexed chunk against the query.
// The returned slice is positional: scores[i] belongs to chunks[i].
// An empty corpus or empty query yields all-zero scores, never an error.
func (idx *lexicalIndex) score(query string) []float64 {
	scores := make([]float64, len(idx.chunks))
	terms := tokenize(query)
	if len(terms) == 0 || len(idx.chunks) == 0 {
		return scores
	}

	n := float64(len(idx.chunks))
	for _, term := range terms {
		df := idx.docFreq[term]
		if df == 0 {
			continue
		}
		idf := math.Log((n-float64(df)+0.5)/(float64(df)+0.5) + 1)

		for i := range idx.chunks {
			tf := float64(idx.termFreqs[i][term])
			if tf == 0 {
				continue
			}
			norm := 1 - bm25B + bm25B*float64(idx.docLens[i])/idx.avgDocLen
			scores[i] += idf * tf * (bm25K1 + 1) / (tf + bm25K1*norm)
		}
	}
	return scores
}

// lexicalCache holds the current lexical index and rebuilds it when the
// corpus version observed at query time differs from the version the index
// was built from. Concurrent rebuild requests are collapsed into one.
type lexicalCache struct {
	repo   storage.ChunkRepository
	logger *slog.Logger

	mu    sync.RWMutex
	idx   *lexicalIndex
	group singleflight.Group
}

func newLexicalCache(repo storage.ChunkRepository, logger *slog.Logger) *lexicalCache {
	return &lexicalCache{
		repo:   repo,
		logger: logger,
	}
}

// current returns an index matching the given corpus version, rebuilding if
// the cached one is missing or stale.
func (c *lexicalCache) current(ctx context.Context, version uint64) (*lexicalIndex, error) {
	c.mu.RLock()
	idx := c.idx
	c.mu.RUnlock()

	if idx != nil && idx.version == version {
		return idx, nil
	}

	result, err, _ := c.group.Do("rebuild", func() (any, error) {
		// Re-check under the group: another caller may have rebuilt already
		c.mu.RLock()
		cached := c.idx
		c.mu.RUnlock()
		if cached != nil && cached.version == version {
			return cached, nil
		}

		// Read the version together with the snapshot so the index is
		// stamped with the version it was actually built from
		snapshotVersion, err := c.repo.Version(ctx)
		if err != nil {
			return nil, err
		}
		chunks, err := c.repo.AllChunks(ctx)
		if err != nil {
			return nil, err
		}

		fresh := buildLexicalIndex(snapshotVersion, chunks)
		c.mu.Lock()
		c.idx = fresh
		c.mu.Unlock()

		c.logger.Debug("rebuilt lexical index",
			"chunks", len(chunks),
			"version", snapshotVersion)
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*lexicalIndex), nil
}
