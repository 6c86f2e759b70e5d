package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSplitter(t *testing.T, opts ...SplitterOption) *Splitter {
	t.Helper()
	splitter, err := NewSplitter(opts...)
	require.NoError(t, err)
	return splitter
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	splitter := newTestSplitter(t)

	chunks := splitter.Split("a short paragraph that fits in one chunk")

	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph that fits in one chunk", chunks[0])
}

func TestSplitEmptyText(t *testing.T) {
	splitter := newTestSplitter(t)
	assert.Nil(t, splitter.Split(""))
	assert.Nil(t, splitter.Split("   \n\n  "))
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	splitter := newTestSplitter(t, WithChunkSize(20), WithChunkOverlap(0))

	first := "the first paragraph talks about apples and orchards in autumn"
	second := "the second paragraph talks about rivers and bridges in winter"
	chunks := splitter.Split(first + "\n\n" + second)

	require.Len(t, chunks, 2)
	assert.Equal(t, first, chunks[0])
	assert.Equal(t, second, chunks[1])
}

func TestSplitBoundsChunkSize(t *testing.T) {
	splitter := newTestSplitter(t, WithChunkSize(12), WithChunkOverlap(0))

	words := strings.Repeat("word ", 100)
	chunks := splitter.Split(strings.TrimSpace(words))

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, splitter.length(chunk), splitter.chunkSize)
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitKeepsAllContent(t *testing.T) {
	splitter := newTestSplitter(t, WithChunkSize(15), WithChunkOverlap(0))

	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa " +
		"lambda mu nu xi omicron pi rho sigma tau upsilon"
	chunks := splitter.Split(text)

	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, word)
	}
}

func TestSplitOverlapCarriesContext(t *testing.T) {
	splitter := newTestSplitter(t, WithChunkSize(10), WithChunkOverlap(4))

	text := "one two three four five six seven eight nine ten " +
		"eleven twelve thirteen fourteen fifteen sixteen"
	chunks := splitter.Split(text)
	require.Greater(t, len(chunks), 1)

	// Each chunk after the first repeats trailing words of its predecessor
	for i := 1; i < len(chunks); i++ {
		firstWord := strings.Fields(chunks[i])[0]
		assert.Contains(t, chunks[i-1], firstWord)
	}
}

func TestSplitterOverlapCappedBelowSize(t *testing.T) {
	splitter := newTestSplitter(t, WithChunkSize(10), WithChunkOverlap(50))
	assert.Less(t, splitter.chunkOverlap, splitter.chunkSize)
}
