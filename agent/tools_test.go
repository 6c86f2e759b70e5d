package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/retrieval"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
)

// newTestAnswerer wires a retrieval answerer over in-memory storage and
// mock AI services. The mock embedder is deterministic, so storing a
// chunk with the embedding of its own content makes it retrievable by
// that content.
func newTestAnswerer(t *testing.T, completer *mock.MockCompleter) (*retrieval.Answerer, storage.ChunkRepository, *mock.MockEmbedder) {
	t.Helper()

	chunkRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedder()
	provider := mock.NewMockProviderWithServices(embedder, completer, nil)

	retriever, err := retrieval.NewRetriever(chunkRepo, provider)
	require.NoError(t, err)
	answerer, err := retrieval.NewAnswerer(retriever, completer)
	require.NoError(t, err)

	return answerer, chunkRepo, embedder
}

func TestDocumentSearchToolAppendsSources(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "The handbook covers onboarding.", nil
	}
	answerer, chunkRepo, embedder := newTestAnswerer(t, completer)

	content := "onboarding takes two weeks"
	vector, err := embedder.EmbedText(context.Background(), content)
	require.NoError(t, err)
	_, err = chunkRepo.AddChunks(context.Background(), &core.Chunk{
		Content:  content,
		Vector:   vector,
		Metadata: map[string]string{core.MetaFileName: "handbook.pdf", core.MetaPage: "3"},
	})
	require.NoError(t, err)

	tool, err := NewDocumentSearchTool(answerer, 5, false)
	require.NoError(t, err)
	assert.Equal(t, ToolDocumentSearch, tool.Name())

	result, err := tool.Invoke(context.Background(), ToolInput{Query: content})
	require.NoError(t, err)

	assert.Contains(t, result, "The handbook covers onboarding.")
	assert.Contains(t, result, "Sources:")
	assert.Contains(t, result, "handbook.pdf, page 3")
}

func TestDocumentSearchToolEmptyCorpus(t *testing.T) {
	answerer, _, _ := newTestAnswerer(t, mock.NewMockCompleter())

	tool, err := NewDocumentSearchTool(answerer, 5, false)
	require.NoError(t, err)

	result, err := tool.Invoke(context.Background(), ToolInput{Query: "anything"})
	require.NoError(t, err)

	assert.Equal(t, retrieval.NoRelevantInformation, result)
	assert.NotContains(t, result, "Sources:")
}

func TestNewDocumentSearchToolRequiresAnswerer(t *testing.T) {
	_, err := NewDocumentSearchTool(nil, 5, false)
	assert.ErrorIs(t, err, ErrAnswererRequired)
}

func TestWebSearchToolPrependsConversation(t *testing.T) {
	searcher := mock.NewMockWebSearcher()
	var seenQuery string
	searcher.SearchFunc = func(ctx context.Context, query string) (string, error) {
		seenQuery = query
		return "results", nil
	}

	tool := NewWebSearchTool(searcher)
	assert.Equal(t, ToolWebSearch, tool.Name())

	result, err := tool.Invoke(context.Background(), ToolInput{
		Query:               "their latest release",
		ConversationContext: "User: tell me about acme",
	})
	require.NoError(t, err)

	assert.Equal(t, "results", result)
	assert.Contains(t, seenQuery, "User: tell me about acme")
	assert.Contains(t, seenQuery, "their latest release")
}

func TestWebSearchToolUnconfigured(t *testing.T) {
	tool := NewWebSearchTool(nil)
	_, err := tool.Invoke(context.Background(), ToolInput{Query: "q"})
	assert.Error(t, err)
}

func TestWebSearchToolPropagatesError(t *testing.T) {
	searcher := mock.NewMockWebSearcher()
	searcher.SearchFunc = func(ctx context.Context, query string) (string, error) {
		return "", errors.New("rate limited")
	}

	tool := NewWebSearchTool(searcher)
	_, err := tool.Invoke(context.Background(), ToolInput{Query: "q"})
	assert.Error(t, err)
}
