package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLMHost)
	assert.Empty(t, cfg.RerankHost)
	assert.Equal(t, "none", cfg.APIToken)
	require.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://remote:8080"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithLLMModel("gpt-4o-mini"),
		WithAPIToken("secret"),
		WithEmbeddingRPS(2.5),
	)
	assert.Equal(t, "http://remote:8080", cfg.EmbeddingHost)
	assert.Equal(t, "http://remote:8080", cfg.LLMHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.LLMModel)
	assert.Equal(t, "secret", cfg.APIToken)
	assert.Equal(t, 2.5, cfg.EmbeddingRPS)
}

func TestNormalizeAddsV1Suffix(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:11434/"))
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLMHost)
	assert.Empty(t, cfg.RerankHost)
}

func TestNormalizeIdempotent(t *testing.T) {
	cfg := NewConfig(WithHost("http://localhost:11434/v1"))
	cfg.Normalize()
	cfg.Normalize()
	assert.Equal(t, "http://localhost:11434/v1", cfg.LLMHost)
}

func TestValidateMissingFields(t *testing.T) {
	t.Run("missing embedding model", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingModel = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing llm host", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LLMHost = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rerank host without model", func(t *testing.T) {
		cfg := NewConfig(WithRerankHost("http://localhost:8000"))
		assert.Error(t, cfg.Validate())
	})

	t.Run("rerank host with model", func(t *testing.T) {
		cfg := NewConfig(
			WithRerankHost("http://localhost:8000"),
			WithRerankModel("rerank-english-v3.0"),
		)
		assert.NoError(t, cfg.Validate())
	})
}
