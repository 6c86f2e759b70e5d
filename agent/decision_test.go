package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/ai/mock"
)

func newTestDecider(t *testing.T, completer *mock.MockCompleter) *Decider {
	t.Helper()
	decider, err := NewDecider(completer, []string{ToolDocumentSearch, ToolWebSearch, ToolDatabaseQuery})
	require.NoError(t, err)
	return decider
}

func TestDecideDirectAnswer(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{"reasoning": "greeting", "confidence": 0.95, "direct_answer": true, "tool_calls": []}`, nil
	}
	decider := newTestDecider(t, completer)

	decision := decider.Decide(context.Background(), "hello there", "")

	assert.Equal(t, DecisionSuccess, decision.Status)
	assert.True(t, decision.DirectAnswer)
	assert.Empty(t, decision.Tools)
	assert.Equal(t, 0.95, decision.Confidence)
}

func TestDecideSelectsTools(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{
			"reasoning": "spans sources",
			"confidence": 0.9,
			"direct_answer": false,
			"tool_calls": [
				{"tool_name": "document_search", "reasoning": "docs", "confidence": 0.9},
				{"tool_name": "web_search", "reasoning": "current", "confidence": 0.8}
			]
		}`, nil
	}
	decider := newTestDecider(t, completer)

	decision := decider.Decide(context.Background(), "search all sources for pricing", "")

	assert.Equal(t, DecisionSuccess, decision.Status)
	assert.False(t, decision.DirectAnswer)
	assert.Equal(t, []string{ToolDocumentSearch, ToolWebSearch}, decision.Tools)
}

func TestDecideFiltersLowConfidenceAndDuplicates(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{
			"reasoning": "mixed quality",
			"confidence": 0.8,
			"direct_answer": false,
			"tool_calls": [
				{"tool_name": "document_search", "reasoning": "docs", "confidence": 0.9},
				{"tool_name": "document_search", "reasoning": "again", "confidence": 0.85},
				{"tool_name": "web_search", "reasoning": "unsure", "confidence": 0.3},
				{"tool_name": "teleport", "reasoning": "invented", "confidence": 0.99}
			]
		}`, nil
	}
	decider := newTestDecider(t, completer)

	decision := decider.Decide(context.Background(), "what are the products?", "")

	assert.Equal(t, []string{ToolDocumentSearch}, decision.Tools)
}

func TestDecideLowConfidenceDirectAnswerFallsBack(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		return `{"reasoning": "maybe", "confidence": 0.4, "direct_answer": true, "tool_calls": []}`, nil
	}
	decider := newTestDecider(t, completer)

	decision := decider.Decide(context.Background(), "what is the refund policy?", "")

	assert.Equal(t, DecisionDegraded, decision.Status)
	assert.Equal(t, []string{ToolDocumentSearch}, decision.Tools)
}

func TestDecideRetriesMalformedResponse(t *testing.T) {
	completer := mock.NewMockCompleter()
	calls := 0
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "not json at all", nil
		}
		return `{"reasoning": "ok", "confidence": 0.9, "direct_answer": true, "tool_calls": []}`, nil
	}
	decider := newTestDecider(t, completer)

	decision := decider.Decide(context.Background(), "hi", "")

	assert.Equal(t, 2, calls)
	assert.Equal(t, DecisionSuccess, decision.Status)
	assert.True(t, decision.DirectAnswer)
}

func TestDecideDegradesWhenModelUnavailable(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("connection refused")
	}
	decider := newTestDecider(t, completer)

	decision := decider.Decide(context.Background(), "what is the roadmap?", "")

	assert.Equal(t, DecisionDegraded, decision.Status)
	assert.False(t, decision.DirectAnswer)
	assert.Equal(t, []string{ToolDocumentSearch}, decision.Tools)
}

func TestDecideFallbackWithoutDocumentSearch(t *testing.T) {
	completer := mock.NewMockCompleter()
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("connection refused")
	}
	decider, err := NewDecider(completer, []string{ToolWebSearch})
	require.NoError(t, err)

	decision := decider.Decide(context.Background(), "anything", "")

	assert.Equal(t, DecisionDegraded, decision.Status)
	assert.True(t, decision.DirectAnswer)
	assert.Empty(t, decision.Tools)
}

func TestNewDeciderRequiresCompleter(t *testing.T) {
	_, err := NewDecider(nil, []string{ToolDocumentSearch})
	assert.ErrorIs(t, err, ErrCompleterRequired)
}
