package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage/badger"
)

// scriptedCompleter routes JSON-mode prompts by content so one mock can
// serve the decision, date extraction and SQL steps of a full turn.
func scriptedCompleter(decisionJSON, dateJSON string) *mock.MockCompleter {
	completer := mock.NewMockCompleter()
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "Extract a date range") {
			return dateJSON, nil
		}
		return decisionJSON, nil
	}
	return completer
}

func newTestAgent(t *testing.T, completer *mock.MockCompleter, tools []Tool, opts ...AgentOption) *Agent {
	t.Helper()
	agent, err := NewAgent(completer, tools, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { agent.Close() })
	return agent
}

func TestAskDirectAnswer(t *testing.T) {
	completer := scriptedCompleter(
		`{"reasoning": "greeting", "confidence": 0.9, "direct_answer": true, "tool_calls": []}`, "")
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Hello! How can I help?", nil
	}

	agent := newTestAgent(t, completer, []Tool{&fakeTool{name: ToolDocumentSearch}})

	answer, err := agent.Ask(context.Background(), "", "hi there")
	require.NoError(t, err)
	assert.Equal(t, "Hello! How can I help?", answer)
}

func TestAskDirectAnswerFailureReturnsCannedReply(t *testing.T) {
	completer := scriptedCompleter(
		`{"reasoning": "greeting", "confidence": 0.9, "direct_answer": true, "tool_calls": []}`, "")
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("model down")
	}

	agent := newTestAgent(t, completer, []Tool{&fakeTool{name: ToolDocumentSearch}})

	answer, err := agent.Ask(context.Background(), "", "hi there")
	require.NoError(t, err)
	assert.Equal(t, cannedDirectAnswer, answer)
}

func TestAskSingleToolTurn(t *testing.T) {
	completer := scriptedCompleter(
		`{"reasoning": "docs", "confidence": 0.9, "direct_answer": false,
		  "tool_calls": [{"tool_name": "document_search", "reasoning": "docs", "confidence": 0.9}]}`,
		`{"date_start": null, "date_end": null}`)

	search := &fakeTool{name: ToolDocumentSearch, invoke: func(ctx context.Context, input ToolInput) (string, error) {
		return "The refund policy allows 30 days.", nil
	}}
	agent := newTestAgent(t, completer, []Tool{search})

	answer, err := agent.Ask(context.Background(), "", "what is the refund policy?")
	require.NoError(t, err)

	// A single tool result is returned without a synthesis pass
	assert.Equal(t, "The refund policy allows 30 days.", answer)
}

func TestAskMultiToolTurnSynthesizes(t *testing.T) {
	completer := scriptedCompleter(
		`{"reasoning": "spans sources", "confidence": 0.9, "direct_answer": false,
		  "tool_calls": [
			{"tool_name": "document_search", "reasoning": "docs", "confidence": 0.9},
			{"tool_name": "web_search", "reasoning": "current", "confidence": 0.8}]}`,
		`{"date_start": null, "date_end": null}`)
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Synthesized answer.", nil
	}

	tools := []Tool{
		&fakeTool{name: ToolDocumentSearch},
		&fakeTool{name: ToolWebSearch},
	}
	agent := newTestAgent(t, completer, tools)

	answer, err := agent.Ask(context.Background(), "", "check everywhere for acme news")
	require.NoError(t, err)
	assert.Equal(t, "Synthesized answer.", answer)
}

func TestAskPassesDateRangeToDocumentSearch(t *testing.T) {
	completer := scriptedCompleter(
		`{"reasoning": "docs", "confidence": 0.9, "direct_answer": false,
		  "tool_calls": [{"tool_name": "document_search", "reasoning": "docs", "confidence": 0.9}]}`,
		`{"date_start": "2024-10-01", "date_end": "2024-12-31"}`)

	var got ToolInput
	search := &fakeTool{name: ToolDocumentSearch, invoke: func(ctx context.Context, input ToolInput) (string, error) {
		got = input
		return "ok", nil
	}}
	agent := newTestAgent(t, completer, []Tool{search})

	_, err := agent.Ask(context.Background(), "", "revenue in Q4 2024")
	require.NoError(t, err)

	require.NotNil(t, got.DateRange)
	assert.Equal(t, 2024, got.DateRange.Start.Year())
	assert.Equal(t, 12, int(got.DateRange.End.Month()))
}

func TestAskUnregisteredSelectedTool(t *testing.T) {
	completer := scriptedCompleter(
		`{"reasoning": "docs", "confidence": 0.9, "direct_answer": false,
		  "tool_calls": [{"tool_name": "web_search", "reasoning": "web", "confidence": 0.9}]}`, "")

	// web_search is known to the decider only when registered; register a
	// different tool so the selection cannot be honored
	agent := newTestAgent(t, completer, []Tool{&fakeTool{name: ToolDocumentSearch}})

	answer, err := agent.Ask(context.Background(), "", "search the web for acme")
	require.NoError(t, err)
	assert.NotEmpty(t, answer)
}

func TestAskEmptyQuery(t *testing.T) {
	agent := newTestAgent(t, mock.NewMockCompleter(), []Tool{&fakeTool{name: ToolDocumentSearch}})

	_, err := agent.Ask(context.Background(), "", "   ")
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
}

func TestAskPersistsSessionHistory(t *testing.T) {
	_, sessions, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	completer := scriptedCompleter(
		`{"reasoning": "greeting", "confidence": 0.9, "direct_answer": true, "tool_calls": []}`, "")
	completer.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
		return "Hi!", nil
	}

	agent := newTestAgent(t, completer, []Tool{&fakeTool{name: ToolDocumentSearch}},
		WithSessionRepository(sessions))

	_, err = agent.Ask(context.Background(), "session-1", "hello")
	require.NoError(t, err)

	messages, err := sessions.RecentMessages(context.Background(), "session-1", 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, core.RoleUser, messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, core.RoleAssistant, messages[1].Role)
	assert.Equal(t, "Hi!", messages[1].Content)
}

func TestAskFeedsHistoryIntoDecision(t *testing.T) {
	_, sessions, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	require.NoError(t, sessions.AppendMessage(context.Background(), "session-2", core.Message{
		Role: core.RoleUser, Content: "tell me about acme corp",
	}))

	completer := mock.NewMockCompleter()
	var seenPrompt string
	completer.CompleteJSONFunc = func(ctx context.Context, prompt string) (string, error) {
		seenPrompt = prompt
		return `{"reasoning": "greeting", "confidence": 0.9, "direct_answer": true, "tool_calls": []}`, nil
	}

	agent := newTestAgent(t, completer, []Tool{&fakeTool{name: ToolDocumentSearch}},
		WithSessionRepository(sessions))

	_, err = agent.Ask(context.Background(), "session-2", "what do they sell?")
	require.NoError(t, err)

	assert.Contains(t, seenPrompt, "tell me about acme corp")
}

func TestNewAgentValidation(t *testing.T) {
	_, err := NewAgent(nil, []Tool{&fakeTool{name: "x"}})
	assert.ErrorIs(t, err, ErrCompleterRequired)

	_, err = NewAgent(mock.NewMockCompleter(), nil)
	assert.ErrorIs(t, err, ErrNoToolsRegistered)
}
