// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

const defaultHistoryLimit = 10

// cannedDirectAnswer is returned when even the direct-answer path fails.
const cannedDirectAnswer = "I'm here to help! What would you like to know?"

// Agent answers user turns: it decides which tools a query needs, runs
// them in parallel, and synthesizes their outputs into one reply. The
// user always receives a natural-language string, even under total
// collaborator failure.
type Agent struct {
	decider      *Decider
	executor     *Executor
	tools        map[string]Tool
	completer    ai.Completer
	sessions     storage.SessionRepository
	historyLimit int
	now          func() time.Time
	logger       *slog.Logger
}

// AgentOption configures an Agent.
type AgentOption func(*Agent) error

// WithSessionRepository enables conversation memory. Without it the agent
// treats every turn as independent.
func WithSessionRepository(sessions storage.SessionRepository) AgentOption {
	return func(a *Agent) error {
		a.sessions = sessions
		return nil
	}
}

// WithAgentLogger sets a custom logger.
// Default is slog.Default().
func WithAgentLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithHistoryLimit sets how many recent messages feed decision context.
func WithHistoryLimit(limit int) AgentOption {
	return func(a *Agent) error {
		if limit > 0 {
			a.historyLimit = limit
		}
		return nil
	}
}

// NewAgent creates an agent over the given tools.
func NewAgent(completer ai.Completer, tools []Tool, opts ...AgentOption) (*Agent, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if len(tools) == 0 {
		return nil, ErrNoToolsRegistered
	}

	registry := make(map[string]Tool, len(tools))
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		registry[tool.Name()] = tool
		names = append(names, tool.Name())
	}

	decider, err := NewDecider(completer, names)
	if err != nil {
		return nil, err
	}
	executor, err := NewExecutor(len(tools))
	if err != nil {
		return nil, err
	}

	a := &Agent{
		decider:      decider,
		executor:     executor,
		tools:        registry,
		completer:    completer,
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
		logger:       slog.Default().With("component", "agent"),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			executor.Close()
			return nil, err
		}
	}
	return a, nil
}

// Close releases the agent's worker pool.
func (a *Agent) Close() error {
	return a.executor.Close()
}

// Ask answers one user turn. The sessionID scopes conversation memory;
// an empty sessionID disables it for this turn.
func (a *Agent) Ask(ctx context.Context, sessionID, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", core.ErrInvalidRequest)
	}

	conversation := a.loadConversation(ctx, sessionID)

	decision := a.decider.Decide(ctx, query, conversation)
	a.logger.Info("decision made",
		"status", decision.Status,
		"direct", decision.DirectAnswer,
		"tools", decision.Tools,
		"confidence", decision.Confidence)

	var answer string
	if decision.DirectAnswer {
		answer = a.answerDirectly(ctx, query)
	} else {
		answer = a.answerWithTools(ctx, query, conversation, decision.Tools)
	}

	a.remember(ctx, sessionID, query, answer)
	return answer, nil
}

func (a *Agent) answerDirectly(ctx context.Context, query string) string {
	answer, err := a.completer.Complete(ctx, query)
	if err != nil {
		a.logger.Warn("direct answer failed", "err", err)
		return cannedDirectAnswer
	}
	return answer
}

func (a *Agent) answerWithTools(ctx context.Context, query, conversation string, toolNames []string) string {
	input := ToolInput{
		Query:               query,
		ConversationContext: conversation,
	}

	selected := make([]Tool, 0, len(toolNames))
	for _, name := range toolNames {
		tool, ok := a.tools[name]
		if !ok {
			a.logger.Warn("selected tool not registered", "tool", name)
			continue
		}
		selected = append(selected, tool)

		if name == ToolDocumentSearch {
			input.DateRange = extractDateRange(ctx, a.completer, query, conversation, a.now(), a.logger)
		}
	}

	if len(selected) == 0 {
		return cannedDirectAnswer
	}

	results := a.executor.Execute(ctx, selected, input)
	return synthesize(ctx, a.completer, query, results, a.logger)
}

// loadConversation renders recent session history for decision context.
func (a *Agent) loadConversation(ctx context.Context, sessionID string) string {
	if a.sessions == nil || sessionID == "" {
		return ""
	}

	messages, err := a.sessions.RecentMessages(ctx, sessionID, a.historyLimit)
	if err != nil {
		a.logger.Warn("failed to load session history", "session", sessionID, "err", err)
		return ""
	}

	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		speaker := "User"
		if msg.Role == core.RoleAssistant {
			speaker = "Assistant"
		}
		sb.WriteString(speaker)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}
	return sb.String()
}

// remember appends the turn to session memory. Persistence failures are
// logged, never surfaced.
func (a *Agent) remember(ctx context.Context, sessionID, query, answer string) {
	if a.sessions == nil || sessionID == "" {
		return
	}

	now := a.now().UTC()
	if err := a.sessions.AppendMessage(ctx, sessionID, core.Message{
		Role: core.RoleUser, Content: query, Timestamp: now,
	}); err != nil {
		a.logger.Warn("failed to persist user message", "err", err)
		return
	}
	if err := a.sessions.AppendMessage(ctx, sessionID, core.Message{
		Role: core.RoleAssistant, Content: answer, Timestamp: now,
	}); err != nil {
		a.logger.Warn("failed to persist assistant message", "err", err)
	}
}
