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
	"encoding/json"
	"log/slog"

	"github.com/poiesic/answerit/ai"
)

const (
	// minToolConfidence filters out tool calls the model is unsure about.
	minToolConfidence = 0.5

	// directAnswerConfidence is the bar for skipping tools entirely.
	directAnswerConfidence = 0.7

	decisionAttempts = 2
)

// DecisionStatus tags how a decision was reached.
type DecisionStatus string

const (
	// DecisionSuccess means the model produced a well-formed decision.
	DecisionSuccess DecisionStatus = "success"

	// DecisionDegraded means the model's decision was unusable and the
	// agent fell back to its default tool selection.
	DecisionDegraded DecisionStatus = "degraded"
)

// Decision is the normalized outcome of the tool-selection step.
type Decision struct {
	Status       DecisionStatus
	DirectAnswer bool
	Tools        []string
	Reasoning    string
	Confidence   float64
}

// toolCall and decisionResponse mirror the JSON shape the model returns.
type toolCall struct {
	ToolName   string  `json:"tool_name"`
	Reasoning  string  `json:"reasoning"`
	Confidence float64 `json:"confidence"`
}

type decisionResponse struct {
	Reasoning    string     `json:"reasoning"`
	Confidence   float64    `json:"confidence"`
	DirectAnswer bool       `json:"direct_answer"`
	ToolCalls    []toolCall `json:"tool_calls"`
}

// Decider chooses which tools a query needs.
type Decider struct {
	completer ai.Completer
	known     map[string]bool
	logger    *slog.Logger
}

// NewDecider creates a decider over the registered tool names.
func NewDecider(completer ai.Completer, toolNames []string) (*Decider, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	known := make(map[string]bool, len(toolNames))
	for _, name := range toolNames {
		known[name] = true
	}
	return &Decider{
		completer: completer,
		known:     known,
		logger:    slog.Default().With("component", "decider"),
	}, nil
}

// Decide asks the model for a tool-selection decision. Malformed responses
// are retried once; if no usable decision emerges the result degrades to
// the document search tool rather than failing the turn.
func (d *Decider) Decide(ctx context.Context, query, conversation string) Decision {
	prompt := buildDecisionPrompt(query, conversation)

	var parsed decisionResponse
	parsedOK := false
	for attempt := 0; attempt < decisionAttempts; attempt++ {
		raw, err := d.completer.CompleteJSON(ctx, prompt)
		if err != nil {
			d.logger.Warn("decision request failed", "attempt", attempt+1, "err", err)
			continue
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			d.logger.Warn("error parsing decision response",
				"attempt", attempt+1,
				"response", raw,
				"err", err)
			continue
		}
		parsedOK = true
		break
	}

	if !parsedOK {
		return d.fallback()
	}

	if parsed.DirectAnswer && parsed.Confidence > directAnswerConfidence {
		return Decision{
			Status:       DecisionSuccess,
			DirectAnswer: true,
			Reasoning:    parsed.Reasoning,
			Confidence:   parsed.Confidence,
		}
	}

	// Filter by confidence, drop unknown tools, keep first occurrence only
	seen := make(map[string]bool)
	var tools []string
	for _, tc := range parsed.ToolCalls {
		if tc.Confidence <= minToolConfidence || seen[tc.ToolName] {
			continue
		}
		if !d.known[tc.ToolName] {
			d.logger.Warn("decision referenced unknown tool", "tool", tc.ToolName)
			continue
		}
		seen[tc.ToolName] = true
		tools = append(tools, tc.ToolName)
	}

	if len(tools) == 0 {
		// A low-confidence direct answer with no surviving tools still
		// needs to go somewhere
		return d.fallback()
	}

	return Decision{
		Status:     DecisionSuccess,
		Tools:      tools,
		Reasoning:  parsed.Reasoning,
		Confidence: parsed.Confidence,
	}
}

func (d *Decider) fallback() Decision {
	d.logger.Debug("falling back to default tool selection")
	if d.known[ToolDocumentSearch] {
		return Decision{
			Status:    DecisionDegraded,
			Tools:     []string{ToolDocumentSearch},
			Reasoning: "fallback: decision unusable, defaulting to document search",
		}
	}
	return Decision{
		Status:       DecisionDegraded,
		DirectAnswer: true,
		Reasoning:    "fallback: decision unusable and no document search registered",
	}
}
