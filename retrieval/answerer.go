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


package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
)

// NoRelevantInformation is the defined answer for an empty retrieval
// result. It is a terminal outcome, not a failure.
const NoRelevantInformation = "No relevant information found in the knowledge base."

// contextSeparator joins retrieved chunks in the prompt context block.
const contextSeparator = "\n\n---\n\n"

// Answerer wraps the retrieval pipeline with answer synthesis. Its
// QueryWithCitations contract never returns an error: every failure mode
// collapses into a descriptive answer string so the tool layer always
// receives text.
type Answerer struct {
	retriever *Retriever
	completer ai.Completer
	logger    *slog.Logger
}

// NewAnswerer creates an answerer over the given retriever and completer.
func NewAnswerer(retriever *Retriever, completer ai.Completer) (*Answerer, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	return &Answerer{
		retriever: retriever,
		completer: completer,
		logger:    slog.Default().With("component", "answerer"),
	}, nil
}

// QueryWithCitations retrieves context for the question, asks the language
// model to answer from it, and returns the answer with citations and
// timing. Retrieval and LLM failures are logged and converted into
// descriptive answer strings.
func (a *Answerer) QueryWithCitations(ctx context.Context, req core.RetrievalRequest) core.Answer {
	start := time.Now()

	chunks, err := a.retriever.Retrieve(ctx, req)
	retrievalTime := time.Since(start)
	if err != nil {
		a.logger.Error("retrieval failed", "question", req.Question, "err", err)
		return core.Answer{
			Answer: fmt.Sprintf("Error retrieving information: %v", err),
			Timing: core.Timing{Retrieval: retrievalTime, Total: time.Since(start)},
		}
	}

	if len(chunks) == 0 {
		return core.Answer{
			Answer: NoRelevantInformation,
			Timing: core.Timing{Retrieval: retrievalTime, Total: time.Since(start)},
		}
	}

	prompt := buildAnswerPrompt(formatContext(chunks), req.Question)

	llmStart := time.Now()
	answer, err := a.completer.Complete(ctx, prompt)
	llmTime := time.Since(llmStart)
	if err != nil {
		a.logger.Error("answer generation failed", "question", req.Question, "err", err)
		return core.Answer{
			Answer: fmt.Sprintf("Error generating answer: %v", err),
			Timing: core.Timing{Retrieval: retrievalTime, LLM: llmTime, Total: time.Since(start)},
		}
	}

	return core.Answer{
		Answer:     answer,
		Citations:  buildCitations(chunks),
		ChunkCount: len(chunks),
		Timing: core.Timing{
			Retrieval: retrievalTime,
			LLM:       llmTime,
			Total:     time.Since(start),
		},
	}
}

// formatContext renders retrieved chunks into a context block with
// numbered citation headers.
func formatContext(chunks []*core.ScoredChunk) string {
	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		fileName := c.Chunk.Metadata[core.MetaFileName]
		if fileName == "" {
			fileName = "Unknown"
		}
		citation := fmt.Sprintf("[Source %d: %s", i+1, fileName)
		if page := c.Chunk.Metadata[core.MetaPage]; page != "" {
			citation += fmt.Sprintf(", Page %s", page)
		}
		citation += "]"

		parts = append(parts, citation+"\n"+c.Chunk.Content)
	}
	return strings.Join(parts, contextSeparator)
}

// buildCitations extracts source references from retrieved chunks.
func buildCitations(chunks []*core.ScoredChunk) []core.Citation {
	citations := make([]core.Citation, 0, len(chunks))
	for _, c := range chunks {
		source := c.Chunk.Metadata[core.MetaFileName]
		if source == "" {
			source = "Unknown"
		}
		citations = append(citations, core.Citation{
			Source: source,
			Page:   c.Chunk.Metadata[core.MetaPage],
		})
	}
	return citations
}
