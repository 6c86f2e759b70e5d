package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/retrieval"
)

// Canonical tool names the decision layer can select.
const (
	ToolDocumentSearch = "document_search"
	ToolWebSearch      = "web_search"
	ToolDatabaseQuery  = "database_query"
)

// ToolInput carries the per-turn arguments shared by all tools.
type ToolInput struct {
	Query string

	// ConversationContext is the tail of the session transcript, used by
	// tools that benefit from resolving references like "they" or "it".
	ConversationContext string

	// DateRange is populated by date extraction when the document search
	// tool is selected and the query names a time period.
	DateRange *core.DateRange
}

// Tool is an invocable capability of the agent. Tools return a text result;
// failures are returned as errors and converted to per-tool error strings
// by the executor, never aborting sibling tools.
type Tool interface {
	Name() string
	Invoke(ctx context.Context, input ToolInput) (string, error)
}

// DocumentSearchTool answers from the ingested document corpus via the
// retrieval pipeline.
type DocumentSearchTool struct {
	answerer *retrieval.Answerer
	k        int
	rerank   bool
}

// NewDocumentSearchTool creates the corpus retrieval tool.
func NewDocumentSearchTool(answerer *retrieval.Answerer, k int, rerank bool) (*DocumentSearchTool, error) {
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if k <= 0 {
		k = core.DefaultK
	}
	return &DocumentSearchTool{answerer: answerer, k: k, rerank: rerank}, nil
}

func (t *DocumentSearchTool) Name() string { return ToolDocumentSearch }

// Invoke runs a citation-bearing retrieval query. The answer contract never
// errors, so neither does this tool.
func (t *DocumentSearchTool) Invoke(ctx context.Context, input ToolInput) (string, error) {
	answer := t.answerer.QueryWithCitations(ctx, core.RetrievalRequest{
		Question:     input.Query,
		K:            t.k,
		DateRange:    input.DateRange,
		RecencyBoost: true,
		HybridAlpha:  0.5,
		Rerank:       t.rerank,
	})

	if len(answer.Citations) == 0 {
		return answer.Answer, nil
	}

	var sb strings.Builder
	sb.WriteString(answer.Answer)
	sb.WriteString("\n\nSources:\n")
	for _, c := range answer.Citations {
		sb.WriteString("- ")
		sb.WriteString(c.Source)
		if c.Page != "" {
			fmt.Fprintf(&sb, ", page %s", c.Page)
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// WebSearchTool runs a web search through the configured searcher.
type WebSearchTool struct {
	searcher ai.WebSearcher
}

// NewWebSearchTool creates the web search tool.
func NewWebSearchTool(searcher ai.WebSearcher) *WebSearchTool {
	return &WebSearchTool{searcher: searcher}
}

func (t *WebSearchTool) Name() string { return ToolWebSearch }

func (t *WebSearchTool) Invoke(ctx context.Context, input ToolInput) (string, error) {
	if t.searcher == nil {
		return "", fmt.Errorf("web search is not configured")
	}
	query := input.Query
	if input.ConversationContext != "" {
		query = input.ConversationContext + "\n\n" + input.Query
	}
	return t.searcher.Search(ctx, query)
}
