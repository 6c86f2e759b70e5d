package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/answerit/ai"
)

// synthesize combines tool outputs into one answer. When the model is
// unavailable the raw tool results are returned concatenated, so the user
// still sees what the tools found.
func synthesize(ctx context.Context, completer ai.Completer, query string, results map[string]string, logger *slog.Logger) string {
	formatted := formatToolResults(results)

	// A single tool result needs no synthesis pass
	if len(results) == 1 {
		for _, result := range results {
			return result
		}
	}

	answer, err := completer.Complete(ctx, buildSynthesisPrompt(query, formatted))
	if err != nil {
		logger.Warn("synthesis failed, returning raw tool results", "err", err)
		return formatted
	}
	return answer
}

// formatToolResults renders the result map deterministically, sorted by
// tool name.
func formatToolResults(results map[string]string) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "=== %s ===\n%s", name, results[name])
	}
	return sb.String()
}
