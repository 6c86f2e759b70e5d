package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
)

type dateExtractionResponse struct {
	DateStart *string `json:"date_start"`
	DateEnd   *string `json:"date_end"`
}

// extractDateRange asks the model whether the query names a time period and
// converts it to a date range. Every failure mode is soft: extraction
// problems are logged and retrieval proceeds without temporal filtering.
func extractDateRange(ctx context.Context, completer ai.Completer, query, conversation string, now time.Time, logger *slog.Logger) *core.DateRange {
	raw, err := completer.CompleteJSON(ctx, buildDateExtractionPrompt(query, conversation, now))
	if err != nil {
		logger.Warn("date extraction failed, proceeding without date filtering", "err", err)
		return nil
	}

	var parsed dateExtractionResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Warn("error parsing date extraction response", "response", raw, "err", err)
		return nil
	}

	var dr core.DateRange
	if parsed.DateStart != nil && *parsed.DateStart != "" {
		ts, err := core.ParseISODate(*parsed.DateStart)
		if err != nil {
			logger.Warn("unparsable extracted start date", "value", *parsed.DateStart)
		} else {
			dr.Start = ts
		}
	}
	if parsed.DateEnd != nil && *parsed.DateEnd != "" {
		ts, err := core.ParseISODate(*parsed.DateEnd)
		if err != nil {
			logger.Warn("unparsable extracted end date", "value", *parsed.DateEnd)
		} else {
			dr.End = ts
		}
	}

	if dr.IsZero() {
		return nil
	}
	if !dr.Start.IsZero() && !dr.End.IsZero() && dr.Start.After(dr.End) {
		logger.Warn("extracted inverted date range, ignoring",
			"start", dr.Start, "end", dr.End)
		return nil
	}
	return &dr
}
