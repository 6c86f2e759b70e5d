package retrieval

import (
	"testing"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datedScored(id core.ID, contentDate string, hybrid float64) *core.ScoredChunk {
	chunk := &core.Chunk{Id: id, Content: "text", Metadata: map[string]string{}}
	if contentDate != "" {
		chunk.Metadata[core.MetaContentDate] = contentDate
	}
	return &core.ScoredChunk{Chunk: chunk, HybridScore: hybrid, FinalScore: hybrid}
}

func TestApplyTemporal_DateFilter(t *testing.T) {
	dateRange := &core.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	candidates := []*core.ScoredChunk{
		datedScored(1, "2024-01-01", 0.9),
		datedScored(2, "2024-06-01", 0.8),
		datedScored(3, "2025-01-01", 0.99),
	}

	results := applyTemporal(candidates, dateRange, false, time.Now(), 10)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(1), results[0].Chunk.Id)
	assert.Equal(t, core.ID(2), results[1].Chunk.Id)
}

func TestApplyTemporal_UndatedChunksPenalizedAndDemoted(t *testing.T) {
	dateRange := &core.DateRange{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	candidates := []*core.ScoredChunk{
		datedScored(1, "", 1.0),          // undated, highest hybrid
		datedScored(2, "2024-06-01", 0.5), // in range
		datedScored(3, "not-a-date", 0.9), // unparsable
	}

	results := applyTemporal(candidates, dateRange, false, time.Now(), 10)
	require.Len(t, results, 3)

	// In-range chunk first despite lower hybrid score
	assert.Equal(t, core.ID(2), results[0].Chunk.Id)
	assert.Equal(t, core.ID(1), results[1].Chunk.Id)
	assert.Equal(t, core.ID(3), results[2].Chunk.Id)

	// Penalty applied to the demoted chunks
	assert.InDelta(t, 0.8, results[1].FinalScore, 1e-9)
	assert.InDelta(t, 0.72, results[2].FinalScore, 1e-9)
}

func TestApplyTemporal_MetadataGapFallback(t *testing.T) {
	dateRange := &core.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	candidates := []*core.ScoredChunk{
		datedScored(1, "2020-03-01", 0.9),
		datedScored(2, "2026-07-01", 0.8),
		datedScored(3, "", 0.4),
	}

	results := applyTemporal(candidates, dateRange, false, time.Now(), 10)
	require.Len(t, results, 1)
	assert.Equal(t, core.ID(3), results[0].Chunk.Id)
}

func TestApplyTemporal_AllDatedOutOfRangeReturnsEmpty(t *testing.T) {
	dateRange := &core.DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	candidates := []*core.ScoredChunk{
		datedScored(1, "2020-03-01", 0.9),
		datedScored(2, "2026-07-01", 0.8),
	}

	results := applyTemporal(candidates, dateRange, false, time.Now(), 10)
	assert.Empty(t, results)
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	today := &core.Chunk{Metadata: map[string]string{core.MetaContentDate: "2025-06-01"}}
	assert.InDelta(t, 1.0, recencyScore(today, now), 1e-9)

	yearOld := &core.Chunk{Metadata: map[string]string{core.MetaContentDate: "2024-06-01"}}
	assert.InDelta(t, 0.5, recencyScore(yearOld, now), 0.01)

	undated := &core.Chunk{Metadata: map[string]string{}}
	assert.Equal(t, 0.0, recencyScore(undated, now))

	unparsable := &core.Chunk{Metadata: map[string]string{core.MetaContentDate: "junk"}}
	assert.Equal(t, 0.0, recencyScore(unparsable, now))
}

func TestApplyTemporal_RecencyBlendPrefersNewerContent(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	candidates := []*core.ScoredChunk{
		datedScored(1, "2018-01-01", 0.6), // slightly better hybrid, very old
		datedScored(2, "2025-05-20", 0.5), // fresh
	}

	results := applyTemporal(candidates, nil, true, now, 10)
	require.Len(t, results, 2)
	assert.Equal(t, core.ID(2), results[0].Chunk.Id)

	// final = 0.7*hybrid + 0.3*recency
	assert.InDelta(t, 0.7*0.5+0.3*results[0].RecencyScore, results[0].FinalScore, 1e-9)
}

func TestApplyTemporal_NoConstraintsPassesThrough(t *testing.T) {
	candidates := []*core.ScoredChunk{
		datedScored(1, "", 0.9),
		datedScored(2, "", 0.5),
	}

	results := applyTemporal(candidates, nil, false, time.Now(), 10)
	require.Len(t, results, 2)
	assert.Equal(t, 0.9, results[0].FinalScore)
	assert.Equal(t, 0.5, results[1].FinalScore)
}

func TestApplyTemporal_Truncates(t *testing.T) {
	candidates := []*core.ScoredChunk{
		datedScored(1, "", 0.9),
		datedScored(2, "", 0.8),
		datedScored(3, "", 0.7),
	}

	results := applyTemporal(candidates, nil, false, time.Now(), 2)
	assert.Len(t, results, 2)
}
