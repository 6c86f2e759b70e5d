package retrieval

import (
	"sort"
	"time"

	"github.com/poiesic/answerit/core"
)

const (
	// undatedPenalty discounts chunks whose content date is missing or
	// unparsable when a date filter is active.
	undatedPenalty = 0.8

	// hybridWeight and recencyWeight blend ranking relevance with recency
	// when recency boosting is requested.
	hybridWeight  = 0.7
	recencyWeight = 0.3
)

// recencyScore decays from 1.0 at day zero toward 0 over years. An absent
// or unparsable content date contributes no recency at all.
func recencyScore(chunk *core.Chunk, now time.Time) float64 {
	contentDate, ok := chunk.ContentDate()
	if !ok {
		return 0
	}
	days := now.Sub(contentDate).Hours() / 24
	if days < 0 {
		days = 0
	}
	return 1 / (1 + days/365)
}

// applyTemporal filters candidates by content date range and/or re-weights
// them by recency, then re-sorts by final score and truncates to limit.
//
// The date filter is soft on metadata defects: a chunk with a missing or
// unparsable content date is retained at a penalized score and ordered
// after every in-range chunk, so date filtering never empties the result
// set purely because of metadata gaps. Chunks with a valid date strictly
// outside the range are dropped.
func applyTemporal(candidates []*core.ScoredChunk, dateRange *core.DateRange, recencyBoost bool, now time.Time, limit int) []*core.ScoredChunk {
	filtering := dateRange != nil && !dateRange.IsZero()

	var inRange, penalized []*core.ScoredChunk
	for _, c := range candidates {
		score := c.HybridScore

		if filtering {
			contentDate, ok := c.Chunk.ContentDate()
			switch {
			case !ok:
				score *= undatedPenalty
				c.FinalScore = score
				penalized = append(penalized, c)
				continue
			case !dateRange.Contains(contentDate):
				continue
			}
		}

		c.FinalScore = score
		inRange = append(inRange, c)
	}

	if recencyBoost {
		for _, group := range [][]*core.ScoredChunk{inRange, penalized} {
			for _, c := range group {
				c.RecencyScore = recencyScore(c.Chunk, now)
				c.FinalScore = hybridWeight*c.FinalScore + recencyWeight*c.RecencyScore
			}
		}
	}

	// Sort each group separately so penalized chunks stay behind every
	// in-range chunk regardless of blended score
	sortByFinal(inRange)
	sortByFinal(penalized)

	results := append(inRange, penalized...)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func sortByFinal(chunks []*core.ScoredChunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].FinalScore > chunks[j].FinalScore
	})
}
