package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Chunk IDs are content-based: identical text always hashes to the same ID,
// which makes re-ingestion of the same document idempotent.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Well-known metadata keys attached to chunks during ingestion.
const (
	MetaFileName      = "file_name"
	MetaPage          = "page"
	MetaContentDate   = "content_date"
	MetaModifiedDate  = "modified_date"
	MetaIngestionDate = "ingestion_date"
	MetaSource        = "source"
)

// Chunk is the retrievable unit: a bounded window of source-document text.
// Content is immutable once stored; an update is modeled as delete + insert,
// which the content-based ID makes natural.
type Chunk struct {
	Id         ID
	Content    string
	Metadata   map[string]string
	Vector     []float32 // Embedding vector (populated by the ingestion pipeline)
	InsertedAt time.Time
}

// ContentDate parses the chunk's content_date metadata as an ISO-8601 date.
// The content date is the date the text is about, not when it was stored.
// Returns ok=false when the field is absent or unparsable; callers must
// treat that as a soft condition, never an error.
func (c *Chunk) ContentDate() (time.Time, bool) {
	raw, present := c.Metadata[MetaContentDate]
	if !present || raw == "" {
		return time.Time{}, false
	}
	ts, err := ParseISODate(raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// ParseISODate parses an ISO-8601 date or timestamp string.
func ParseISODate(s string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, s)
}

// DateRange bounds retrieval by content date. Either side may be zero,
// which leaves that side of the range open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether ts falls within the range, honoring open bounds.
func (r DateRange) Contains(ts time.Time) bool {
	if !r.Start.IsZero() && ts.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && ts.After(r.End) {
		return false
	}
	return true
}

// DefaultK is the result count used when a request leaves K unset.
const DefaultK = 5

// RetrievalRequest is the query contract for the retrieval pipeline.
type RetrievalRequest struct {
	Question     string
	K            int               // Result count; DefaultK when <= 0
	Filter       map[string]string // Metadata equality predicate for the vector search
	DateRange    *DateRange
	RecencyBoost bool
	HybridAlpha  float64 // Weight in [0,1] favoring semantic over lexical
	Rerank       bool
	RerankTopK   int // Candidate pool size before reranking; must be >= K
}

// SemanticMatch is a chunk returned by vector similarity search.
// Distance is unbounded and non-negative; 0 means identical.
type SemanticMatch struct {
	Chunk    *Chunk
	Distance float64
}

// ScoredChunk carries a chunk through the ranking pipeline. The score
// fields are ephemeral, per-query state and are never persisted.
type ScoredChunk struct {
	Chunk        *Chunk
	LexicalScore float64
	Distance     float64 // Semantic distance; math.Inf(1) when absent from the semantic result set
	HybridScore  float64
	RecencyScore float64
	FinalScore   float64
}

// Citation points at the source of a retrieved chunk.
type Citation struct {
	Source string
	Page   string
}

// Timing records wall-clock durations for an answered query.
type Timing struct {
	Retrieval time.Duration
	LLM       time.Duration
	Total     time.Duration
}

// Answer is the citation-bearing result of a question. The Answer string is
// always populated: failure modes collapse into a descriptive answer rather
// than an error.
type Answer struct {
	Answer     string
	Citations  []Citation
	ChunkCount int
	Timing     Timing
}

// Message is one turn in a conversation transcript.
type Message struct {
	Role      string // "user" or "assistant"
	Content   string
	Timestamp time.Time
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
