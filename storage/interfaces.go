package storage

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing document chunks and
// running vector similarity queries over them.
type ChunkRepository interface {
	Repository

	// AddChunks adds one or more chunks to storage.
	// For chunks with Id=0, derives the ID from the chunk content.
	// Sets InsertedAt timestamp if not already set.
	// Adding a chunk whose ID already exists overwrites it, so repeated
	// ingestion of the same document is idempotent.
	// Returns the chunks with IDs and timestamps populated.
	// Every successful call advances the corpus version.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// DeleteChunks removes chunks by their IDs.
	// Returns ErrNotFound if any chunk doesn't exist.
	// Every successful call advances the corpus version.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.Chunk, error)

	// GetChunks retrieves multiple chunks by their IDs.
	// Returns only the chunks that exist (no error for missing chunks).
	GetChunks(ctx context.Context, ids ...core.ID) ([]*core.Chunk, error)

	// AllChunks retrieves every chunk in corpus order (ascending ID).
	AllChunks(ctx context.Context) ([]*core.Chunk, error)

	// Count returns the number of chunks in storage.
	Count(ctx context.Context) (int, error)

	// Version returns the current corpus version. The version changes
	// whenever chunks are added, deleted or re-embedded, so callers can use
	// it as a cache invalidation token for derived indexes.
	Version(ctx context.Context) (uint64, error)

	// FindSimilar finds chunks whose vectors are nearest to the given vector
	// by Euclidean distance. Chunks matching the metadata filter are
	// considered; a nil or empty filter matches everything. Results are
	// ordered by ascending distance, up to limit.
	FindSimilar(ctx context.Context, vector []float32, filter map[string]string, limit int) ([]*core.SemanticMatch, error)
}

// SessionRepository provides operations for conversation session memory.
type SessionRepository interface {
	Repository

	// AppendMessage appends a message to a session's history.
	AppendMessage(ctx context.Context, sessionID string, msg core.Message) error

	// RecentMessages retrieves the N most recent messages for a session in
	// chronological order. Returns up to limit messages.
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error)

	// ClearSession removes all messages for a session.
	ClearSession(ctx context.Context, sessionID string) error
}
