package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
// Messages are keyed by a global sequence so lexicographic key order is
// chronological within each session.
type SessionRepository struct {
	backend *Backend
	msgSeq  *badger.Sequence
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) (*SessionRepository, error) {
	msgSeq, err := backend.GetSequence(sessionMsgSeq)
	if err != nil {
		return nil, err
	}

	return &SessionRepository{
		backend: backend,
		msgSeq:  msgSeq,
	}, nil
}

// Close releases the message sequence.
func (r *SessionRepository) Close() error {
	return r.msgSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *SessionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AppendMessage appends a message to a session's history.
func (r *SessionRepository) AppendMessage(ctx context.Context, sessionID string, msg core.Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		seq, err := r.msgSeq.Next()
		if err != nil {
			return err
		}

		key := makeSessionMsgKey(sessionID, seq)
		if err := tx.Set(key, storage.MarshalMessage(&msg)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// RecentMessages retrieves the N most recent messages for a session in
// chronological order.
func (r *SessionRepository) RecentMessages(ctx context.Context, sessionID string, limit int) ([]core.Message, error) {
	var messages []core.Message
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeSessionPrefix(sessionID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var msg *core.Message
			err := iter.Item().Value(func(val []byte) error {
				var err error
				msg, err = storage.UnmarshalMessage(val)
				return err
			})
			if err != nil {
				return err
			}
			if msg != nil {
				messages = append(messages, *msg)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Keep only the tail; keys iterate oldest-first
	if limit > 0 && len(messages) > limit {
		messages = slices.Clone(messages[len(messages)-limit:])
	}
	return messages, nil
}

// ClearSession removes all messages for a session.
func (r *SessionRepository) ClearSession(ctx context.Context, sessionID string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeSessionPrefix(sessionID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
