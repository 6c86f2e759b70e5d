package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/answerit/core"
)

// Key prefixes for different data types
const (
	chunkPrefix      = "chkrec"
	chunkVersionKey  = "chkver"
	sessionPrefix    = "sesrec"
	sessionMsgSeq    = "sesrecseq"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id core.ID) []byte {
	prefix := chunkPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic key order matches ascending ID order
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSessionMsgKey generates a composite key for a session message.
// Format: prefix:sessionID:seq
func makeSessionMsgKey(sessionID string, seq uint64) []byte {
	prefix := fmt.Sprintf("%s:%s:", sessionPrefix, sessionID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic sort yields chronological order
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeSessionPrefix generates the key prefix covering all messages of a session.
func makeSessionPrefix(sessionID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", sessionPrefix, sessionID))
}
