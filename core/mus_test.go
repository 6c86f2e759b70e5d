package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkSerialization(t *testing.T) {
	chunk := Chunk{
		Id:      IDFromContent("roundtrip"),
		Content: "The engineering team grew to 40 people in Q4.",
		Metadata: map[string]string{
			MetaFileName:    "handbook.pdf",
			MetaPage:        "12",
			MetaContentDate: "2024-11-15",
		},
		Vector:     []float32{0.25, -1.5, 0.0, 3.75},
		InsertedAt: time.Date(2025, 2, 1, 10, 30, 0, 0, time.UTC),
	}

	buf := make([]byte, ChunkMUS.Size(chunk))
	n := ChunkMUS.Marshal(chunk, buf)
	assert.Equal(t, len(buf), n)

	decoded, read, err := ChunkMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, read)
	assert.Equal(t, chunk.Id, decoded.Id)
	assert.Equal(t, chunk.Content, decoded.Content)
	assert.Equal(t, chunk.Metadata, decoded.Metadata)
	assert.Equal(t, chunk.Vector, decoded.Vector)
	assert.True(t, chunk.InsertedAt.Equal(decoded.InsertedAt))
}

func TestChunkSerialization_EmptyFields(t *testing.T) {
	chunk := Chunk{Content: "bare"}

	buf := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, buf)

	decoded, _, err := ChunkMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, "bare", decoded.Content)
	assert.Nil(t, decoded.Vector)
	assert.Nil(t, decoded.Metadata)
}

func TestMessageSerialization(t *testing.T) {
	msg := Message{
		Role:      RoleUser,
		Content:   "what were the Q4 numbers?",
		Timestamp: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, MessageMUS.Size(msg))
	MessageMUS.Marshal(msg, buf)

	decoded, _, err := MessageMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, msg.Role, decoded.Role)
	assert.Equal(t, msg.Content, decoded.Content)
	assert.True(t, msg.Timestamp.Equal(decoded.Timestamp))
}

func TestIDSerialization(t *testing.T) {
	id := IDFromContent("an id")

	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)

	decoded, _, err := IDMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestUnmarshalTruncated(t *testing.T) {
	chunk := Chunk{Content: "truncate me", Vector: []float32{1, 2, 3}}
	buf := make([]byte, ChunkMUS.Size(chunk))
	ChunkMUS.Marshal(chunk, buf)

	_, _, err := ChunkMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}
