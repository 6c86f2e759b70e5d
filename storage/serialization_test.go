package storage

import (
	"testing"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalChunk(t *testing.T) {
	chunk := &core.Chunk{
		Id:      core.IDFromContent("storage roundtrip"),
		Content: "storage roundtrip",
		Metadata: map[string]string{
			core.MetaFileName: "notes.md",
		},
		Vector:     []float32{0.5, -0.5},
		InsertedAt: time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC),
	}

	data := MarshalChunk(chunk)
	decoded, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, chunk.Id, decoded.Id)
	assert.Equal(t, chunk.Content, decoded.Content)
	assert.Equal(t, chunk.Metadata, decoded.Metadata)
	assert.Equal(t, chunk.Vector, decoded.Vector)
}

func TestMarshalUnmarshalID(t *testing.T) {
	id := core.ID(123456789)
	decoded, err := UnmarshalID(MarshalID(id))
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestUnmarshalChunk_CorruptData(t *testing.T) {
	_, err := UnmarshalChunk([]byte{0xff})
	assert.Error(t, err)
}
