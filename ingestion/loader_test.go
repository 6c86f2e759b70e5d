package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/core"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTextFile(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "plain text notes about the roadmap")

	documents, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, documents, 1)

	assert.Equal(t, "plain text notes about the roadmap", documents[0].Content)
	assert.Equal(t, "notes.txt", documents[0].Metadata[core.MetaFileName])
	assert.Equal(t, path, documents[0].Metadata[core.MetaSource])
	assert.NotEmpty(t, documents[0].Metadata[core.MetaModifiedDate])
}

func TestLoadMarkdownStripsFormatting(t *testing.T) {
	path := writeTempFile(t, "guide.md", `# Onboarding Guide

Welcome to the **team**. See [the handbook](https://example.com/handbook).

- first step
- second step

`+"```\ncode sample\n```\n")

	documents, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, documents, 1)

	content := documents[0].Content
	assert.Contains(t, content, "Onboarding Guide")
	assert.Contains(t, content, "Welcome to the team")
	assert.Contains(t, content, "first step")
	assert.Contains(t, content, "code sample")
	assert.NotContains(t, content, "#")
	assert.NotContains(t, content, "**")
	assert.NotContains(t, content, "```")
}

func TestLoadFileUnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "data.xlsx", "binary-ish")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "   \n")

	_, err := LoadFile(path)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestLoadText(t *testing.T) {
	doc, err := LoadText("inline knowledge")
	require.NoError(t, err)
	assert.Equal(t, "inline knowledge", doc.Content)
	assert.Equal(t, "text_input", doc.Metadata[core.MetaSource])

	_, err = LoadText("  ")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}
