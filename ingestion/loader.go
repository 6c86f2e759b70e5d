// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/poiesic/answerit/core"
)

// Document is a unit of loaded source text before splitting. A PDF yields
// one document per page; text and Markdown files yield a single document.
type Document struct {
	Content  string
	Metadata map[string]string
}

// LoadFile reads a source file into documents. Supported formats are PDF,
// Markdown and plain text, selected by extension. Every document carries
// source, file name and modification date metadata.
func LoadFile(path string) ([]Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	base := map[string]string{
		core.MetaSource:       path,
		core.MetaFileName:     filepath.Base(path),
		core.MetaModifiedDate: info.ModTime().UTC().Format(time.RFC3339),
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path, base)
	case ".md", ".markdown":
		return loadMarkdown(path, base)
	case ".txt", ".text":
		return loadText(path, base)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadText wraps a raw text string as a single document.
func LoadText(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyDocument
	}
	return Document{
		Content:  text,
		Metadata: map[string]string{core.MetaSource: "text_input"},
	}, nil
}

// loadPDF extracts one document per page, skipping pages without text.
func loadPDF(path string, base map[string]string) ([]Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var documents []Document
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from %s page %d: %w", path, pageNum, err)
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		metadata := cloneMetadata(base)
		metadata[core.MetaPage] = strconv.Itoa(pageNum)
		documents = append(documents, Document{Content: content, Metadata: metadata})
	}

	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}
	return documents, nil
}

// loadMarkdown parses the file and extracts plain text from the AST, so
// formatting markers do not pollute the lexical index.
func loadMarkdown(path string, base map[string]string) ([]Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := markdownToText(source)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}

	return []Document{{Content: content, Metadata: cloneMetadata(base)}}, nil
}

func loadText(path string, base map[string]string) ([]Document, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.TrimSpace(string(source)) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDocument, path)
	}
	return []Document{{Content: string(source), Metadata: cloneMetadata(base)}}, nil
}

// markdownToText renders a Markdown document as plain text, keeping block
// boundaries as blank lines for the splitter to find.
func markdownToText(source []byte) string {
	parser := goldmark.New().Parser()
	root := parser.Parse(gmtext.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteString("\n")
			}
		case *ast.CodeBlock:
			writeCodeLines(&buf, node, source)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			writeCodeLines(&buf, node, source)
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			buf.Write(node.URL(source))
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}

func writeCodeLines(buf *bytes.Buffer, block ast.Node, source []byte) {
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
}

func cloneMetadata(m map[string]string) map[string]string {
	clone := make(map[string]string, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}
