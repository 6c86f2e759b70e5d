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
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200

	// splitterEncoding is the tokenizer used to measure chunk sizes.
	splitterEncoding = "cl100k_base"
)

// defaultSeparators is tried in order: paragraph breaks first, then lines,
// then words, then single characters as a last resort.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts document text into overlapping windows of bounded size.
// Sizes are measured in tokens, not bytes, so chunks map onto model
// context limits.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
	length       func(string) int
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithChunkSize sets the maximum chunk size in tokens.
// Default is 1000.
func WithChunkSize(size int) SplitterOption {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the token overlap between adjacent chunks.
// Default is 200.
func WithChunkOverlap(overlap int) SplitterOption {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.chunkOverlap = overlap
		}
	}
}

// NewSplitter creates a splitter with token-based length accounting.
func NewSplitter(opts ...SplitterOption) (*Splitter, error) {
	encoder, err := tiktoken.GetEncoding(splitterEncoding)
	if err != nil {
		return nil, err
	}

	s := &Splitter{
		chunkSize:    defaultChunkSize,
		chunkOverlap: defaultChunkOverlap,
		separators:   defaultSeparators,
		length: func(text string) int {
			return len(encoder.Encode(text, nil, nil))
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.chunkOverlap >= s.chunkSize {
		s.chunkOverlap = s.chunkSize / 2
	}
	return s, nil
}

// Split cuts text into chunks of at most the configured size, recursing
// through the separator list from coarsest to finest. Adjacent chunks share
// an overlap window so context at boundaries is not lost.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	if len(separators) == 0 {
		return []string{text}
	}

	// Pick the first separator that occurs in the text; "" always matches
	// and splits into individual characters
	separator := separators[len(separators)-1]
	rest := []string{}
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var pieces []string
	if separator == "" {
		pieces = strings.Split(text, "")
	} else {
		pieces = strings.Split(text, separator)
	}

	var chunks []string
	var pending []string
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if s.length(piece) < s.chunkSize {
			pending = append(pending, piece)
			continue
		}

		// Piece is too large on its own: flush what we have, then recurse
		// into it with finer separators
		chunks = append(chunks, s.merge(pending, separator)...)
		pending = nil
		chunks = append(chunks, s.split(piece, rest)...)
	}
	chunks = append(chunks, s.merge(pending, separator)...)

	return chunks
}

// merge joins small pieces into chunks up to the size limit, carrying an
// overlap tail from each emitted chunk into the next.
func (s *Splitter) merge(pieces []string, separator string) []string {
	if len(pieces) == 0 {
		return nil
	}

	sepLen := s.length(separator)

	var chunks []string
	var window []string
	total := 0
	for _, piece := range pieces {
		pieceLen := s.length(piece)

		if total+pieceLen+sepLen*len(window) > s.chunkSize && len(window) > 0 {
			chunks = appendChunk(chunks, window, separator)

			// Shrink the window down to the overlap size
			for total > s.chunkOverlap ||
				(total+pieceLen+sepLen*len(window) > s.chunkSize && total > 0) {
				total -= s.length(window[0])
				window = window[1:]
			}
		}

		window = append(window, piece)
		total += pieceLen
	}
	chunks = appendChunk(chunks, window, separator)

	return chunks
}

func appendChunk(chunks, window []string, separator string) []string {
	joined := strings.TrimSpace(strings.Join(window, separator))
	if joined == "" {
		return chunks
	}
	return append(chunks, joined)
}
