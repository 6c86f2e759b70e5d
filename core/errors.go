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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidRequest indicates a RetrievalRequest failed validation.
	ErrInvalidRequest = errors.New("invalid retrieval request")

	// ErrEmptyQuestion indicates the Question field is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrAlphaOutOfRange indicates HybridAlpha is outside [0, 1].
	ErrAlphaOutOfRange = errors.New("hybrid alpha must be in [0, 1]")

	// ErrRerankPoolTooSmall indicates RerankTopK is smaller than K.
	ErrRerankPoolTooSmall = errors.New("rerank pool must be at least k")

	// ErrInvalidDateRange indicates a date range with start after end.
	ErrInvalidDateRange = errors.New("date range start must not be after end")
)
