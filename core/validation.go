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

import "fmt"

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding pipeline runs)
//   - ID (derived from content when 0)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}
	return nil
}

// ValidateRequest validates a RetrievalRequest according to the query
// contract. These are programming-contract violations and are rejected
// eagerly at the API boundary; everything else in the pipeline degrades
// softly instead of erroring.
func ValidateRequest(req *RetrievalRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if req.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyQuestion)
	}
	if req.HybridAlpha < 0 || req.HybridAlpha > 1 {
		return fmt.Errorf("%w: %w: got %v", ErrInvalidRequest, ErrAlphaOutOfRange, req.HybridAlpha)
	}
	k := req.K
	if k <= 0 {
		k = DefaultK
	}
	if req.Rerank && req.RerankTopK > 0 && req.RerankTopK < k {
		return fmt.Errorf("%w: %w: rerank_top_k=%d k=%d", ErrInvalidRequest, ErrRerankPoolTooSmall, req.RerankTopK, k)
	}
	if req.DateRange != nil && !req.DateRange.Start.IsZero() && !req.DateRange.End.IsZero() &&
		req.DateRange.Start.After(req.DateRange.End) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrInvalidDateRange)
	}
	return nil
}
