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


// Package retrieval implements the hybrid retrieval and temporal-ranking
// pipeline at the heart of answerit.
//
// A query flows through five stages:
//
//  1. Semantic search: the question is embedded and the chunk repository
//     returns the nearest chunks by vector distance.
//  2. Lexical scoring: a BM25 index over the corpus scores every chunk by
//     keyword overlap. The index is cached and rebuilt automatically when
//     the corpus version changes.
//  3. Hybrid merge: semantic distance is mapped to a similarity in (0,1],
//     lexical scores are min-max normalized, and the two are blended by
//     the request's alpha weight.
//  4. Temporal filter and recency boost: content-date constraints are
//     applied softly (chunks with missing or unparsable dates are
//     penalized and demoted, never silently dropped wholesale) and
//     recency can be blended into the final score.
//  5. Reranking: an optional cross-encoder pass over the top candidates.
//     Reranker failures fail open to the pre-rerank order.
//
// The pipeline over-fetches candidates ahead of the filtering stages so
// eligible chunks are not lost to a narrow initial fetch.
//
// The Answerer wraps the pipeline with citation-formatted answer
// synthesis. Its QueryWithCitations method never returns an error: all
// failure modes collapse into a descriptive answer string.
package retrieval
