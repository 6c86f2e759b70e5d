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


package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/answerit/ai"
)

// Reranker implements ai.Reranker against Cohere-style rerank endpoints
// (POST {host}/rerank). Rerank services disagree about response shapes,
// so every accepted variant is normalized into ai.RerankResult records
// before anything leaves this type.
type Reranker struct {
	host   string
	model  string
	token  string
	client *http.Client
	logger *slog.Logger
}

// newReranker is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newReranker(config *ai.Config) *Reranker {
	return &Reranker{
		host:  config.RerankHost,
		model: config.RerankModel,
		token: config.APIToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default().With("component", "openai-reranker"),
	}
}

// NewReranker creates a new reranker using the provided configuration.
//
// Returns ai.Reranker interface to enforce abstraction.
func NewReranker(config *ai.Config) (ai.Reranker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.RerankHost == "" {
		return nil, fmt.Errorf("openai: reranker requires a rerank host")
	}
	return newReranker(config), nil
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

// rerankEntry accepts the per-result field names used across rerank
// services. Exactly one of RelevanceScore and Score is expected to be set.
type rerankEntry struct {
	Index          int      `json:"index"`
	RelevanceScore *float64 `json:"relevance_score"`
	Score          *float64 `json:"score"`
}

func (e rerankEntry) relevance() float64 {
	if e.RelevanceScore != nil {
		return *e.RelevanceScore
	}
	if e.Score != nil {
		return *e.Score
	}
	return 0
}

// Rerank scores the documents against the query and returns up to topN
// results ordered by descending relevance.
func (r *Reranker) Rerank(ctx context.Context, query string, documents []string, topN int) ([]ai.RerankResult, error) {
	if len(documents) == 0 {
		return nil, nil
	}
	if topN <= 0 || topN > len(documents) {
		topN = len(documents)
	}

	body, err := json.Marshal(rerankRequest{
		Model:     r.model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.host+"/rerank", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" && r.token != "none" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("rerank request failed", "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.Error("rerank request rejected", "status", resp.StatusCode)
		return nil, fmt.Errorf("openai: rerank request failed with status %d", resp.StatusCode)
	}

	entries, err := decodeRerankResponse(raw)
	if err != nil {
		r.logger.Error("unrecognized rerank response", "err", err)
		return nil, err
	}

	results := make([]ai.RerankResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, ai.RerankResult{
			Index:          e.Index,
			RelevanceScore: e.relevance(),
		})
	}

	r.logger.Debug("reranked documents", "candidates", len(documents), "returned", len(results))
	return results, nil
}

// decodeRerankResponse accepts both response shapes seen in the wild: an
// object with a "results" array, or a bare array of result entries.
func decodeRerankResponse(raw []byte) ([]rerankEntry, error) {
	var wrapped struct {
		Results []rerankEntry `json:"results"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Results != nil {
		return wrapped.Results, nil
	}

	var bare []rerankEntry
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}

	return nil, fmt.Errorf("openai: rerank response has no recognizable results field")
}
