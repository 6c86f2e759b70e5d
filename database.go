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


package answerit

import (
	"io"
	"log/slog"

	"github.com/poiesic/answerit/agent"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/reembed"
	"github.com/poiesic/answerit/retrieval"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
)

// Database bundles the storage backend, repositories and AI provider, and
// hands out wired pipeline components. All dependencies are explicit; the
// facade only saves callers the boilerplate of connecting them.
type Database struct {
	backend     *badger.Backend
	chunkRepo   storage.ChunkRepository
	sessionRepo storage.SessionRepository
	provider    ai.AIProvider
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemoryStorage keeps all data in memory, for tests and throwaway use.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the storage backend at filePath and wires up the
// repositories and AI provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.NewConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	sessionRepo, err := badger.NewSessionRepository(backend)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		sessionRepo.Close()
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:     backend,
		chunkRepo:   chunkRepo,
		sessionRepo: sessionRepo,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

// Close releases the AI provider, repositories and backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.sessionRepo.Close(); err != nil {
		db.logger.Error("error closing session repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the chunk store.
func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

// SessionRepository exposes conversation memory.
func (db *Database) SessionRepository() storage.SessionRepository {
	return db.sessionRepo
}

// Provider exposes the configured AI services.
func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewIngestionPipeline creates an ingestion pipeline over the chunk store.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.chunkRepo, db.provider, opts...)
}

// NewRetriever creates a retrieval pipeline over the chunk store.
func (db *Database) NewRetriever(opts ...retrieval.Option) (*retrieval.Retriever, error) {
	return retrieval.NewRetriever(db.chunkRepo, db.provider, opts...)
}

// NewAnswerer creates a citation-producing answerer over a fresh retriever.
func (db *Database) NewAnswerer(opts ...retrieval.Option) (*retrieval.Answerer, error) {
	retriever, err := db.NewRetriever(opts...)
	if err != nil {
		return nil, err
	}
	return retrieval.NewAnswerer(retriever, db.provider.Completer())
}

// AgentConfig selects the capabilities of an agent built by NewAgent.
type AgentConfig struct {
	// K is the result count for corpus searches; core.DefaultK when zero.
	K int

	// Rerank enables reranking of corpus search results. It is ignored
	// when the provider has no rerank endpoint configured.
	Rerank bool

	// WebSearcher enables the web search tool when non-nil.
	WebSearcher ai.WebSearcher

	// SQLiteDatabase enables the structured-data query tool when set,
	// pointing at a SQLite file opened read-only.
	SQLiteDatabase string
}

// NewAgent creates a conversational agent with a corpus search tool, plus
// web search and database query tools when configured. Session memory is
// wired to this database's session repository.
func (db *Database) NewAgent(config *AgentConfig, opts ...agent.AgentOption) (*agent.Agent, error) {
	if config == nil {
		config = &AgentConfig{}
	}

	answerer, err := db.NewAnswerer()
	if err != nil {
		return nil, err
	}

	rerank := config.Rerank && db.provider.Reranker() != nil
	searchTool, err := agent.NewDocumentSearchTool(answerer, config.K, rerank)
	if err != nil {
		return nil, err
	}

	tools := []agent.Tool{searchTool}
	if config.WebSearcher != nil {
		tools = append(tools, agent.NewWebSearchTool(config.WebSearcher))
	}
	if config.SQLiteDatabase != "" {
		sqlTool, err := agent.NewDatabaseQueryTool(config.SQLiteDatabase, db.provider.Completer())
		if err != nil {
			return nil, err
		}
		tools = append(tools, sqlTool)
	}

	opts = append([]agent.AgentOption{agent.WithSessionRepository(db.sessionRepo)}, opts...)
	return agent.NewAgent(db.provider.Completer(), tools, opts...)
}

// NewReembedder creates a corpus reembedder writing progress to the given
// writer.
func (db *Database) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(db.chunkRepo, db.provider.Embedder(), config, progress)
}
