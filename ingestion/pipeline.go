package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// embedBatchSize is how many chunk texts go to the embedder per request.
const embedBatchSize = 32

// Pipeline turns source documents into stored, embedded chunks. Documents
// are split into overlapping windows, embedded in parallel batches on a
// worker pool, and written to the chunk repository in one transaction per
// ingest call.
type Pipeline struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	splitter        *Splitter
	pool            *ants.Pool
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithSplitter replaces the default splitter.
func WithSplitter(splitter *Splitter) Option {
	return func(p *Pipeline) error {
		if splitter != nil {
			p.splitter = splitter
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	chunkRepository storage.ChunkRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Pipeline, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	splitter, err := NewSplitter()
	if err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunkRepository: chunkRepository,
		embedder:        provider.Embedder(),
		splitter:        splitter,
		pool:            pool,
		logger:          slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IngestOptions holds optional parameters for ingestion.
type IngestOptions struct {
	// Metadata is attached to every produced chunk. Well-known keys like
	// content_date flow into temporal ranking downstream.
	Metadata map[string]string

	// ContentDate, when set, records what date the material is about.
	ContentDate time.Time
}

// IngestFile loads, splits, embeds and stores a source file.
// Returns the number of chunks stored.
func (p *Pipeline) IngestFile(ctx context.Context, path string, opts *IngestOptions) (int, error) {
	documents, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	p.logger.Info("loaded source file", "path", path, "documents", len(documents))
	return p.ingest(ctx, documents, opts)
}

// IngestTexts splits, embeds and stores raw text strings.
// Returns the number of chunks stored.
func (p *Pipeline) IngestTexts(ctx context.Context, texts []string, opts *IngestOptions) (int, error) {
	documents := make([]Document, 0, len(texts))
	for _, text := range texts {
		doc, err := LoadText(text)
		if err != nil {
			return 0, err
		}
		documents = append(documents, doc)
	}
	return p.ingest(ctx, documents, opts)
}

func (p *Pipeline) ingest(ctx context.Context, documents []Document, opts *IngestOptions) (int, error) {
	if opts == nil {
		opts = &IngestOptions{}
	}

	ingestedAt := time.Now().UTC().Format(time.RFC3339)
	var chunks []*core.Chunk
	for _, doc := range documents {
		for _, window := range p.splitter.Split(doc.Content) {
			metadata := cloneMetadata(doc.Metadata)
			for k, v := range opts.Metadata {
				metadata[k] = v
			}
			metadata[core.MetaIngestionDate] = ingestedAt
			if !opts.ContentDate.IsZero() {
				metadata[core.MetaContentDate] = opts.ContentDate.Format("2006-01-02")
			}

			chunks = append(chunks, &core.Chunk{
				Content:  window,
				Metadata: metadata,
			})
		}
	}

	if len(chunks) == 0 {
		return 0, ErrEmptyDocument
	}

	if err := p.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}
	if _, err := p.chunkRepository.AddChunks(ctx, chunks...); err != nil {
		return 0, err
	}

	p.logger.Info("ingested chunks", "chunks", len(chunks))
	return len(chunks), nil
}

// embedChunks fills in chunk vectors, one batch per pool task.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*core.Chunk) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Content
			}

			vectors, err := p.embedder.EmbedTexts(ctx, texts)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i := range batch {
				batch[i].Vector = vectors[i]
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
		}
	}

	wg.Wait()
	return firstErr
}
