package retrieval

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// overFetchFactor widens the candidate pool when temporal or recency
// processing will prune it afterwards.
const overFetchFactor = 3

// Retriever runs the ranking pipeline: semantic fetch, lexical scoring,
// hybrid merge, temporal filtering and optional reranking.
type Retriever struct {
	chunkRepository storage.ChunkRepository
	embedder        ai.Embedder
	reranker        ai.Reranker
	lexical         *lexicalCache
	alwaysHybrid    bool
	now             func() time.Time
	logger          *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithAlwaysHybrid controls whether lexical hybridization runs on every
// query (the default) or only when temporal or recency processing already
// requires a wide candidate pool. The conditional path is cheaper but
// ranks pure-semantic and hybrid calls differently.
func WithAlwaysHybrid(always bool) Option {
	return func(r *Retriever) error {
		r.alwaysHybrid = always
		return nil
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(
	chunkRepository storage.ChunkRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Retriever, error) {
	if chunkRepository == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	r := &Retriever{
		chunkRepository: chunkRepository,
		embedder:        provider.Embedder(),
		reranker:        provider.Reranker(),
		alwaysHybrid:    true,
		now:             time.Now,
		logger:          slog.Default().With("component", "retriever"),
	}
	r.lexical = newLexicalCache(chunkRepository, r.logger)

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve runs the full ranking pipeline and returns at most req.K scored
// chunks in relevance order.
func (r *Retriever) Retrieve(ctx context.Context, req core.RetrievalRequest) ([]*core.ScoredChunk, error) {
	return r.RetrieveWithMonitor(ctx, req, nil)
}

// RetrieveWithMonitor runs the pipeline with monitoring callbacks at each
// stage.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, req core.RetrievalRequest, monitor RetrievalMonitor) ([]*core.ScoredChunk, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if err := core.ValidateRequest(&req); err != nil {
		return nil, err
	}

	k := req.K
	if k <= 0 {
		k = core.DefaultK
	}
	rerankTopK := req.RerankTopK
	if req.Rerank && rerankTopK <= 0 {
		rerankTopK = 2 * k
	}

	temporalActive := req.RecencyBoost || (req.DateRange != nil && !req.DateRange.IsZero())

	// Over-fetch so enough candidates survive filtering and reranking
	fetch := k
	if req.Rerank && rerankTopK > fetch {
		fetch = rerankTopK
	}
	if temporalActive && overFetchFactor*k > fetch {
		fetch = overFetchFactor * k
	}

	monitor.Start(req.Question)

	embedding, err := r.embedder.EmbedText(ctx, req.Question)
	if err != nil {
		r.logger.Error("error generating embedding for question", "err", err)
		return nil, err
	}

	matches, err := r.chunkRepository.FindSimilar(ctx, embedding, req.Filter, fetch)
	if err != nil {
		r.logger.Error("error querying for similar chunks", "err", err)
		return nil, err
	}
	monitor.AfterSemanticSearch(matches)

	var candidates []*core.ScoredChunk
	if r.alwaysHybrid || temporalActive {
		candidates, err = r.hybridCandidates(ctx, req.Question, matches, req.Filter, req.HybridAlpha, fetch)
		if err != nil {
			return nil, err
		}
	} else {
		// Pure-semantic path: matches are already distance-ordered
		candidates = make([]*core.ScoredChunk, 0, len(matches))
		for _, m := range matches {
			sim := semanticSimilarity(m.Distance)
			candidates = append(candidates, &core.ScoredChunk{
				Chunk:       m.Chunk,
				Distance:    m.Distance,
				HybridScore: sim,
				FinalScore:  sim,
			})
		}
	}
	monitor.AfterHybridMerge(candidates)

	// Temporal filter and recency blend, truncating to the pool size the
	// next stage needs
	keep := k
	if req.Rerank {
		keep = rerankTopK
	}
	candidates = applyTemporal(candidates, req.DateRange, req.RecencyBoost, r.now(), keep)
	monitor.AfterTemporalFilter(candidates)

	if req.Rerank {
		candidates = applyRerank(ctx, r.reranker, req.Question, candidates, k, r.logger)
		monitor.AfterRerank(candidates)
	}

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	monitor.Finish(candidates)

	r.logger.Debug("retrieval complete",
		"question", req.Question,
		"semantic", len(matches),
		"results", len(candidates))
	return candidates, nil
}

// hybridCandidates scores the corpus lexically and merges with the
// semantic matches.
func (r *Retriever) hybridCandidates(ctx context.Context, question string, matches []*core.SemanticMatch, filter map[string]string, alpha float64, limit int) ([]*core.ScoredChunk, error) {
	version, err := r.chunkRepository.Version(ctx)
	if err != nil {
		r.logger.Error("error reading corpus version", "err", err)
		return nil, err
	}

	idx, err := r.lexical.current(ctx, version)
	if err != nil {
		r.logger.Error("error building lexical index", "err", err)
		return nil, err
	}

	lexScores := idx.score(question)
	return mergeHybrid(matches, idx, lexScores, filter, alpha, limit), nil
}
