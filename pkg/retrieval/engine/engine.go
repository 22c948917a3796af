package engine

import (
	"context"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/pkg/logger"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/embedding"
)

// Engine retrieves candidate fragments for a query text, pre-filtered to
// the given buckets and ordered by relevance descending.
type Engine interface {
	Search(ctx context.Context, text string, buckets []entity.Bucket, topK int) ([]*entity.Fragment, error)
}

type vectorEngine struct {
	uowFactory    unitofwork.RepositoryFactory
	embedder      embedding.EmbeddingProvider
	logger        logger.ILogger
	topK          int
	minSimilarity float64
}

func NewVectorEngine(uowFactory unitofwork.RepositoryFactory, embedder embedding.EmbeddingProvider, log logger.ILogger, topK int, minSimilarity float64) Engine {
	if minSimilarity < 0 {
		minSimilarity = 0
	}
	return &vectorEngine{
		uowFactory:    uowFactory,
		embedder:      embedder,
		logger:        log,
		topK:          topK,
		minSimilarity: minSimilarity,
	}
}

// Search embeds the query text and runs a cosine similarity scan over the
// fragment store. Either stage failing is fatal for the request, unlike
// answer synthesis which degrades gracefully.
func (e *vectorEngine) Search(ctx context.Context, text string, buckets []entity.Bucket, topK int) ([]*entity.Fragment, error) {
	if topK <= 0 {
		topK = e.topK
	}

	embResp, err := e.embedder.Generate(ctx, text)
	if err != nil {
		e.logger.Error("retrieval.engine", "failed to embed query", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperr.Upstream("retrieval engine unavailable", err)
	}

	uow := e.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.FragmentRepository().SearchSimilarWithScore(ctx, embResp.Embedding.Values, topK, buckets, e.minSimilarity)
	if err != nil {
		e.logger.Error("retrieval.engine", "similarity search failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, apperr.Upstream("retrieval engine unavailable", err)
	}

	// The store already filters on minSimilarity; the re-check here keeps
	// relevance inside [0, 1] even if the store misbehaves, since raw
	// cosine similarity can go negative and float rounding can exceed 1.
	fragments := make([]*entity.Fragment, 0, len(scored))
	for _, s := range scored {
		if s.Similarity < e.minSimilarity {
			continue
		}
		f := s.Fragment
		f.Relevance = s.Similarity
		if f.Relevance > 1 {
			f.Relevance = 1
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}
