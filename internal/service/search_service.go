package service

import (
	"context"
	"strings"
	"time"

	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/metrics"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/pkg/logger"
	"doc-knowledge-be/internal/repository/memory"
	"doc-knowledge-be/pkg/retrieval/compose"
	"doc-knowledge-be/pkg/retrieval/engine"
	"doc-knowledge-be/pkg/retrieval/scope"
	"doc-knowledge-be/pkg/retrieval/synthesis"
)

type ISearchService interface {
	Search(ctx context.Context, principal entity.Principal, req *dto.SearchRequest) (*dto.SearchResponse, error)
}

type searchService struct {
	resolver    *scope.Resolver
	engine      engine.Engine
	composer    *compose.Composer
	synthesizer *synthesis.Synthesizer
	cache       *memory.SearchCache
	logger      logger.ILogger
	topK        int
}

func NewSearchService(
	resolver *scope.Resolver,
	eng engine.Engine,
	composer *compose.Composer,
	synthesizer *synthesis.Synthesizer,
	cache *memory.SearchCache,
	log logger.ILogger,
	topK int,
) ISearchService {
	return &searchService{
		resolver:    resolver,
		engine:      eng,
		composer:    composer,
		synthesizer: synthesizer,
		cache:       cache,
		logger:      log,
		topK:        topK,
	}
}

// Search runs the full retrieval pipeline: validate, resolve the bucket
// scope from the principal, retrieve candidates, filter and paginate, then
// optionally synthesize an answer over the returned page. Synthesis is
// best-effort; retrieval failures are fatal.
func (s *searchService) Search(ctx context.Context, principal entity.Principal, req *dto.SearchRequest) (*dto.SearchResponse, error) {
	start := time.Now()

	query, err := s.normalize(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	buckets := s.resolver.Resolve(principal, query.Scope)

	cacheKey := ""
	if s.cache != nil {
		cacheKey = s.cache.Key(query.Text, buckets, query.Limit, query.Offset)
		var cached dto.SearchResponse
		if s.cache.Get(ctx, cacheKey, &cached) {
			metrics.SearchRequestsTotal.WithLabelValues("cache_hit").Inc()
			return &cached, nil
		}
	}

	raw, err := s.engine.Search(ctx, query.Text, buckets, s.topK)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	composed := s.composer.Compose(raw, buckets, query.Limit, query.Offset)

	resp := &dto.SearchResponse{
		Results: make([]dto.SearchResultDTO, 0, len(composed.Fragments)),
		Total:   composed.Total,
		Query:   query.Text,
	}
	for _, f := range composed.Fragments {
		resp.Results = append(resp.Results, dto.SearchResultDTO{
			FragmentId: f.Id,
			DocumentId: f.DocumentId,
			Filename:   f.Filename,
			Content:    f.Content,
			Relevance:  f.Relevance,
			Bucket:     string(f.Bucket),
		})
	}

	if len(composed.Fragments) > 0 {
		answer, outcome := s.synthesizer.Synthesize(ctx, query.Text, composed.Fragments)
		if answer != nil {
			resp.Answer = &answer.Text
			resp.LlmUsed = &answer.ModelID
		} else if outcome != synthesis.OutcomeSkipped {
			s.logger.Warn("search", "serving results without answer", map[string]interface{}{
				"outcome": string(outcome),
			})
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, resp)
	}

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	return resp, nil
}

// normalize validates the raw request and produces the canonical query.
// The echoed query text is the trimmed form.
func (s *searchService) normalize(req *dto.SearchRequest) (*entity.SearchQuery, error) {
	text := strings.TrimSpace(req.Query)
	if text == "" {
		return nil, apperr.Validation("query text must not be empty")
	}

	scopeHint := entity.ScopeHint(req.Scope)
	if req.Scope == "" {
		scopeHint = entity.ScopeHintAll
	} else if !scopeHint.IsValid() {
		return nil, apperr.Validation("unknown scope")
	}

	limit := req.Limit
	if limit == 0 {
		limit = entity.DefaultSearchLimit
	}
	if limit < 0 {
		return nil, apperr.Validation("limit must be positive")
	}

	if req.Offset < 0 {
		return nil, apperr.Validation("offset must not be negative")
	}

	return &entity.SearchQuery{
		Text:   text,
		Scope:  scopeHint,
		Limit:  limit,
		Offset: req.Offset,
	}, nil
}
