package engine

import (
	"context"
	"errors"
	"testing"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/repository/contract"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.6, 0.8}},
	}, nil
}

// fakeFragmentRepo returns scripted scores and records the threshold it
// was asked to apply.
type fakeFragmentRepo struct {
	scored        []*contract.ScoredFragment
	err           error
	minSimilarity float64
	calls         int
}

func (f *fakeFragmentRepo) Create(ctx context.Context, frag *entity.Fragment, emb []float32) error {
	return nil
}

func (f *fakeFragmentRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return nil
}

func (f *fakeFragmentRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, buckets []entity.Bucket, minSimilarity float64) ([]*contract.ScoredFragment, error) {
	f.calls++
	f.minSimilarity = minSimilarity
	if f.err != nil {
		return nil, f.err
	}
	return f.scored, nil
}

type fakeUow struct {
	fragments contract.FragmentRepository
}

func (f *fakeUow) Begin(ctx context.Context) error                 { return nil }
func (f *fakeUow) Commit() error                                   { return nil }
func (f *fakeUow) Rollback() error                                 { return nil }
func (f *fakeUow) UserRepository() contract.UserRepository         { return nil }
func (f *fakeUow) DocumentRepository() contract.DocumentRepository { return nil }
func (f *fakeUow) FragmentRepository() contract.FragmentRepository { return f.fragments }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func scoredFragment(content string, similarity float64) *contract.ScoredFragment {
	return &contract.ScoredFragment{
		Fragment: &entity.Fragment{
			Id:      uuid.New(),
			Content: content,
			Bucket:  entity.BucketPublic,
		},
		Similarity: similarity,
	}
}

func newTestEngine(repo *fakeFragmentRepo, minSimilarity float64) Engine {
	factory := &fakeUowFactory{uow: &fakeUow{fragments: repo}}
	return NewVectorEngine(factory, &fakeEmbedder{}, nopLogger{}, 50, minSimilarity)
}

func TestVectorEngine_RelevanceStaysWithinUnitInterval(t *testing.T) {
	// Raw cosine similarity spans [-1, 1] and float rounding can push it
	// past 1. Neither end may reach callers.
	repo := &fakeFragmentRepo{
		scored: []*contract.ScoredFragment{
			scoredFragment("rounding artifact", 1.0000001),
			scoredFragment("good match", 0.5),
			scoredFragment("opposite direction", -0.3),
		},
	}
	eng := newTestEngine(repo, 0)

	fragments, err := eng.Search(context.Background(), "query", []entity.Bucket{entity.BucketPublic}, 10)
	require.NoError(t, err)

	require.Len(t, fragments, 2)
	assert.Equal(t, 1.0, fragments[0].Relevance)
	assert.Equal(t, 0.5, fragments[1].Relevance)
	for _, f := range fragments {
		assert.GreaterOrEqual(t, f.Relevance, 0.0)
		assert.LessOrEqual(t, f.Relevance, 1.0)
	}
}

func TestVectorEngine_PassesThresholdToStore(t *testing.T) {
	repo := &fakeFragmentRepo{
		scored: []*contract.ScoredFragment{
			scoredFragment("strong", 0.9),
			scoredFragment("weak", 0.2),
		},
	}
	eng := newTestEngine(repo, 0.35)

	fragments, err := eng.Search(context.Background(), "query", []entity.Bucket{entity.BucketPublic}, 10)
	require.NoError(t, err)

	assert.Equal(t, 0.35, repo.minSimilarity)
	// A stale or misbehaving store row below the threshold is dropped
	// again engine-side.
	require.Len(t, fragments, 1)
	assert.Equal(t, 0.9, fragments[0].Relevance)
}

func TestVectorEngine_NegativeThresholdTreatedAsZero(t *testing.T) {
	repo := &fakeFragmentRepo{scored: []*contract.ScoredFragment{scoredFragment("match", 0.4)}}
	eng := newTestEngine(repo, -1)

	_, err := eng.Search(context.Background(), "query", []entity.Bucket{entity.BucketPublic}, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, repo.minSimilarity)
}

func TestVectorEngine_EmbeddingFailureIsUpstream(t *testing.T) {
	repo := &fakeFragmentRepo{}
	factory := &fakeUowFactory{uow: &fakeUow{fragments: repo}}
	eng := NewVectorEngine(factory, &fakeEmbedder{err: errors.New("connection refused")}, nopLogger{}, 50, 0)

	_, err := eng.Search(context.Background(), "query", []entity.Bucket{entity.BucketPublic}, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Equal(t, 0, repo.calls)
}

func TestVectorEngine_StoreFailureIsUpstream(t *testing.T) {
	repo := &fakeFragmentRepo{err: errors.New("connection reset")}
	eng := newTestEngine(repo, 0)

	_, err := eng.Search(context.Background(), "query", []entity.Bucket{entity.BucketPublic}, 10)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}
