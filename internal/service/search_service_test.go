package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/pkg/llm"
	"doc-knowledge-be/pkg/retrieval/compose"
	"doc-knowledge-be/pkg/retrieval/scope"
	"doc-knowledge-be/pkg/retrieval/synthesis"

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

// fakeEngine returns a scripted fragment list and records invocations.
type fakeEngine struct {
	fragments []*entity.Fragment
	err       error
	calls     int
	buckets   []entity.Bucket
}

func (f *fakeEngine) Search(ctx context.Context, text string, buckets []entity.Bucket, topK int) ([]*entity.Fragment, error) {
	f.calls++
	f.buckets = buckets
	if f.err != nil {
		return nil, f.err
	}
	return f.fragments, nil
}

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, nil)
}

func (f *fakeLLM) ModelID() string { return "fake/model" }

func publicFrag(relevance float64) *entity.Fragment {
	return &entity.Fragment{
		Id:         uuid.New(),
		DocumentId: uuid.New(),
		Filename:   "public.md",
		Content:    "public content",
		Relevance:  relevance,
		Bucket:     entity.BucketPublic,
	}
}

func confidentialFrag(relevance float64) *entity.Fragment {
	f := publicFrag(relevance)
	f.Filename = "secret.md"
	f.Bucket = entity.BucketConfidential
	return f
}

func newTestSearchService(eng *fakeEngine, provider llm.LLMProvider) ISearchService {
	synthesizer := synthesis.NewSynthesizer(provider, nopLogger{}, time.Second, 5, 0)
	return NewSearchService(
		scope.NewResolver(),
		eng,
		compose.NewComposer(),
		synthesizer,
		nil,
		nopLogger{},
		200,
	)
}

func TestSearchFiltersConfidentialForRegularUser(t *testing.T) {
	// The engine misbehaves and returns confidential fragments despite
	// the public-only bucket list; the composer must drop them.
	eng := &fakeEngine{fragments: []*entity.Fragment{
		publicFrag(0.9),
		confidentialFrag(0.8),
		publicFrag(0.7),
		confidentialFrag(0.6),
		publicFrag(0.5),
	}}
	svc := newTestSearchService(eng, &fakeLLM{reply: "an answer"})

	principal := entity.Principal{Id: uuid.New(), Role: entity.UserRoleUser}
	resp, err := svc.Search(context.Background(), principal, &dto.SearchRequest{Query: "payroll", Scope: "all"})

	require.NoError(t, err)
	assert.Equal(t, []entity.Bucket{entity.BucketPublic}, eng.buckets)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.Equal(t, string(entity.BucketPublic), r.Bucket)
	}
	// Relevance order preserved.
	assert.Equal(t, 0.9, resp.Results[0].Relevance)
	assert.Equal(t, 0.7, resp.Results[1].Relevance)
	assert.Equal(t, 0.5, resp.Results[2].Relevance)
}

func TestSearchAdminSeesAllBuckets(t *testing.T) {
	eng := &fakeEngine{fragments: []*entity.Fragment{
		publicFrag(0.9),
		confidentialFrag(0.8),
	}}
	svc := newTestSearchService(eng, &fakeLLM{reply: "an answer"})

	principal := entity.Principal{Id: uuid.New(), Role: entity.UserRoleAdmin}
	resp, err := svc.Search(context.Background(), principal, &dto.SearchRequest{Query: "payroll", Scope: "all"})

	require.NoError(t, err)
	assert.Equal(t, entity.AllBuckets(), eng.buckets)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Results, 2)
}

func TestSearchEmptyQueryRejectedBeforeRetrieval(t *testing.T) {
	eng := &fakeEngine{}
	provider := &fakeLLM{reply: "never"}
	svc := newTestSearchService(eng, provider)

	_, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "   "})

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, eng.calls)
	assert.Zero(t, provider.calls)
}

func TestSearchUnknownScopeRejected(t *testing.T) {
	eng := &fakeEngine{}
	svc := newTestSearchService(eng, &fakeLLM{})

	_, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q", Scope: "everything"})

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, eng.calls)
}

func TestSearchNegativeOffsetRejected(t *testing.T) {
	eng := &fakeEngine{}
	svc := newTestSearchService(eng, &fakeLLM{})

	_, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q", Offset: -1})

	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSearchQueryEchoIsTrimmed(t *testing.T) {
	eng := &fakeEngine{fragments: []*entity.Fragment{publicFrag(0.9)}}
	svc := newTestSearchService(eng, &fakeLLM{reply: "a"})

	resp, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "  payroll  "})

	require.NoError(t, err)
	assert.Equal(t, "payroll", resp.Query)
}

func TestSearchEngineFailureIsUpstream(t *testing.T) {
	eng := &fakeEngine{err: apperr.Upstream("retrieval engine unavailable", errors.New("dial tcp"))}
	svc := newTestSearchService(eng, &fakeLLM{})

	_, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q"})

	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestSearchAnswerPresentOnlyOnSynthesisSuccess(t *testing.T) {
	eng := &fakeEngine{fragments: []*entity.Fragment{publicFrag(0.9)}}
	svc := newTestSearchService(eng, &fakeLLM{reply: "the answer"})

	resp, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q"})

	require.NoError(t, err)
	require.NotNil(t, resp.Answer)
	assert.Equal(t, "the answer", *resp.Answer)
	require.NotNil(t, resp.LlmUsed)
	assert.Equal(t, "fake/model", *resp.LlmUsed)
}

func TestSearchSynthesisFailureStillReturnsResults(t *testing.T) {
	eng := &fakeEngine{fragments: []*entity.Fragment{publicFrag(0.9), publicFrag(0.8)}}
	svc := newTestSearchService(eng, &fakeLLM{err: errors.New("model down")})

	resp, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
	assert.Nil(t, resp.Answer)
	assert.Nil(t, resp.LlmUsed)
}

func TestSearchNoResultsSkipsSynthesis(t *testing.T) {
	eng := &fakeEngine{fragments: nil}
	provider := &fakeLLM{reply: "never"}
	svc := newTestSearchService(eng, provider)

	resp, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, resp.Total)
	assert.Nil(t, resp.Answer)
	assert.Nil(t, resp.LlmUsed)
	assert.Zero(t, provider.calls)
}

func TestSearchOffsetBeyondResultsSkipsSynthesis(t *testing.T) {
	eng := &fakeEngine{fragments: []*entity.Fragment{publicFrag(0.9)}}
	provider := &fakeLLM{reply: "never"}
	svc := newTestSearchService(eng, provider)

	resp, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q", Offset: 10})

	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 1, resp.Total)
	assert.Nil(t, resp.Answer)
	assert.Zero(t, provider.calls)
}

func TestSearchDefaultLimitApplied(t *testing.T) {
	frags := make([]*entity.Fragment, 60)
	for i := range frags {
		frags[i] = publicFrag(float64(60-i) / 60)
	}
	eng := &fakeEngine{fragments: frags}
	svc := newTestSearchService(eng, &fakeLLM{reply: "a"})

	resp, err := svc.Search(context.Background(), entity.AnonymousPrincipal(), &dto.SearchRequest{Query: "q"})

	require.NoError(t, err)
	assert.Len(t, resp.Results, entity.DefaultSearchLimit)
	assert.Equal(t, 60, resp.Total)
}
