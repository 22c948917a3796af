package service

import (
	"context"
	"encoding/json"
	"testing"

	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/repository/contract"
	"doc-knowledge-be/internal/repository/specification"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/retrieval/scope"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocumentRepo struct {
	created []*entity.Document
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	r.created = append(r.created, doc)
	return nil
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return nil, nil
}

type fakeDocUow struct {
	fakeUow
	docRepo *fakeDocumentRepo
}

func (f *fakeDocUow) DocumentRepository() contract.DocumentRepository { return f.docRepo }

type fakeDocUowFactory struct {
	uow *fakeDocUow
}

func (f *fakeDocUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newTestDocumentService(docRepo *fakeDocumentRepo, publisher IPublisherService) IDocumentService {
	factory := &fakeDocUowFactory{uow: &fakeDocUow{docRepo: docRepo}}
	return NewDocumentService(factory, publisher, scope.NewResolver())
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestIngestRequiresElevation(t *testing.T) {
	docRepo := &fakeDocumentRepo{}
	publisher := &fakePublisher{}
	svc := newTestDocumentService(docRepo, publisher)

	req := &dto.IngestDocumentRequest{Filename: "a.md", Content: "text", Bucket: "public"}

	_, err := svc.Ingest(context.Background(), entity.Principal{Id: uuid.New(), Role: entity.UserRoleUser}, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Empty(t, docRepo.created)
	assert.Empty(t, publisher.payloads)
}

func TestIngestRejectsUnknownBucket(t *testing.T) {
	docRepo := &fakeDocumentRepo{}
	publisher := &fakePublisher{}
	svc := newTestDocumentService(docRepo, publisher)

	req := &dto.IngestDocumentRequest{Filename: "a.md", Content: "text", Bucket: "internal"}

	_, err := svc.Ingest(context.Background(), entity.Principal{Id: uuid.New(), Role: entity.UserRoleAdmin}, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, docRepo.created)
}

func TestIngestStoresAndSchedulesEmbedding(t *testing.T) {
	docRepo := &fakeDocumentRepo{}
	publisher := &fakePublisher{}
	svc := newTestDocumentService(docRepo, publisher)

	req := &dto.IngestDocumentRequest{Filename: "guide.md", Content: "long text", Bucket: "confidential"}

	resp, err := svc.Ingest(context.Background(), entity.Principal{Id: uuid.New(), Role: entity.UserRoleSuperuser}, req)
	require.NoError(t, err)
	require.Len(t, docRepo.created, 1)
	assert.Equal(t, entity.BucketConfidential, docRepo.created[0].Bucket)
	assert.Equal(t, "long text", docRepo.created[0].Content)

	require.Len(t, publisher.payloads, 1)
	var msg dto.PublishEmbedDocumentMessage
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &msg))
	assert.Equal(t, resp.Id, msg.DocumentId)
}
