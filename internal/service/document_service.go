package service

import (
	"context"
	"encoding/json"
	"time"

	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/repository/specification"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/retrieval/scope"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, principal entity.Principal, req *dto.IngestDocumentRequest) (*dto.DocumentResponse, error)
	List(ctx context.Context, principal entity.Principal) ([]dto.DocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	resolver         *scope.Resolver
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, resolver *scope.Resolver) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		resolver:         resolver,
	}
}

// Ingest stores a document and schedules asynchronous fragment embedding.
// Only elevated principals may add documents; bucket assignment is part of
// the access-control surface.
func (s *documentService) Ingest(ctx context.Context, principal entity.Principal, req *dto.IngestDocumentRequest) (*dto.DocumentResponse, error) {
	if principal.Anonymous || !principal.Role.IsElevated() {
		return nil, apperr.PermissionDenied("document ingestion requires an administrator")
	}

	bucket := entity.Bucket(req.Bucket)
	if !bucket.IsValid() {
		return nil, apperr.Validation("unknown bucket")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	doc := &entity.Document{
		Id:        uuid.New(),
		Filename:  req.Filename,
		Bucket:    bucket,
		Content:   req.Content,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.DocumentRepository().Create(ctx, doc); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishEmbedDocumentMessage{DocumentId: doc.Id}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.DocumentResponse{
		Id:        doc.Id,
		Filename:  doc.Filename,
		Bucket:    string(doc.Bucket),
		CreatedAt: doc.CreatedAt,
	}, nil
}

// List returns the documents visible to the caller, newest first. The
// same bucket resolution as search applies, so regular users only ever
// see public documents.
func (s *documentService) List(ctx context.Context, principal entity.Principal) ([]dto.DocumentResponse, error) {
	buckets := s.resolver.Resolve(principal, entity.ScopeHintAll)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByBuckets{Buckets: buckets},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, dto.DocumentResponse{
			Id:        d.Id,
			Filename:  d.Filename,
			Bucket:    string(d.Bucket),
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
