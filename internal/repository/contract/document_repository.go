package contract

import (
	"context"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/repository/specification"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
}
