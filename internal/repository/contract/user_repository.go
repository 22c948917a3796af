package contract

import (
	"context"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Lifecycle mutations. Both target a single row and rely on the
	// database to serialize concurrent writers.
	UpdateActive(ctx context.Context, id uuid.UUID, isActive bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}
