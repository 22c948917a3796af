package unitofwork

import (
	"context"

	"doc-knowledge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentRepository() contract.DocumentRepository
	FragmentRepository() contract.FragmentRepository
}
