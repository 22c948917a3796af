package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/pkg/logger"
	"doc-knowledge-be/internal/repository/specification"
	"doc-knowledge-be/internal/repository/unitofwork"
	adminEvents "doc-knowledge-be/pkg/admin/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Manager handles user lifecycle admin operations. Authorization is the
// caller's concern; the manager assumes the acting principal has already
// been vetted.
type Manager struct {
	logger         logger.ILogger
	publisher      adminEvents.Publisher
	credentialSize int
}

func NewManager(logger logger.ILogger, publisher adminEvents.Publisher, credentialSize int) *Manager {
	if credentialSize <= 0 {
		credentialSize = 24
	}
	return &Manager{
		logger:         logger,
		publisher:      publisher,
		credentialSize: credentialSize,
	}
}

// FindAll retrieves users with pagination and optional search over email
// and full name.
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int, search string) ([]*entity.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	specs := []specification.Specification{}
	if search != "" {
		specs = append(specs, specification.SearchTerm{Term: search})
	}

	total, err := uow.UserRepository().Count(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}

	users, err := uow.UserRepository().FindAll(ctx, append(specs,
		specification.Pagination{Limit: limit, Offset: offset},
		specification.OrderBy{Field: "created_at", Desc: true},
	)...)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// FindOne retrieves a single user by ID.
func (m *Manager) FindOne(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	return uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
}

// ToggleActive flips the activation state of a user and returns the user
// with the new state. Two consecutive toggles restore the original state.
func (m *Manager) ToggleActive(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, actorId string) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	newState := !user.IsActive
	if err := uow.UserRepository().UpdateActive(ctx, userId, newState); err != nil {
		return nil, err
	}
	user.IsActive = newState

	m.logger.Info("ADMIN", "Toggled user activation", map[string]interface{}{
		"userId":   userId.String(),
		"isActive": newState,
		"actorId":  actorId,
	})
	m.publisher.PublishUserStatusToggled(ctx, user.Id, user.Email, newState, actorId)

	return user, nil
}

// RotateCredential generates a fresh credential for the user, persists
// only its bcrypt hash, and returns the plaintext. The plaintext exists
// nowhere else; this return is the single time it is visible.
func (m *Manager) RotateCredential(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, actorId string) (*entity.User, string, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperr.NotFound("user not found")
	}

	plaintext, err := generateCredential(m.credentialSize)
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	if err := uow.UserRepository().UpdatePassword(ctx, userId, string(hash)); err != nil {
		return nil, "", err
	}
	hashStr := string(hash)
	user.PasswordHash = &hashStr

	m.logger.Info("ADMIN", "Rotated user credential", map[string]interface{}{
		"userId":  userId.String(),
		"actorId": actorId,
	})
	m.publisher.PublishUserCredentialRotated(ctx, user.Id, user.Email, actorId)

	return user, plaintext, nil
}

// generateCredential returns a URL-safe random string with n bytes of
// entropy.
func generateCredential(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
