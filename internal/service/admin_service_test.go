package service

import (
	"context"
	"testing"
	"time"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/repository/contract"
	"doc-knowledge-be/internal/repository/specification"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/admin/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory user store that interprets the lookup
// specifications the services actually use.
type fakeUserRepo struct {
	users           map[uuid.UUID]*entity.User
	passwordUpdates int
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	m := make(map[uuid.UUID]*entity.User)
	for _, u := range users {
		m[u.Id] = u
	}
	return &fakeUserRepo{users: m}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.users[u.Id] = u
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error {
	r.users[u.Id] = u
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u, ok := r.users[s.ID]; ok {
				copied := *u
				return &copied, nil
			}
			return nil, nil
		case specification.ByEmail:
			for _, u := range r.users {
				if u.Email == s.Email {
					copied := *u
					return &copied, nil
				}
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) UpdateActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	if u, ok := r.users[id]; ok {
		u.IsActive = isActive
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	r.passwordUpdates++
	if u, ok := r.users[id]; ok {
		u.PasswordHash = &hash
	}
	return nil
}

type fakeUow struct {
	userRepo *fakeUserRepo
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }

func (f *fakeUow) UserRepository() contract.UserRepository         { return f.userRepo }
func (f *fakeUow) DocumentRepository() contract.DocumentRepository { return nil }
func (f *fakeUow) FragmentRepository() contract.FragmentRepository { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeEventPublisher struct {
	statusToggles     int
	credentialRotates int
}

func (f *fakeEventPublisher) PublishUserStatusToggled(ctx context.Context, userId uuid.UUID, email string, isActive bool, actorId string) {
	f.statusToggles++
}

func (f *fakeEventPublisher) PublishUserCredentialRotated(ctx context.Context, userId uuid.UUID, email string, actorId string) {
	f.credentialRotates++
}

type fakeMailer struct{}

func (fakeMailer) SendStatusChanged(string, bool) error { return nil }
func (fakeMailer) SendCredentialRotated(string) error   { return nil }

func seedTestUser(role entity.UserRole, active bool) *entity.User {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	return &entity.User{
		Id:           uuid.New(),
		Email:        string(role) + "@example.com",
		FullName:     "Test " + string(role),
		PasswordHash: &hash,
		Role:         role,
		IsActive:     active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func newTestAdminService(repo *fakeUserRepo, publisher *fakeEventPublisher) IAdminService {
	manager := user.NewManager(nopLogger{}, publisher, 18)
	factory := &fakeUowFactory{uow: &fakeUow{userRepo: repo}}
	return NewAdminService(factory, nopLogger{}, manager, fakeMailer{})
}

func adminPrincipal() entity.Principal {
	return entity.Principal{Id: uuid.New(), Role: entity.UserRoleAdmin}
}

func TestGetAllUsersRequiresElevation(t *testing.T) {
	repo := newFakeUserRepo(seedTestUser(entity.UserRoleUser, true))
	svc := newTestAdminService(repo, &fakeEventPublisher{})

	_, err := svc.GetAllUsers(context.Background(), entity.Principal{Id: uuid.New(), Role: entity.UserRoleUser}, 1, 10, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))

	_, err = svc.GetAllUsers(context.Background(), entity.AnonymousPrincipal(), 1, 10, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestGetAllUsersReturnsDirectory(t *testing.T) {
	repo := newFakeUserRepo(
		seedTestUser(entity.UserRoleUser, true),
		seedTestUser(entity.UserRoleAdmin, true),
	)
	svc := newTestAdminService(repo, &fakeEventPublisher{})

	resp, err := svc.GetAllUsers(context.Background(), adminPrincipal(), 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Len(t, resp.Users, 2)
}

func TestToggleUserActiveFlipsState(t *testing.T) {
	target := seedTestUser(entity.UserRoleUser, true)
	repo := newFakeUserRepo(target)
	publisher := &fakeEventPublisher{}
	svc := newTestAdminService(repo, publisher)

	resp, err := svc.ToggleUserActive(context.Background(), adminPrincipal(), target.Id)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.False(t, repo.users[target.Id].IsActive)

	// A second toggle restores the original state.
	resp, err = svc.ToggleUserActive(context.Background(), adminPrincipal(), target.Id)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.True(t, repo.users[target.Id].IsActive)

	assert.Equal(t, 2, publisher.statusToggles)
}

func TestToggleUserActiveUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAdminService(repo, &fakeEventPublisher{})

	_, err := svc.ToggleUserActive(context.Background(), adminPrincipal(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestToggleUserActiveRequiresElevation(t *testing.T) {
	target := seedTestUser(entity.UserRoleUser, true)
	repo := newFakeUserRepo(target)
	svc := newTestAdminService(repo, &fakeEventPublisher{})

	_, err := svc.ToggleUserActive(context.Background(), entity.Principal{Id: uuid.New(), Role: entity.UserRoleUser}, target.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.True(t, repo.users[target.Id].IsActive)
}

func TestResetUserCredentialReturnsPlaintextOnce(t *testing.T) {
	target := seedTestUser(entity.UserRoleUser, true)
	oldHash := *target.PasswordHash
	repo := newFakeUserRepo(target)
	publisher := &fakeEventPublisher{}
	svc := newTestAdminService(repo, publisher)

	resp, err := svc.ResetUserCredential(context.Background(), adminPrincipal(), target.Id)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Credential)

	stored := repo.users[target.Id].PasswordHash
	require.NotNil(t, stored)

	// Only the bcrypt hash is persisted, and it matches the plaintext.
	assert.NotEqual(t, resp.Credential, *stored)
	assert.NotEqual(t, oldHash, *stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*stored), []byte(resp.Credential)))

	assert.Equal(t, 1, publisher.credentialRotates)
}

func TestResetUserCredentialUnknownUserBeforeGeneration(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAdminService(repo, &fakeEventPublisher{})

	_, err := svc.ResetUserCredential(context.Background(), adminPrincipal(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Zero(t, repo.passwordUpdates)
}

func TestResetUserCredentialRequiresElevation(t *testing.T) {
	target := seedTestUser(entity.UserRoleUser, true)
	repo := newFakeUserRepo(target)
	svc := newTestAdminService(repo, &fakeEventPublisher{})

	_, err := svc.ResetUserCredential(context.Background(), entity.Principal{Id: uuid.New(), Role: entity.UserRoleUser}, target.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Zero(t, repo.passwordUpdates)
}
