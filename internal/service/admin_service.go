package service

import (
	"context"

	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/metrics"
	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/pkg/logger"
	"doc-knowledge-be/internal/pkg/mailer"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/pkg/admin/user"

	"github.com/google/uuid"
)

type IAdminService interface {
	// User Lifecycle Management
	GetAllUsers(ctx context.Context, principal entity.Principal, page, limit int, search string) (*dto.AdminListUsersResponse, error)
	ToggleUserActive(ctx context.Context, principal entity.Principal, userId uuid.UUID) (*dto.AdminToggleActiveResponse, error)
	ResetUserCredential(ctx context.Context, principal entity.Principal, userId uuid.UUID) (*dto.AdminResetCredentialResponse, error)
}

type adminService struct {
	uowFactory   unitofwork.RepositoryFactory
	logger       logger.ILogger
	userManager  *user.Manager
	emailService mailer.IEmailService
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	userManager *user.Manager,
	emailService mailer.IEmailService,
) IAdminService {
	return &adminService{
		uowFactory:   uowFactory,
		logger:       logger,
		userManager:  userManager,
		emailService: emailService,
	}
}

// authorize rejects callers that are not admins or superusers. It runs
// before any side effect in every admin operation.
func (s *adminService) authorize(principal entity.Principal) error {
	if principal.Anonymous || !principal.Role.IsElevated() {
		return apperr.PermissionDenied("administrative privileges required")
	}
	return nil
}

func (s *adminService) GetAllUsers(ctx context.Context, principal entity.Principal, page, limit int, search string) (*dto.AdminListUsersResponse, error) {
	if err := s.authorize(principal); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, total, err := s.userManager.FindAll(ctx, uow, page, limit, search)
	if err != nil {
		return nil, err
	}

	resp := &dto.AdminListUsersResponse{
		Users: make([]dto.AdminUserResponse, 0, len(users)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, dto.AdminUserResponse{
			Id:        u.Id,
			Email:     u.Email,
			FullName:  u.FullName,
			Role:      string(u.Role),
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
		})
	}
	return resp, nil
}

// ToggleUserActive flips the target's activation state. The operation is
// a pure toggle: calling it twice restores the original state.
func (s *adminService) ToggleUserActive(ctx context.Context, principal entity.Principal, userId uuid.UUID) (*dto.AdminToggleActiveResponse, error) {
	if err := s.authorize(principal); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, err := s.userManager.ToggleActive(ctx, uow, userId, principal.Id.String())
	if err != nil {
		return nil, err
	}

	metrics.AdminMutationsTotal.WithLabelValues("toggle_active").Inc()

	go func() {
		if mailErr := s.emailService.SendStatusChanged(updated.Email, updated.IsActive); mailErr != nil {
			s.logger.Warn("ADMIN", "Failed to send status notice", map[string]interface{}{
				"userId": updated.Id.String(),
				"error":  mailErr.Error(),
			})
		}
	}()

	return &dto.AdminToggleActiveResponse{
		Id:       updated.Id,
		Email:    updated.Email,
		IsActive: updated.IsActive,
	}, nil
}

// ResetUserCredential rotates the target's credential and returns the
// plaintext exactly once. Authorization and existence are checked before
// any credential material is generated.
func (s *adminService) ResetUserCredential(ctx context.Context, principal entity.Principal, userId uuid.UUID) (*dto.AdminResetCredentialResponse, error) {
	if err := s.authorize(principal); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, plaintext, err := s.userManager.RotateCredential(ctx, uow, userId, principal.Id.String())
	if err != nil {
		return nil, err
	}

	metrics.AdminMutationsTotal.WithLabelValues("reset_credential").Inc()

	// Courtesy notice only; the credential itself never goes to mail.
	go func() {
		if mailErr := s.emailService.SendCredentialRotated(updated.Email); mailErr != nil {
			s.logger.Warn("ADMIN", "Failed to send credential notice", map[string]interface{}{
				"userId": updated.Id.String(),
				"error":  mailErr.Error(),
			})
		}
	}()

	return &dto.AdminResetCredentialResponse{
		Id:         updated.Id,
		Email:      updated.Email,
		Credential: plaintext,
	}, nil
}
