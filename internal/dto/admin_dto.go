package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminListUsersRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

type AdminUserResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AdminListUsersResponse struct {
	Users []AdminUserResponse `json:"users"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type AdminToggleActiveResponse struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	IsActive bool      `json:"is_active"`
}

// AdminResetCredentialResponse carries the plaintext credential. It is
// returned exactly once and never persisted or logged.
type AdminResetCredentialResponse struct {
	Id         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Credential string    `json:"credential"`
}
