package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleAdmin     UserRole = "admin"
	UserRoleSuperuser UserRole = "superuser"
)

// IsElevated reports whether the role may invoke administrative operations.
func (r UserRole) IsElevated() bool {
	return r == UserRoleAdmin || r == UserRoleSuperuser
}

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the caller identity resolved from the bearer credential.
// Every service operation takes it explicitly; nothing reads ambient
// session state.
type Principal struct {
	Id        uuid.UUID
	Role      UserRole
	Anonymous bool
}

// AnonymousPrincipal is the identity used for unauthenticated calls.
// Search stays available to it with public scope only.
func AnonymousPrincipal() Principal {
	return Principal{Anonymous: true}
}
