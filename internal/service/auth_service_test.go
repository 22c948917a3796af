package service

import (
	"context"
	"testing"
	"time"

	"doc-knowledge-be/internal/dto"
	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func seedLoginUser(password string, active bool) *entity.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	hashStr := string(hash)
	return &entity.User{
		Id:           uuid.New(),
		Email:        "login@example.com",
		FullName:     "Login User",
		PasswordHash: &hashStr,
		Role:         entity.UserRoleUser,
		IsActive:     active,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func newTestAuthService(repo *fakeUserRepo) IAuthService {
	factory := &fakeUowFactory{uow: &fakeUow{userRepo: repo}}
	return NewAuthService(factory, testSecret, time.Hour)
}

func TestLoginIssuesTokenWithPrincipalClaims(t *testing.T) {
	u := seedLoginUser("correct-password", true)
	svc := newTestAuthService(newFakeUserRepo(u))

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: u.Email, Password: "correct-password"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, u.Id, resp.User.Id)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, u.Id.String(), claims["user_id"])
	assert.Equal(t, string(entity.UserRoleUser), claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	u := seedLoginUser("correct-password", true)
	svc := newTestAuthService(newFakeUserRepo(u))

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: u.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}

func TestLoginUnknownEmailSameAnswerAsWrongPassword(t *testing.T) {
	u := seedLoginUser("correct-password", true)
	svc := newTestAuthService(newFakeUserRepo(u))

	_, errUnknown := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
	_, errWrong := svc.Login(context.Background(), &dto.LoginRequest{Email: u.Email, Password: "wrong"})

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLoginDeactivatedUserRejected(t *testing.T) {
	u := seedLoginUser("correct-password", false)
	svc := newTestAuthService(newFakeUserRepo(u))

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: u.Email, Password: "correct-password"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
}
