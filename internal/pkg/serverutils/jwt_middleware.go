package serverutils

import (
	"os"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const principalKey = "principal"

// JwtMiddleware requires a valid bearer token and stores the resolved
// principal in the request locals. A missing or invalid token rejects the
// call with the same permission_denied kind the services use, so protected
// routes answer 403 whether the caller is credential-less or under-privileged.
func JwtMiddleware(ctx *fiber.Ctx) error {
	principal, ok := principalFromHeader(ctx)
	if !ok {
		return apperr.PermissionDenied("missing or invalid token")
	}
	ctx.Locals(principalKey, principal)
	return ctx.Next()
}

// OptionalJwtMiddleware resolves the principal when a token is present and
// falls back to the anonymous principal otherwise. Used on endpoints that
// serve unauthenticated callers with reduced scope.
func OptionalJwtMiddleware(ctx *fiber.Ctx) error {
	if principal, ok := principalFromHeader(ctx); ok {
		ctx.Locals(principalKey, principal)
	} else {
		ctx.Locals(principalKey, entity.AnonymousPrincipal())
	}
	return ctx.Next()
}

// GetPrincipal returns the principal placed by the middleware, defaulting
// to anonymous when the route ran without auth middleware.
func GetPrincipal(ctx *fiber.Ctx) entity.Principal {
	if p, ok := ctx.Locals(principalKey).(entity.Principal); ok {
		return p
	}
	return entity.AnonymousPrincipal()
}

func principalFromHeader(ctx *fiber.Ctx) (entity.Principal, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return entity.Principal{}, false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return entity.Principal{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Principal{}, false
	}

	idStr, _ := claims["user_id"].(string)
	roleStr, _ := claims["role"].(string)

	id, err := uuid.Parse(idStr)
	if err != nil {
		return entity.Principal{}, false
	}

	return entity.Principal{
		Id:   id,
		Role: entity.UserRole(roleStr),
	}, true
}
