package serverutils

import (
	"errors"

	"doc-knowledge-be/internal/pkg/apperr"
	"doc-knowledge-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into JSON
// responses. Classified errors map to stable statuses; anything else is a
// 500 with a generic message, the detail stays in the log.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message, "http_error"))
		}

		kind := apperr.KindOf(err)
		status := statusForKind(kind)

		message := "internal server error"
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			message = appErr.PublicMessage()
		}

		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"path":  ctx.Path(),
				"error": err.Error(),
			})
			message = "internal server error"
		}

		return ctx.Status(status).JSON(ErrorResponse(message, string(kind)))
	}
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindPermissionDenied:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindUpstream:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
