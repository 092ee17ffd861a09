package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskline/internal/service"
	"taskline/pkg/logger"
)

var validate = validator.New()

// parseBody decodes the request body into dst and runs its validate tags.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return errBadRequest{err}
	}
	if err := validate.Struct(dst); err != nil {
		return errBadRequest{err}
	}
	return nil
}

type errBadRequest struct{ err error }

func (e errBadRequest) Error() string { return e.err.Error() }
func (e errBadRequest) Unwrap() error { return service.ErrValidation }

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrWeakCredential),
		errors.Is(err, service.ErrDuplicateUser):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError maps err onto a status code and the error envelope. Internal
// errors are logged with detail but answered with a generic message.
func writeError(c *fiber.Ctx, op string, err error) error {
	status := statusOf(err)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("path", c.Path()),
		zap.Error(err),
	}

	body := fiber.Map{
		"success": false,
		"status":  status,
	}
	switch status {
	case fiber.StatusInternalServerError:
		logger.ErrorLogger.Error(op+" failed", fields...)
		body["message"] = "Internal server error"
		return c.Status(status).JSON(body)
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		logger.SecurityLogger.Warn(op+" denied", fields...)
	default:
		logger.AuditLogger.Warn(op+" rejected", fields...)
	}
	body["message"] = messageOf(err)
	body["error"] = err.Error()
	return c.Status(status).JSON(body)
}

func messageOf(err error) string {
	for _, sentinel := range []error{
		service.ErrInvalidCredentials,
		service.ErrDuplicateUser,
		service.ErrWeakCredential,
		service.ErrTokenExpired,
		service.ErrTokenInvalid,
		service.ErrUserNotFound,
		service.ErrForbidden,
		service.ErrNotFound,
		service.ErrConflict,
		service.ErrValidation,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func writeOK(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
