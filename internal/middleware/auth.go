package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskline/internal/models"
	"taskline/internal/service"
	"taskline/pkg/logger"
)

const (
	localUser  = "user"
	localToken = "token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.UserPublic, error)
}

// UseToken resolves the bearer token to a user and stores it in the request
// locals. Requests without a valid token are answered with 401.
func UseToken(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "No token provided")
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return unauthorized(c, "Invalid token format")
		}

		user, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			logger.SecurityLogger.Warn("Rejected token",
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Error(err),
			)
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				return unauthorized(c, "Token expired")
			case errors.Is(err, service.ErrUserNotFound):
				return unauthorized(c, "User not found")
			case errors.Is(err, service.ErrTokenInvalid):
				return unauthorized(c, "Invalid token")
			default:
				logger.ErrorLogger.Error("Authenticate failed", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Internal server error",
					"success": false,
					"status":  fiber.StatusInternalServerError,
				})
			}
		}

		c.Locals(localUser, user)
		c.Locals(localToken, parts[1])
		return c.Next()
	}
}

// CurrentUser returns the identity stored by UseToken, or the zero value on
// routes that do not require authentication.
func CurrentUser(c *fiber.Ctx) models.UserPublic {
	user, _ := c.Locals(localUser).(models.UserPublic)
	return user
}

func CurrentToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}
