package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskline/internal/middleware"
	"taskline/internal/service"
	"taskline/pkg/logger"
)

type AuthHandler struct {
	creds *service.Credentials
}

func NewAuthHandler(creds *service.Credentials) *AuthHandler {
	return &AuthHandler{creds: creds}
}

type credentialsRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "register", err)
	}

	user, err := h.creds.Register(c.UserContext(), req.Name, req.Password)
	if err != nil {
		return writeError(c, "register", err)
	}

	logger.AuditLogger.Info("User registered", zap.Int("user_id", user.ID), zap.String("name", user.Name))
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "login", err)
	}

	token, err := h.creds.Login(c.UserContext(), req.Name, req.Password)
	if err != nil {
		logger.SecurityLogger.Warn("Login failed", zap.String("name", req.Name))
		return writeError(c, "login", err)
	}

	logger.AuditLogger.Info("Login success", zap.String("name", req.Name))
	return c.JSON(token)
}

// Verify echoes the identity resolved from the bearer token.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.creds.Logout(c.UserContext(), middleware.CurrentToken(c)); err != nil {
		return writeError(c, "logout", err)
	}
	logger.AuditLogger.Info("Logout", zap.Int("user_id", middleware.CurrentUser(c).ID))
	return writeOK(c)
}
