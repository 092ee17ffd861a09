package handlers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskline/internal/middleware"
	"taskline/internal/service"
	"taskline/pkg/logger"
)

type WorkspaceHandler struct {
	workspaces *service.Workspaces
}

func NewWorkspaceHandler(workspaces *service.Workspaces) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

type createWorkspaceRequest struct {
	Name  string `json:"name" validate:"required"`
	Owner string `json:"owner"`
}

// Create answers with the bare numeric id of the new workspace.
func (h *WorkspaceHandler) Create(c *fiber.Ctx) error {
	var req createWorkspaceRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "create workspace", err)
	}

	caller := middleware.CurrentUser(c)
	id, err := h.workspaces.Create(c.UserContext(), caller, req.Name, req.Owner)
	if err != nil {
		return writeError(c, "create workspace", err)
	}

	logger.AuditLogger.Info("Workspace created", zap.Int("workspace_id", id), zap.String("owner", caller.Name))
	return c.Status(fiber.StatusCreated).JSON(id)
}

func (h *WorkspaceHandler) List(c *fiber.Ctx) error {
	views, err := h.workspaces.ListAccessibleTo(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, "list workspaces", err)
	}
	return c.JSON(views)
}

type addMemberRequest struct {
	WorkspaceID int    `json:"workspace_id"`
	Member      string `json:"member" validate:"required"`
}

// AddMember takes the workspace from the path; a workspace_id in the body is
// accepted for compatibility and ignored.
func (h *WorkspaceHandler) AddMember(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "add member", err)
	}
	var req addMemberRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "add member", err)
	}

	m, err := h.workspaces.AddMember(c.UserContext(), middleware.CurrentUser(c), workspaceID, req.Member)
	if err != nil {
		return writeError(c, "add member", err)
	}

	logger.AuditLogger.Info("Member added", zap.Int("workspace_id", workspaceID), zap.String("member", m.Member))
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *WorkspaceHandler) RemoveMember(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "remove member", err)
	}
	member, err := url.PathUnescape(c.Params("membername"))
	if err != nil {
		return writeError(c, "remove member", fmt.Errorf("%w: malformed member name", service.ErrValidation))
	}

	if err := h.workspaces.RemoveMember(c.UserContext(), middleware.CurrentUser(c), workspaceID, member); err != nil {
		return writeError(c, "remove member", err)
	}

	logger.AuditLogger.Info("Member removed", zap.Int("workspace_id", workspaceID), zap.String("member", member))
	return writeOK(c)
}

func (h *WorkspaceHandler) Delete(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "delete workspace", err)
	}

	if err := h.workspaces.Delete(c.UserContext(), middleware.CurrentUser(c), workspaceID); err != nil {
		return writeError(c, "delete workspace", err)
	}

	logger.AuditLogger.Info("Workspace deleted", zap.Int("workspace_id", workspaceID))
	return writeOK(c)
}
