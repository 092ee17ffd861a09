package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskline/internal/middleware"
	"taskline/internal/service"
	"taskline/pkg/logger"
)

type SharedTaskHandler struct {
	tasks *service.SharedTasks
}

func NewSharedTaskHandler(tasks *service.SharedTasks) *SharedTaskHandler {
	return &SharedTaskHandler{tasks: tasks}
}

func (h *SharedTaskHandler) Create(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "create shared task", err)
	}
	var req createTaskRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "create shared task", err)
	}

	task, err := h.tasks.Create(c.UserContext(), middleware.CurrentUser(c), workspaceID, req.task())
	if err != nil {
		return writeError(c, "create shared task", err)
	}

	logger.AuditLogger.Info("Shared task created",
		zap.Int("task_id", task.ID),
		zap.Int("workspace_id", workspaceID),
		zap.String("created_by", task.CreatedBy),
	)
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *SharedTaskHandler) List(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "list shared tasks", err)
	}
	offset, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, "list shared tasks", err)
	}

	tasks, err := h.tasks.List(c.UserContext(), middleware.CurrentUser(c), workspaceID, offset, limit)
	if err != nil {
		return writeError(c, "list shared tasks", err)
	}
	return c.JSON(tasks)
}

func (h *SharedTaskHandler) Update(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "update shared task", err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, "update shared task", err)
	}
	var req updateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "update shared task", err)
	}

	task, err := h.tasks.Update(c.UserContext(), middleware.CurrentUser(c), workspaceID, taskID, req.patch())
	if err != nil {
		return writeError(c, "update shared task", err)
	}

	logger.AuditLogger.Info("Shared task updated", zap.Int("task_id", taskID), zap.Int("workspace_id", workspaceID))
	return c.JSON(task)
}

func (h *SharedTaskHandler) Toggle(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "toggle shared task", err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, "toggle shared task", err)
	}

	task, err := h.tasks.ToggleStatus(c.UserContext(), middleware.CurrentUser(c), workspaceID, taskID)
	if err != nil {
		return writeError(c, "toggle shared task", err)
	}
	return c.JSON(task)
}

func (h *SharedTaskHandler) Delete(c *fiber.Ctx) error {
	workspaceID, err := paramID(c, "workspace_id")
	if err != nil {
		return writeError(c, "delete shared task", err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, "delete shared task", err)
	}

	if err := h.tasks.Delete(c.UserContext(), middleware.CurrentUser(c), workspaceID, taskID); err != nil {
		return writeError(c, "delete shared task", err)
	}

	logger.AuditLogger.Info("Shared task deleted", zap.Int("task_id", taskID), zap.Int("workspace_id", workspaceID))
	return writeOK(c)
}
