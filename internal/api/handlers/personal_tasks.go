package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskline/internal/middleware"
	"taskline/internal/service"
	"taskline/pkg/logger"
)

type PersonalTaskHandler struct {
	tasks *service.PersonalTasks
}

func NewPersonalTaskHandler(tasks *service.PersonalTasks) *PersonalTaskHandler {
	return &PersonalTaskHandler{tasks: tasks}
}

func (h *PersonalTaskHandler) Create(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return writeError(c, "create personal task", err)
	}
	var req createTaskRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "create personal task", err)
	}

	task, err := h.tasks.Create(c.UserContext(), middleware.CurrentUser(c), userID, req.task())
	if err != nil {
		return writeError(c, "create personal task", err)
	}

	logger.AuditLogger.Info("Personal task created", zap.Int("task_id", task.ID), zap.Int("user_id", userID))
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *PersonalTaskHandler) List(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return writeError(c, "list personal tasks", err)
	}
	offset, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, "list personal tasks", err)
	}

	tasks, err := h.tasks.List(c.UserContext(), middleware.CurrentUser(c), userID, offset, limit)
	if err != nil {
		return writeError(c, "list personal tasks", err)
	}
	return c.JSON(tasks)
}

func (h *PersonalTaskHandler) Update(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return writeError(c, "update personal task", err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, "update personal task", err)
	}
	var req updateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return writeError(c, "update personal task", err)
	}

	task, err := h.tasks.Update(c.UserContext(), middleware.CurrentUser(c), userID, taskID, req.patch())
	if err != nil {
		return writeError(c, "update personal task", err)
	}

	logger.AuditLogger.Info("Personal task updated", zap.Int("task_id", taskID))
	return c.JSON(task)
}

func (h *PersonalTaskHandler) Toggle(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return writeError(c, "toggle personal task", err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, "toggle personal task", err)
	}

	task, err := h.tasks.ToggleStatus(c.UserContext(), middleware.CurrentUser(c), userID, taskID)
	if err != nil {
		return writeError(c, "toggle personal task", err)
	}
	return c.JSON(task)
}

func (h *PersonalTaskHandler) Delete(c *fiber.Ctx) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return writeError(c, "delete personal task", err)
	}
	taskID, err := paramID(c, "task_id")
	if err != nil {
		return writeError(c, "delete personal task", err)
	}

	if err := h.tasks.Delete(c.UserContext(), middleware.CurrentUser(c), userID, taskID); err != nil {
		return writeError(c, "delete personal task", err)
	}

	logger.AuditLogger.Info("Personal task deleted", zap.Int("task_id", taskID))
	return writeOK(c)
}
