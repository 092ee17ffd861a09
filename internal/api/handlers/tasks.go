package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"taskline/internal/models"
	"taskline/internal/service"
)

// createTaskRequest is shared by personal and shared tasks. A date sent by
// the client is ignored; the server stamps it.
type createTaskRequest struct {
	Name     string `json:"name" validate:"required"`
	Priority string `json:"priority" validate:"omitempty,oneof=Normal High"`
	Status   string `json:"status" validate:"omitempty,oneof=new completed"`
	Date     string `json:"date"`
}

func (r createTaskRequest) task() service.NewTask {
	return service.NewTask{Name: r.Name, Priority: r.Priority, Status: r.Status}
}

type updateTaskRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Priority *string `json:"priority" validate:"omitempty,oneof=Normal High"`
	Date     *string `json:"date"`
	Status   *string `json:"status" validate:"omitempty,oneof=new completed"`
}

func (r updateTaskRequest) patch() models.TaskPatch {
	return models.TaskPatch{Name: r.Name, Priority: r.Priority, Date: r.Date, Status: r.Status}
}

func paramID(c *fiber.Ctx, key string) (int, error) {
	id, err := c.ParamsInt(key)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrValidation, key)
	}
	return id, nil
}

func pageParams(c *fiber.Ctx) (offset, limit int, err error) {
	if offset, err = queryInt(c, "offset", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = queryInt(c, "limit", service.MaxPageSize); err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

// queryInt reads an optional integer query parameter. Unlike c.QueryInt it
// rejects malformed values instead of falling back to the default.
func queryInt(c *fiber.Ctx, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrValidation, key)
	}
	return v, nil
}
