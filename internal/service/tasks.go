package service

import (
	"fmt"
	"strings"
	"time"

	"taskline/internal/models"
)

// MaxPageSize caps the limit accepted by the list operations.
const MaxPageSize = 100

// NewTask is the input for creating a personal or shared task. Empty
// Priority and Status fall back to Normal and new.
type NewTask struct {
	Name     string
	Priority string
	Status   string
}

func (in NewTask) normalize() (NewTask, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityNormal
	}
	if !models.ValidPriority(in.Priority) {
		return in, fmt.Errorf("%w: priority must be Normal or High", ErrValidation)
	}
	if in.Status == "" {
		in.Status = models.StatusNew
	}
	if !models.ValidStatus(in.Status) {
		return in, fmt.Errorf("%w: status must be new or completed", ErrValidation)
	}
	return in, nil
}

// applyPatch copies the present fields of p onto name, priority and status.
func applyPatch(p models.TaskPatch, name, priority, status *string) error {
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		if n == "" {
			return fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		*name = n
	}
	if p.Priority != nil {
		if !models.ValidPriority(*p.Priority) {
			return fmt.Errorf("%w: priority must be Normal or High", ErrValidation)
		}
		*priority = *p.Priority
	}
	if p.Status != nil {
		if !models.ValidStatus(*p.Status) {
			return fmt.Errorf("%w: status must be new or completed", ErrValidation)
		}
		*status = *p.Status
	}
	return nil
}

func checkPage(offset, limit int) error {
	if offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrValidation)
	}
	if limit < 1 || limit > MaxPageSize {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrValidation, MaxPageSize)
	}
	return nil
}

func today(now func() time.Time) string {
	return now().Format(models.DateLayout)
}
