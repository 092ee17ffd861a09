package service

import (
	"context"
	"time"

	"taskline/internal/models"
)

// SharedTasks manages tasks scoped to a workspace. Only the workspace owner
// and its members may read or change them.
type SharedTasks struct {
	tasks      SharedTaskRepository
	workspaces WorkspaceRepository
	now        func() time.Time
}

func NewSharedTasks(tasks SharedTaskRepository, workspaces WorkspaceRepository) *SharedTasks {
	return &SharedTasks{tasks: tasks, workspaces: workspaces, now: time.Now}
}

func (s *SharedTasks) authorize(ctx context.Context, caller models.UserPublic, workspaceID int) error {
	ws, err := s.workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return notFound(err)
	}
	if ws.OwnerID == caller.ID {
		return nil
	}
	member, err := s.workspaces.IsMember(ctx, workspaceID, caller.ID)
	if err != nil {
		return err
	}
	if !member {
		return ErrForbidden
	}
	return nil
}

// Create stamps created_by with the caller's name and the date with today.
func (s *SharedTasks) Create(ctx context.Context, caller models.UserPublic, workspaceID int, in NewTask) (models.SharedTask, error) {
	if err := s.authorize(ctx, caller, workspaceID); err != nil {
		return models.SharedTask{}, err
	}
	in, err := in.normalize()
	if err != nil {
		return models.SharedTask{}, err
	}

	task := models.SharedTask{
		Name:        in.Name,
		Priority:    in.Priority,
		Date:        today(s.now),
		Status:      in.Status,
		CreatedBy:   caller.Name,
		WorkspaceID: workspaceID,
	}
	if err := s.tasks.CreateSharedTask(ctx, &task); err != nil {
		return models.SharedTask{}, notFound(err)
	}
	return task, nil
}

func (s *SharedTasks) List(ctx context.Context, caller models.UserPublic, workspaceID, offset, limit int) ([]models.SharedTask, error) {
	if err := s.authorize(ctx, caller, workspaceID); err != nil {
		return nil, err
	}
	if err := checkPage(offset, limit); err != nil {
		return nil, err
	}
	return s.tasks.ListSharedTasks(ctx, workspaceID, offset, limit)
}

// Update changes only the fields present in patch. Unlike personal tasks the
// date is taken from the patch as given and never re-stamped.
func (s *SharedTasks) Update(ctx context.Context, caller models.UserPublic, workspaceID, taskID int, patch models.TaskPatch) (models.SharedTask, error) {
	if err := s.authorize(ctx, caller, workspaceID); err != nil {
		return models.SharedTask{}, err
	}

	task, err := s.tasks.GetSharedTask(ctx, taskID, workspaceID)
	if err != nil {
		return models.SharedTask{}, notFound(err)
	}
	if err := applyPatch(patch, &task.Name, &task.Priority, &task.Status); err != nil {
		return models.SharedTask{}, err
	}
	if patch.Date != nil {
		task.Date = *patch.Date
	}

	if err := s.tasks.UpdateSharedTask(ctx, &task); err != nil {
		return models.SharedTask{}, notFound(err)
	}
	return task, nil
}

func (s *SharedTasks) Delete(ctx context.Context, caller models.UserPublic, workspaceID, taskID int) error {
	if err := s.authorize(ctx, caller, workspaceID); err != nil {
		return err
	}
	return notFound(s.tasks.DeleteSharedTask(ctx, taskID, workspaceID))
}

func (s *SharedTasks) ToggleStatus(ctx context.Context, caller models.UserPublic, workspaceID, taskID int) (models.SharedTask, error) {
	if err := s.authorize(ctx, caller, workspaceID); err != nil {
		return models.SharedTask{}, err
	}
	task, err := s.tasks.GetSharedTask(ctx, taskID, workspaceID)
	if err != nil {
		return models.SharedTask{}, notFound(err)
	}
	next := models.ToggledStatus(task.Status)
	return s.Update(ctx, caller, workspaceID, taskID, models.TaskPatch{Status: &next})
}
