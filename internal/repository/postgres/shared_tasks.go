package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskline/internal/models"
	"taskline/internal/repository"
)

func (s *Storage) CreateSharedTask(ctx context.Context, task *models.SharedTask) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO shared_tasks (name, priority, date, status, created_by, workspace_id)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		task.Name, task.Priority, task.Date, task.Status, task.CreatedBy, task.WorkspaceID,
	).Scan(&task.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("insert shared task: %w", err)
	}
	return nil
}

func (s *Storage) ListSharedTasks(ctx context.Context, workspaceID, offset, limit int) ([]models.SharedTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, priority, date, status, created_by, workspace_id
		FROM shared_tasks
		WHERE workspace_id = $1
		ORDER BY (status = 'completed'), id
		OFFSET $2 LIMIT $3`,
		workspaceID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("select shared tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.SharedTask{}
	for rows.Next() {
		var t models.SharedTask
		if err := rows.Scan(&t.ID, &t.Name, &t.Priority, &t.Date, &t.Status, &t.CreatedBy, &t.WorkspaceID); err != nil {
			return nil, fmt.Errorf("scan shared task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared tasks: %w", err)
	}
	return tasks, nil
}

func (s *Storage) GetSharedTask(ctx context.Context, taskID, workspaceID int) (models.SharedTask, error) {
	var t models.SharedTask
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, priority, date, status, created_by, workspace_id
		FROM shared_tasks WHERE id = $1 AND workspace_id = $2`,
		taskID, workspaceID,
	).Scan(&t.ID, &t.Name, &t.Priority, &t.Date, &t.Status, &t.CreatedBy, &t.WorkspaceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SharedTask{}, repository.ErrNotFound
		}
		return models.SharedTask{}, fmt.Errorf("select shared task: %w", err)
	}
	return t, nil
}

func (s *Storage) UpdateSharedTask(ctx context.Context, task *models.SharedTask) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shared_tasks
		SET name = $1, priority = $2, date = $3, status = $4
		WHERE id = $5 AND workspace_id = $6`,
		task.Name, task.Priority, task.Date, task.Status, task.ID, task.WorkspaceID)
	if err != nil {
		return fmt.Errorf("update shared task: %w", err)
	}
	return expectOneRow(res)
}

func (s *Storage) DeleteSharedTask(ctx context.Context, taskID, workspaceID int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM shared_tasks WHERE id = $1 AND workspace_id = $2", taskID, workspaceID)
	if err != nil {
		return fmt.Errorf("delete shared task: %w", err)
	}
	return expectOneRow(res)
}
