package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskline/internal/models"
	"taskline/internal/repository"
)

func (s *Storage) CreatePersonalTask(ctx context.Context, task *models.PersonalTask) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO personal_tasks (name, priority, date, status, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		task.Name, task.Priority, task.Date, task.Status, task.UserID,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("insert personal task: %w", err)
	}
	return nil
}

func (s *Storage) ListPersonalTasks(ctx context.Context, userID, offset, limit int) ([]models.PersonalTask, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, priority, date, status, user_id
		FROM personal_tasks
		WHERE user_id = $1
		ORDER BY (status = 'completed'), id
		OFFSET $2 LIMIT $3`,
		userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("select personal tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.PersonalTask{}
	for rows.Next() {
		var t models.PersonalTask
		if err := rows.Scan(&t.ID, &t.Name, &t.Priority, &t.Date, &t.Status, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan personal task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate personal tasks: %w", err)
	}
	return tasks, nil
}

func (s *Storage) GetPersonalTask(ctx context.Context, taskID, userID int) (models.PersonalTask, error) {
	var t models.PersonalTask
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, priority, date, status, user_id FROM personal_tasks WHERE id = $1 AND user_id = $2",
		taskID, userID,
	).Scan(&t.ID, &t.Name, &t.Priority, &t.Date, &t.Status, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PersonalTask{}, repository.ErrNotFound
		}
		return models.PersonalTask{}, fmt.Errorf("select personal task: %w", err)
	}
	return t, nil
}

func (s *Storage) UpdatePersonalTask(ctx context.Context, task *models.PersonalTask) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE personal_tasks
		SET name = $1, priority = $2, date = $3, status = $4
		WHERE id = $5 AND user_id = $6`,
		task.Name, task.Priority, task.Date, task.Status, task.ID, task.UserID)
	if err != nil {
		return fmt.Errorf("update personal task: %w", err)
	}
	return expectOneRow(res)
}

func (s *Storage) DeletePersonalTask(ctx context.Context, taskID, userID int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM personal_tasks WHERE id = $1 AND user_id = $2", taskID, userID)
	if err != nil {
		return fmt.Errorf("delete personal task: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
