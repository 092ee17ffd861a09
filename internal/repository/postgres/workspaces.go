package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"taskline/internal/models"
	"taskline/internal/repository"
)

func (s *Storage) CreateWorkspace(ctx context.Context, name string, ownerID int) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO workspaces (name, owner_id) VALUES ($1, $2) RETURNING id",
		name, ownerID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrConflict
		}
		return 0, fmt.Errorf("insert workspace: %w", err)
	}
	return id, nil
}

func (s *Storage) GetWorkspace(ctx context.Context, id int) (models.Workspace, error) {
	var w models.Workspace
	err := s.db.QueryRowContext(ctx, `
		SELECT w.id, w.name, w.owner_id, u.name
		FROM workspaces w JOIN users u ON u.id = w.owner_id
		WHERE w.id = $1`, id,
	).Scan(&w.ID, &w.Name, &w.OwnerID, &w.OwnerName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Workspace{}, repository.ErrNotFound
		}
		return models.Workspace{}, fmt.Errorf("select workspace: %w", err)
	}
	return w, nil
}

func (s *Storage) ListAccessibleWorkspaces(ctx context.Context, userID int) ([]models.WorkspaceView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, w.name, w.owner_id, u.name
		FROM workspaces w JOIN users u ON u.id = w.owner_id
		WHERE w.owner_id = $1
		   OR EXISTS (SELECT 1 FROM memberships m WHERE m.workspace_id = w.id AND m.user_id = $1)
		ORDER BY w.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("select accessible workspaces: %w", err)
	}
	defer rows.Close()

	views := []models.WorkspaceView{}
	index := map[int]int{}
	var ids []int64
	for rows.Next() {
		var (
			v       models.WorkspaceView
			ownerID int
		)
		if err := rows.Scan(&v.WorkspaceID, &v.Name, &ownerID, &v.Owner); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		v.Role = models.RoleMember
		if ownerID == userID {
			v.Role = models.RoleOwner
		}
		v.Members = []string{}
		index[v.WorkspaceID] = len(views)
		ids = append(ids, int64(v.WorkspaceID))
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}
	if len(ids) == 0 {
		return views, nil
	}

	memberRows, err := s.db.QueryContext(ctx, `
		SELECT m.workspace_id, u.name
		FROM memberships m JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = ANY($1)
		ORDER BY m.id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var (
			wsID int
			name string
		)
		if err := memberRows.Scan(&wsID, &name); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if i, ok := index[wsID]; ok {
			views[i].Members = append(views[i].Members, name)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return views, nil
}

func (s *Storage) AddMember(ctx context.Context, workspaceID, userID int) (models.Membership, error) {
	m := models.Membership{WorkspaceID: workspaceID, UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO memberships (workspace_id, user_id) VALUES ($1, $2) RETURNING id, user_id
		)
		SELECT inserted.id, u.name FROM inserted JOIN users u ON u.id = inserted.user_id`,
		workspaceID, userID,
	).Scan(&m.ID, &m.Member)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Membership{}, repository.ErrConflict
		}
		return models.Membership{}, fmt.Errorf("insert membership: %w", err)
	}
	return m, nil
}

func (s *Storage) RemoveMember(ctx context.Context, workspaceID, userID int) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM memberships WHERE workspace_id = $1 AND user_id = $2", workspaceID, userID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return expectOneRow(res)
}

func (s *Storage) IsMember(ctx context.Context, workspaceID, userID int) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM memberships WHERE workspace_id = $1 AND user_id = $2)",
		workspaceID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("select membership: %w", err)
	}
	return exists, nil
}

func (s *Storage) DeleteWorkspace(ctx context.Context, id int) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM memberships WHERE workspace_id = $1", id); err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM shared_tasks WHERE workspace_id = $1", id); err != nil {
		return fmt.Errorf("delete shared tasks: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM workspaces WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	if err = expectOneRow(res); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
