package service

import (
	"context"
	"time"

	"taskline/internal/models"
)

// Repositories return repository.ErrNotFound when a lookup misses and
// repository.ErrConflict when a unique constraint is violated.

type UserRepository interface {
	CreateUser(ctx context.Context, name, passwordHash string) (models.User, error)
	GetUserByName(ctx context.Context, name string) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

type PersonalTaskRepository interface {
	CreatePersonalTask(ctx context.Context, task *models.PersonalTask) error
	// ListPersonalTasks returns new tasks before completed ones, then by id,
	// with offset and limit applied after ordering.
	ListPersonalTasks(ctx context.Context, userID, offset, limit int) ([]models.PersonalTask, error)
	GetPersonalTask(ctx context.Context, taskID, userID int) (models.PersonalTask, error)
	UpdatePersonalTask(ctx context.Context, task *models.PersonalTask) error
	DeletePersonalTask(ctx context.Context, taskID, userID int) error
}

type WorkspaceRepository interface {
	CreateWorkspace(ctx context.Context, name string, ownerID int) (int, error)
	GetWorkspace(ctx context.Context, id int) (models.Workspace, error)
	// ListAccessibleWorkspaces returns every workspace userID owns or is a
	// member of, ordered by id, with Role set relative to userID.
	ListAccessibleWorkspaces(ctx context.Context, userID int) ([]models.WorkspaceView, error)
	AddMember(ctx context.Context, workspaceID, userID int) (models.Membership, error)
	RemoveMember(ctx context.Context, workspaceID, userID int) error
	IsMember(ctx context.Context, workspaceID, userID int) (bool, error)
	// DeleteWorkspace removes the workspace with its memberships and shared
	// tasks atomically.
	DeleteWorkspace(ctx context.Context, id int) error
}

type SharedTaskRepository interface {
	CreateSharedTask(ctx context.Context, task *models.SharedTask) error
	ListSharedTasks(ctx context.Context, workspaceID, offset, limit int) ([]models.SharedTask, error)
	GetSharedTask(ctx context.Context, taskID, workspaceID int) (models.SharedTask, error)
	UpdateSharedTask(ctx context.Context, task *models.SharedTask) error
	DeleteSharedTask(ctx context.Context, taskID, workspaceID int) error
}

// TokenRevoker keeps the ids of tokens invalidated before their expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
