package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskline/internal/models"
	"taskline/internal/repository"
)

// errInvalidOwner is returned when a membership change names a workspace
// that does not exist.
var errInvalidOwner = fmt.Errorf("%w: invalid owner", ErrForbidden)

// Workspaces is the directory of workspaces and their rosters. Only the
// owner may change membership or delete a workspace.
type Workspaces struct {
	workspaces WorkspaceRepository
	users      UserRepository
}

func NewWorkspaces(workspaces WorkspaceRepository, users UserRepository) *Workspaces {
	return &Workspaces{workspaces: workspaces, users: users}
}

// Create registers a workspace owned by ownerName. An empty ownerName means
// the caller; naming anyone else is forbidden.
func (s *Workspaces) Create(ctx context.Context, caller models.UserPublic, name, ownerName string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if ownerName == "" {
		ownerName = caller.Name
	}

	owner, err := s.lookupUser(ctx, ownerName)
	if err != nil {
		return 0, err
	}
	if owner.ID != caller.ID {
		return 0, fmt.Errorf("%w: workspaces can only be created for yourself", ErrForbidden)
	}

	id, err := s.workspaces.CreateWorkspace(ctx, name, owner.ID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%w: workspace %q", ErrConflict, name)
		}
		return 0, err
	}
	return id, nil
}

// ListAccessibleTo returns the workspaces the caller owns or belongs to,
// keyed by workspace id.
func (s *Workspaces) ListAccessibleTo(ctx context.Context, caller models.UserPublic) (map[int]models.WorkspaceView, error) {
	views, err := s.workspaces.ListAccessibleWorkspaces(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	out := make(map[int]models.WorkspaceView, len(views))
	for _, v := range views {
		out[v.WorkspaceID] = v
	}
	return out, nil
}

func (s *Workspaces) AddMember(ctx context.Context, caller models.UserPublic, workspaceID int, memberName string) (models.Membership, error) {
	member, err := s.lookupUser(ctx, memberName)
	if err != nil {
		return models.Membership{}, err
	}
	if err := s.requireOwner(ctx, caller, workspaceID); err != nil {
		return models.Membership{}, err
	}

	m, err := s.workspaces.AddMember(ctx, workspaceID, member.ID)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.Membership{}, fmt.Errorf("%w: %s is already a member", ErrConflict, member.Name)
		}
		return models.Membership{}, err
	}
	return m, nil
}

func (s *Workspaces) RemoveMember(ctx context.Context, caller models.UserPublic, workspaceID int, memberName string) error {
	if err := s.requireOwner(ctx, caller, workspaceID); err != nil {
		return err
	}
	member, err := s.users.GetUserByName(ctx, memberName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: member %q", ErrNotFound, memberName)
		}
		return err
	}
	if err := s.workspaces.RemoveMember(ctx, workspaceID, member.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: member %q", ErrNotFound, memberName)
		}
		return err
	}
	return nil
}

// Delete removes the workspace with its memberships and shared tasks in one
// transaction.
func (s *Workspaces) Delete(ctx context.Context, caller models.UserPublic, workspaceID int) error {
	ws, err := s.workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return notFound(err)
	}
	if ws.OwnerID != caller.ID {
		return ErrForbidden
	}
	return notFound(s.workspaces.DeleteWorkspace(ctx, workspaceID))
}

func (s *Workspaces) requireOwner(ctx context.Context, caller models.UserPublic, workspaceID int) error {
	ws, err := s.workspaces.GetWorkspace(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errInvalidOwner
		}
		return err
	}
	if ws.OwnerID != caller.ID {
		return ErrForbidden
	}
	return nil
}

func (s *Workspaces) lookupUser(ctx context.Context, name string) (models.User, error) {
	u, err := s.users.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return u, nil
}
