package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskline/internal/models"
)

func TestSharedTasks_AccessRequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")

	id, err := env.workspaces.Create(ctx, alice, "Project X", "")
	require.NoError(t, err)
	_, err = env.workspaces.AddMember(ctx, alice, id, "bob")
	require.NoError(t, err)

	task, err := env.shared.Create(ctx, bob, id, NewTask{Name: "write docs"})
	require.NoError(t, err)
	assert.Equal(t, "bob", task.CreatedBy)
	assert.Equal(t, id, task.WorkspaceID)
	assert.Equal(t, "Mar 7", task.Date)

	ownerView, err := env.shared.List(ctx, alice, id, 0, 100)
	require.NoError(t, err)
	require.Len(t, ownerView, 1)

	_, err = env.shared.Create(ctx, carol, id, NewTask{Name: "intrude"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.shared.List(ctx, carol, id, 0, 100)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.shared.Update(ctx, carol, id, task.ID, models.TaskPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, env.shared.Delete(ctx, carol, id, task.ID), ErrForbidden)
	_, err = env.shared.ToggleStatus(ctx, carol, id, task.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.shared.List(ctx, alice, 9999, 0, 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSharedTasks_UpdateKeepsDateUnlessGiven(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	id, err := env.workspaces.Create(ctx, alice, "Project X", "")
	require.NoError(t, err)
	task, err := env.shared.Create(ctx, alice, id, NewTask{Name: "plan"})
	require.NoError(t, err)

	env.clock = env.clock.Add(48 * time.Hour)
	updated, err := env.shared.Update(ctx, alice, id, task.ID, models.TaskPatch{Priority: strPtr(models.PriorityHigh)})
	require.NoError(t, err)
	assert.Equal(t, "Mar 7", updated.Date)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, "plan", updated.Name)

	updated, err = env.shared.Update(ctx, alice, id, task.ID, models.TaskPatch{Date: strPtr("Apr 1")})
	require.NoError(t, err)
	assert.Equal(t, "Apr 1", updated.Date)
}

func TestSharedTasks_ListOrderToggleAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	id, err := env.workspaces.Create(ctx, alice, "Project X", "")
	require.NoError(t, err)

	first, err := env.shared.Create(ctx, alice, id, NewTask{Name: "first"})
	require.NoError(t, err)
	_, err = env.shared.Create(ctx, alice, id, NewTask{Name: "second"})
	require.NoError(t, err)

	toggled, err := env.shared.ToggleStatus(ctx, alice, id, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, toggled.Status)

	list, err := env.shared.List(ctx, alice, id, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, "first", list[1].Name)

	require.NoError(t, env.shared.Delete(ctx, alice, id, first.ID))
	assert.ErrorIs(t, env.shared.Delete(ctx, alice, id, first.ID), ErrNotFound)

	other, err := env.workspaces.Create(ctx, alice, "Project Y", "")
	require.NoError(t, err)
	list, err = env.shared.List(ctx, alice, other, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// A full session: register two users, share a workspace and work on a task
// together.
func TestSharedTasks_TwoUserScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		_, err := env.creds.Register(ctx, name, "secret123")
		require.NoError(t, err)
	}
	tok, err := env.creds.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	alice, err := env.creds.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	tok, err = env.creds.Login(ctx, "bob", "secret123")
	require.NoError(t, err)
	bob, err := env.creds.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)

	id, err := env.workspaces.Create(ctx, alice, "Launch", "")
	require.NoError(t, err)
	_, err = env.workspaces.AddMember(ctx, alice, id, bob.Name)
	require.NoError(t, err)

	task, err := env.shared.Create(ctx, alice, id, NewTask{Name: "press release", Priority: models.PriorityHigh})
	require.NoError(t, err)

	done, err := env.shared.ToggleStatus(ctx, bob, id, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, "alice", done.CreatedBy)

	require.NoError(t, env.workspaces.RemoveMember(ctx, alice, id, bob.Name))
	_, err = env.shared.List(ctx, bob, id, 0, 100)
	assert.ErrorIs(t, err, ErrForbidden)
}
