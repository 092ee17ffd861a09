// Package repotest holds the behaviour every storage backend must share, run
// against each backend by its own tests.
package repotest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskline/internal/models"
	"taskline/internal/repository"
	"taskline/internal/service"
)

type Store interface {
	service.UserRepository
	service.PersonalTaskRepository
	service.WorkspaceRepository
	service.SharedTaskRepository
}

// Run executes the contract; open must return an empty store for each call.
func Run(t *testing.T, open func(t *testing.T) Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s Store)
	}{
		{"Users", testUsers},
		{"PersonalTaskOrdering", testPersonalTaskOrdering},
		{"PersonalTaskScoping", testPersonalTaskScoping},
		{"Workspaces", testWorkspaces},
		{"Memberships", testMemberships},
		{"DeleteWorkspaceCascades", testDeleteWorkspaceCascades},
		{"SharedTasks", testSharedTasks},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func mustUser(t *testing.T, s Store, name string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), name, "hash-"+name)
	require.NoError(t, err)
	return u
}

func testUsers(t *testing.T, s Store) {
	ctx := context.Background()

	alice := mustUser(t, s, "alice")
	assert.NotZero(t, alice.ID)
	assert.Equal(t, "hash-alice", alice.PasswordHash)

	_, err := s.CreateUser(ctx, "alice", "other")
	assert.ErrorIs(t, err, repository.ErrConflict)

	byName, err := s.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byID, err := s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Name)

	_, err = s.GetUserByName(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetUserByID(ctx, alice.ID+1000)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testPersonalTaskOrdering(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	statuses := []string{models.StatusCompleted, models.StatusNew, models.StatusCompleted, models.StatusNew, models.StatusNew}
	var ids []int
	for i, status := range statuses {
		task := models.PersonalTask{
			Name:     string(rune('a' + i)),
			Priority: models.PriorityNormal,
			Date:     "Mar 7",
			Status:   status,
			UserID:   alice.ID,
		}
		require.NoError(t, s.CreatePersonalTask(ctx, &task))
		require.NotZero(t, task.ID)
		ids = append(ids, task.ID)
	}
	other := models.PersonalTask{Name: "z", Priority: models.PriorityNormal, Date: "Mar 7", Status: models.StatusNew, UserID: bob.ID}
	require.NoError(t, s.CreatePersonalTask(ctx, &other))

	all, err := s.ListPersonalTasks(ctx, alice.ID, 0, 100)
	require.NoError(t, err)
	var got []int
	for _, task := range all {
		got = append(got, task.ID)
	}
	assert.Equal(t, []int{ids[1], ids[3], ids[4], ids[0], ids[2]}, got)

	page, err := s.ListPersonalTasks(ctx, alice.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[0], page[1].ID)

	past, err := s.ListPersonalTasks(ctx, alice.ID, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func testPersonalTaskScoping(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	task := models.PersonalTask{Name: "mine", Priority: models.PriorityHigh, Date: "Mar 7", Status: models.StatusNew, UserID: alice.ID}
	require.NoError(t, s.CreatePersonalTask(ctx, &task))

	_, err := s.GetPersonalTask(ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	stolen := task
	stolen.UserID = bob.ID
	stolen.Name = "stolen"
	assert.ErrorIs(t, s.UpdatePersonalTask(ctx, &stolen), repository.ErrNotFound)
	assert.ErrorIs(t, s.DeletePersonalTask(ctx, task.ID, bob.ID), repository.ErrNotFound)

	task.Name = "renamed"
	task.Status = models.StatusCompleted
	require.NoError(t, s.UpdatePersonalTask(ctx, &task))

	got, err := s.GetPersonalTask(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	require.NoError(t, s.DeletePersonalTask(ctx, task.ID, alice.ID))
	assert.ErrorIs(t, s.DeletePersonalTask(ctx, task.ID, alice.ID), repository.ErrNotFound)
}

func testWorkspaces(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	id, err := s.CreateWorkspace(ctx, "Team", alice.ID)
	require.NoError(t, err)

	_, err = s.CreateWorkspace(ctx, "Team", alice.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.CreateWorkspace(ctx, "Team", bob.ID)
	assert.NoError(t, err)

	ws, err := s.GetWorkspace(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Team", ws.Name)
	assert.Equal(t, alice.ID, ws.OwnerID)
	assert.Equal(t, "alice", ws.OwnerName)

	_, err = s.GetWorkspace(ctx, id+1000)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func testMemberships(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	carol := mustUser(t, s, "carol")

	team, err := s.CreateWorkspace(ctx, "Team", alice.ID)
	require.NoError(t, err)
	side, err := s.CreateWorkspace(ctx, "Side", carol.ID)
	require.NoError(t, err)

	m, err := s.AddMember(ctx, team, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, team, m.WorkspaceID)
	assert.Equal(t, "bob", m.Member)

	_, err = s.AddMember(ctx, team, bob.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.AddMember(ctx, side, alice.ID)
	require.NoError(t, err)

	isMember, err := s.IsMember(ctx, team, bob.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
	isMember, err = s.IsMember(ctx, team, carol.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	views, err := s.ListAccessibleWorkspaces(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, team, views[0].WorkspaceID)
	assert.Equal(t, models.RoleOwner, views[0].Role)
	assert.Equal(t, []string{"bob"}, views[0].Members)
	assert.Equal(t, side, views[1].WorkspaceID)
	assert.Equal(t, models.RoleMember, views[1].Role)
	assert.Equal(t, "carol", views[1].Owner)

	views, err = s.ListAccessibleWorkspaces(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.RoleMember, views[0].Role)

	assert.ErrorIs(t, s.RemoveMember(ctx, team, carol.ID), repository.ErrNotFound)
	require.NoError(t, s.RemoveMember(ctx, team, bob.ID))

	views, err = s.ListAccessibleWorkspaces(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = s.ListAccessibleWorkspaces(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Empty(t, views[0].Members)
}

func testDeleteWorkspaceCascades(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	id, err := s.CreateWorkspace(ctx, "Team", alice.ID)
	require.NoError(t, err)
	keep, err := s.CreateWorkspace(ctx, "Keep", alice.ID)
	require.NoError(t, err)
	_, err = s.AddMember(ctx, id, bob.ID)
	require.NoError(t, err)

	for _, ws := range []int{id, keep} {
		task := models.SharedTask{Name: "t", Priority: models.PriorityNormal, Date: "Mar 7", Status: models.StatusNew, CreatedBy: "alice", WorkspaceID: ws}
		require.NoError(t, s.CreateSharedTask(ctx, &task))
	}

	require.NoError(t, s.DeleteWorkspace(ctx, id))
	assert.ErrorIs(t, s.DeleteWorkspace(ctx, id), repository.ErrNotFound)

	_, err = s.GetWorkspace(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	isMember, err := s.IsMember(ctx, id, bob.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	gone, err := s.ListSharedTasks(ctx, id, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := s.ListSharedTasks(ctx, keep, 0, 100)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func testSharedTasks(t *testing.T, s Store) {
	ctx := context.Background()
	alice := mustUser(t, s, "alice")

	team, err := s.CreateWorkspace(ctx, "Team", alice.ID)
	require.NoError(t, err)
	other, err := s.CreateWorkspace(ctx, "Other", alice.ID)
	require.NoError(t, err)

	done := models.SharedTask{Name: "done", Priority: models.PriorityNormal, Date: "Mar 7", Status: models.StatusCompleted, CreatedBy: "alice", WorkspaceID: team}
	require.NoError(t, s.CreateSharedTask(ctx, &done))
	open := models.SharedTask{Name: "open", Priority: models.PriorityHigh, Date: "Mar 8", Status: models.StatusNew, CreatedBy: "alice", WorkspaceID: team}
	require.NoError(t, s.CreateSharedTask(ctx, &open))

	list, err := s.ListSharedTasks(ctx, team, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, open.ID, list[0].ID)
	assert.Equal(t, done.ID, list[1].ID)

	_, err = s.GetSharedTask(ctx, open.ID, other)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.DeleteSharedTask(ctx, open.ID, other), repository.ErrNotFound)

	open.Date = "Apr 1"
	require.NoError(t, s.UpdateSharedTask(ctx, &open))
	got, err := s.GetSharedTask(ctx, open.ID, team)
	require.NoError(t, err)
	assert.Equal(t, open, got)

	moved := open
	moved.WorkspaceID = other
	assert.ErrorIs(t, s.UpdateSharedTask(ctx, &moved), repository.ErrNotFound)

	orphan := models.SharedTask{Name: "x", Priority: models.PriorityNormal, Date: "Mar 7", Status: models.StatusNew, CreatedBy: "alice", WorkspaceID: other + 1000}
	assert.ErrorIs(t, s.CreateSharedTask(ctx, &orphan), repository.ErrNotFound)

	require.NoError(t, s.DeleteSharedTask(ctx, open.ID, team))
	list, err = s.ListSharedTasks(ctx, team, 0, 100)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
