package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskline/internal/models"
	"taskline/internal/repository/memory"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	store      *memory.Storage
	creds      *Credentials
	personal   *PersonalTasks
	workspaces *Workspaces
	shared     *SharedTasks
	clock      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	env := &testEnv{
		store: store,
		creds: NewCredentials(store, store, CredentialsConfig{
			Secret:     testSecret,
			TokenTTL:   180 * 24 * time.Hour,
			BcryptCost: bcrypt.MinCost,
		}),
		clock: time.Date(2026, time.March, 7, 9, 30, 0, 0, time.UTC),
	}
	env.personal = NewPersonalTasks(store, env.creds)
	env.workspaces = NewWorkspaces(store, store)
	env.shared = NewSharedTasks(store, store)

	now := func() time.Time { return env.clock }
	env.personal.now = now
	env.shared.now = now
	return env
}

func (e *testEnv) register(t *testing.T, name string) models.UserPublic {
	t.Helper()
	u, err := e.creds.Register(context.Background(), name, "secret123")
	require.NoError(t, err)
	return u
}
