package main

import (
	"bytes"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskline/internal/api"
	"taskline/internal/repository/memory"
	"taskline/internal/service"
	"taskline/pkg/client"
)

func startServer(t *testing.T) string {
	t.Helper()

	store := memory.New()
	creds := service.NewCredentials(store, store, service.CredentialsConfig{
		Secret:     []byte("shell-test"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	app := api.NewApp(api.Services{
		Credentials:   creds,
		PersonalTasks: service.NewPersonalTasks(store, creds),
		Workspaces:    service.NewWorkspaces(store, store),
		SharedTasks:   service.NewSharedTasks(store, store),
		Store:         store,
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func runScript(t *testing.T, baseURL, sessionPath string, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	sh := newShell(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out,
		client.New(baseURL), client.NewSessionStore(sessionPath, "key"))
	require.NoError(t, sh.run())
	return out.String()
}

func TestShell_PersonalTasksAndSession(t *testing.T) {
	baseURL := startServer(t)
	session := filepath.Join(t.TempDir(), "session")

	out := runScript(t, baseURL, session,
		"2", "alice", "secret123",
		"1", "alice", "secret123",
		"add", "Buy milk", "",
		"toggle 1",
		"toggle 9",
		"quit",
	)
	assert.Contains(t, out, "Registered alice")
	assert.Contains(t, out, "Logged in as alice")
	assert.Contains(t, out, " 1. [ ] Buy milk (Normal,")
	assert.Contains(t, out, " 1. [x] Buy milk (Normal,")
	assert.Contains(t, out, "no task number 9")

	out = runScript(t, baseURL, session, "tasks", "logout", "q")
	assert.Contains(t, out, "Logged in as alice", "session resumes from disk")
	assert.Contains(t, out, "[x] Buy milk")
	assert.Contains(t, out, "Logged out")

	sess, err := client.NewSessionStore(session, "key").Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestShell_Workspaces(t *testing.T) {
	baseURL := startServer(t)
	dir := t.TempDir()

	runScript(t, baseURL, filepath.Join(dir, "bob"), "2", "bob", "secret123", "q")

	out := runScript(t, baseURL, filepath.Join(dir, "alice"),
		"2", "alice", "secret123",
		"1", "alice", "secret123",
		"ws new Team",
		"ws add 3 bob",
		"ws add 3 ghost",
		"ws",
		"open 3",
		"sadd", "Plan launch", "h",
		"stoggle 1",
		"ws rm 3 bob",
		"ws del 3",
		"ws",
		"quit",
	)
	assert.Contains(t, out, "Created workspace 3")
	assert.Contains(t, out, "Added successfully!")
	assert.Contains(t, out, "Error: user not found")
	assert.Contains(t, out, "[3] Team (owner alice, you are owner) members: bob")
	assert.Contains(t, out, "No shared tasks in workspace 3")
	assert.Contains(t, out, " 1. [ ] Plan launch (High,")
	assert.Contains(t, out, ") by alice")
	assert.Contains(t, out, " 1. [x] Plan launch (High,")
	assert.Contains(t, out, "Removed successfully!")
	assert.Contains(t, out, "Deleted!")
	assert.Contains(t, out, "No workspaces yet")
}

func TestShell_BobSeesSharedWorkspace(t *testing.T) {
	baseURL := startServer(t)
	dir := t.TempDir()

	runScript(t, baseURL, filepath.Join(dir, "bob"), "2", "bob", "secret123", "q")
	runScript(t, baseURL, filepath.Join(dir, "carol"), "2", "carol", "secret123", "q")
	runScript(t, baseURL, filepath.Join(dir, "alice"),
		"2", "alice", "secret123",
		"1", "alice", "secret123",
		"ws new Team",
		"ws add 4 bob",
		"q",
	)

	out := runScript(t, baseURL, filepath.Join(dir, "bob"),
		"1", "bob", "secret123",
		"ws",
		"ws del 4",
		"q",
	)
	assert.Contains(t, out, "[4] Team (owner alice, you are member) members: bob")
	assert.Contains(t, out, "Error: Permission denied")

	out = runScript(t, baseURL, filepath.Join(dir, "carol"),
		"1", "carol", "secret123",
		"open 4",
		"q",
	)
	assert.Contains(t, out, "Error: Permission denied")
}
