package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskline/internal/models"
)

func TestSessionStore_Plain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewSessionStore(path, "")

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	want := Session{Token: "tok", User: models.UserPublic{ID: 1, Name: "alice"}}
	require.NoError(t, store.Save(want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"tok","user":{"id":1,"name":"alice"}}`, string(raw))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &want, got)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	got, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Encrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewSessionStore(path, "passphrase")

	want := Session{Token: "secret-token", User: models.UserPublic{ID: 2, Name: "bob"}}
	require.NoError(t, store.Save(want))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, &want, got)

	_, err = NewSessionStore(path, "").Load()
	assert.Error(t, err)
	_, err = NewSessionStore(path, "wrong").Load()
	assert.Error(t, err)
}
