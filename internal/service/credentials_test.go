package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskline/internal/repository/memory"
)

func TestCredentials_RegisterLoginAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.creds.Register(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Name)
	assert.NotZero(t, u.ID)

	tok, err := env.creds.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	identity, err := env.creds.Authenticate(ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u, identity)
}

func TestCredentials_StoresHashNotPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "alice")
	stored, err := env.store.GetUserByName(ctx, "alice")
	require.NoError(t, err)

	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestCredentials_RegisterErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	tests := []struct {
		name     string
		user     string
		password string
		want     error
	}{
		{"duplicate user", "alice", "another1", ErrDuplicateUser},
		{"short password", "bob", "1234", ErrWeakCredential},
		{"blank name", "   ", "secret123", ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.creds.Register(ctx, tt.user, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCredentials_LoginDoesNotRevealWhichPartFailed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	_, errWrongPassword := env.creds.Login(ctx, "alice", "wrong-password")
	_, errUnknownUser := env.creds.Login(ctx, "nobody", "secret123")

	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
}

func TestCredentials_TokenLifetime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	before := time.Now()
	tok, err := env.creds.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	claims := &tokenClaims{}
	_, err = jwt.ParseWithClaims(tok.AccessToken, claims, func(*jwt.Token) (interface{}, error) { return testSecret, nil })
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserName)
	assert.WithinDuration(t, before.Add(180*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestCredentials_AuthenticateFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	t.Run("expired", func(t *testing.T) {
		env.creds.now = func() time.Time { return time.Now().Add(-181 * 24 * time.Hour) }
		defer func() { env.creds.now = time.Now }()

		tok, err := env.creds.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
		_, err = env.creds.Authenticate(ctx, tok.AccessToken)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := env.creds.Authenticate(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewCredentials(env.store, env.store, CredentialsConfig{Secret: []byte("other"), TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost})
		tok, err := other.Login(ctx, "alice", "secret123")
		require.NoError(t, err)
		_, err = env.creds.Authenticate(ctx, tok.AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		tok, err := env.creds.Login(ctx, "alice", "secret123")
		require.NoError(t, err)

		empty := memory.New()
		elsewhere := NewCredentials(empty, empty, CredentialsConfig{Secret: testSecret, TokenTTL: time.Hour})
		_, err = elsewhere.Authenticate(ctx, tok.AccessToken)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestCredentials_LogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	tok, err := env.creds.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	other, err := env.creds.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, env.creds.Logout(ctx, tok.AccessToken))

	_, err = env.creds.Authenticate(ctx, tok.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = env.creds.Authenticate(ctx, other.AccessToken)
	assert.NoError(t, err, "other sessions stay valid")
}

func TestCredentials_VerifyOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	ok, err := env.creds.VerifyOwnership(ctx, alice, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.creds.VerifyOwnership(ctx, alice, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	forged := alice
	forged.ID = bob.ID
	ok, err = env.creds.VerifyOwnership(ctx, forged, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok, "name and id must resolve to the same row")
}

func TestCredentials_LoginUnknownUserStillComparesHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice")

	var hashes [][]byte
	env.creds.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, err := env.creds.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.creds.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.Len(t, hashes, 2)
	assert.Equal(t, env.creds.dummyHash, hashes[0])
	cost, err := bcrypt.Cost(hashes[0])
	require.NoError(t, err)
	assert.Equal(t, env.creds.cost, cost)
}
