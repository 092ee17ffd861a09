package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"taskline/internal/models"
	"taskline/pkg/crypto"
)

// DefaultSessionFile is the session file name used under the home directory.
const DefaultSessionFile = ".taskline_session"

type Session struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

type sessionFile struct {
	Token     string            `json:"token"`
	User      models.UserPublic `json:"user"`
	Encrypted bool              `json:"encrypted,omitempty"`
}

// SessionStore persists the logged-in session between runs. With a key the
// token is encrypted at rest.
type SessionStore struct {
	path string
	key  string
}

func NewSessionStore(path, key string) *SessionStore {
	return &SessionStore{path: path, key: key}
}

// DefaultSessionPath returns ~/.taskline_session, or the file in the working
// directory when no home directory is known.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultSessionFile
	}
	return filepath.Join(home, DefaultSessionFile)
}

// Load returns nil without error when no session is stored.
func (s *SessionStore) Load() (*Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if f.Encrypted {
		if s.key == "" {
			return nil, errors.New("session is encrypted but no key is set")
		}
		token, err := crypto.Decrypt(f.Token, s.key)
		if err != nil {
			return nil, fmt.Errorf("decrypt session: %w", err)
		}
		f.Token = token
	}
	return &Session{Token: f.Token, User: f.User}, nil
}

func (s *SessionStore) Save(sess Session) error {
	f := sessionFile{Token: sess.Token, User: sess.User}
	if s.key != "" {
		token, err := crypto.Encrypt(sess.Token, s.key)
		if err != nil {
			return fmt.Errorf("encrypt session: %w", err)
		}
		f.Token, f.Encrypted = token, true
	}

	raw, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
