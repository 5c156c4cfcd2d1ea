package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// User is the identity returned by the auth endpoints.
type User struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Session holds the bearer token of the logged-in user. It is persisted as
// YAML so blogctl stays logged in between runs; an empty Path keeps it in
// memory only.
type Session struct {
	mu        sync.RWMutex
	Path      string    `yaml:"-"`
	APIURL    string    `yaml:"api_url,omitempty"`
	Token     string    `yaml:"token,omitempty"`
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
	User      User      `yaml:"user,omitempty"`
}

// LoadSession reads path. A missing file yields an empty, logged-out session.
func LoadSession(path string) (*Session, error) {
	s := &Session{Path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// DefaultSessionPath is ~/.config/blogctl/session.yaml.
func DefaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "blogctl", "session.yaml")
}

// Set stores a fresh credential and saves the session.
func (s *Session) Set(token string, expiresAt time.Time, u User) error {
	s.mu.Lock()
	s.Token, s.ExpiresAt, s.User = token, expiresAt, u
	s.mu.Unlock()
	return s.Save()
}

// BearerToken returns the token, or "" when logged out.
func (s *Session) BearerToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Token
}

func (s *Session) LoggedIn() bool {
	return s.BearerToken() != ""
}

// CurrentUser returns the cached identity of the logged-in user.
func (s *Session) CurrentUser() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.User
}

func (s *Session) Save() error {
	if s.Path == "" {
		return nil
	}
	s.mu.RLock()
	b, err := yaml.Marshal(s)
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(s.Path, b, 0o600)
}

// Clear drops the credential and removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.Token, s.ExpiresAt, s.User = "", time.Time{}, User{}
	s.mu.Unlock()
	if s.Path == "" {
		return nil
	}
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
