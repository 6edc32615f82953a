// Package session holds the client's authentication state. A Session is
// loaded from a file once at start, passed explicitly to the API client,
// and cleared on logout.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type Session struct {
	mu    sync.RWMutex
	path  string
	token string
	email string
}

type fileFormat struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email,omitempty"`
}

// DefaultPath returns ~/.config/tracker/session.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "tracker", "session.json"), nil
}

// Load reads the session stored at path. A missing file yields an empty,
// logged-out session bound to path.
func Load(path string) (*Session, error) {
	s := &Session{path: path}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	s.token, s.email = f.AccessToken, f.Email
	return s, nil
}

// InMemory returns a session that is never written to disk.
func InMemory(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}

// Set stores a new token and persists it.
func (s *Session) Set(token, email string) error {
	s.mu.Lock()
	s.token, s.email = token, email
	s.mu.Unlock()
	return s.save()
}

// SetEmail updates the remembered email after a profile change.
func (s *Session) SetEmail(email string) error {
	s.mu.Lock()
	s.email = email
	s.mu.Unlock()
	return s.save()
}

// Clear forgets the token and removes the session file.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token, s.email = "", ""
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *Session) save() error {
	s.mu.RLock()
	path := s.path
	f := fileFormat{AccessToken: s.token, Email: s.email}
	s.mu.RUnlock()

	if path == "" {
		return nil
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
