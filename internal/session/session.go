// Package session owns the auth token lifecycle on the client side: a
// file-backed store standing in for the browser's persistent storage, and
// the login/logout flow around it.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ohana-pos/pos/internal/posapi"
)

// FileStore persists the opaque token to a single file. It satisfies
// posapi.TokenSource so a client can read the live token on every request.
type FileStore struct {
	path string

	mu    sync.RWMutex
	token string
}

// NewFileStore loads whatever token the file currently holds; a missing
// file just means no session.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	s.token = strings.TrimSpace(string(data))
	return s, nil
}

func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	s.token = token
	return nil
}

// Clear forgets the token locally. Removing a file that is already gone is
// fine.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// Session ties a client to a token store.
type Session struct {
	client *posapi.Client
	store  *FileStore
}

func New(client *posapi.Client, store *FileStore) *Session {
	return &Session{client: client, store: store}
}

// Active reports whether a token is present. Nothing validates it locally;
// an expired token surfaces as an auth error on the next request.
func (s *Session) Active() bool {
	return s.store.Token() != ""
}

// Login exchanges credentials for a token and persists it.
func (s *Session) Login(ctx context.Context, username, password string) error {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.store.Save(token)
}

// Logout drops the token locally. The server keeps no session state, so
// there is nothing to invalidate remotely.
func (s *Session) Logout() error {
	return s.store.Clear()
}
