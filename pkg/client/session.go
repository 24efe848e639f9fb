package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/noah-isme/sams-api/internal/models"
)

const sessionFile = "session.json"

type sessionStore interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	Delete(filename string) error
}

// Session holds the bearer token and user of the logged-in operator.
// Login populates it, logout clears it.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *models.User
}

type sessionState struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Set replaces the session contents.
func (s *Session) Set(token string, user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear forgets the token and user.
func (s *Session) Clear() {
	s.Set("", nil)
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user, nil when logged out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// renew swaps in a refreshed token while keeping the user.
func (s *Session) renew(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		s.token = token
	}
}

// Persist writes the session to store, or removes the file when logged out.
func (s *Session) Persist(store sessionStore) error {
	s.mu.RLock()
	state := sessionState{Token: s.token, User: s.user}
	s.mu.RUnlock()

	if state.Token == "" {
		return store.Delete(sessionFile)
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if _, err := store.Save(sessionFile, raw); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// LoadSession restores a persisted session. A missing file yields an
// empty session.
func LoadSession(store sessionStore) (*Session, error) {
	session := &Session{}
	raw, err := store.Read(sessionFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return session, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var state sessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	session.Set(state.Token, state.User)
	return session, nil
}
