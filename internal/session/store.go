// Package session owns the client-held record of who is logged in.
// The session is persisted to a single file under the user's home
// directory so it survives across invocations, and it is only ever
// mutated through Login and Logout.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/me/shelfctl/pkg/model"
)

const sessionFileName = "session.json"

// Store is the single source of truth for the authenticated identity.
// A zero Store is not usable; construct one with NewStore or DefaultStore.
type Store struct {
	mu   sync.Mutex
	path string
	sess *model.Session
}

// NewStore creates a store persisting to the given file path. The file is
// read eagerly; a missing or malformed file means no session, never an
// error.
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.sess = readSessionFile(path)
	return s
}

// DefaultStore creates a store at ~/.shelfctl/session.json.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("find home directory: %w", err)
	}
	return NewStore(filepath.Join(home, ".shelfctl", sessionFileName)), nil
}

// Login stores the session from a successful authentication response,
// replacing any prior session, and persists it synchronously. A missing
// display name is derived from the email before the session is written so
// the stored payload is already complete.
func (s *Store) Login(sess model.Session) error {
	if sess.Name == "" {
		sess.Name = sess.DisplayName()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(&sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	s.sess = &sess
	return nil
}

// Logout clears the in-memory and persisted session. Calling it with no
// session stored is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Current returns the stored session, or ok=false when nobody is logged
// in. The returned session must be treated as read-only.
func (s *Store) Current() (*model.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sess.Valid() {
		return nil, false
	}
	return s.sess, true
}

// readSessionFile loads a persisted session, treating anything unreadable
// or unparseable as absent rather than failing startup.
func readSessionFile(path string) *model.Session {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil
	}
	if !sess.Valid() {
		return nil
	}
	return &sess
}
