// Package session persists the client-side session: the bearer token plus
// the two per-session counters the dashboard shows (contacts and notes added
// since login). Counters only move on an explicit signal from the API client
// after a successful create; they are never derived from server state.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// State is the on-disk shape of a session.
type State struct {
	Token         string `json:"token"`
	ContactsAdded int    `json:"contacts_added"`
	NotesAdded    int    `json:"notes_added"`
}

// Store holds session state in memory and mirrors every change to a JSON
// file, so a restarted client resumes the same session. Safe for concurrent
// use.
type Store struct {
	path  string
	mu    sync.Mutex
	state State
}

// NewStore creates a store backed by the given file, loading existing state
// if the file is present. A missing file is a fresh, anonymous session.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	return s, nil
}

// Token returns the stored bearer token, or "" for an anonymous session.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// SetToken stores a new bearer token, starting a fresh session: both
// counters reset to zero.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{Token: token}
	return s.save()
}

// RecordContactAdded increments the contacts-added-this-session counter.
func (s *Store) RecordContactAdded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ContactsAdded++
	return s.save()
}

// RecordNoteAdded increments the notes-added-this-session counter.
func (s *Store) RecordNoteAdded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.NotesAdded++
	return s.save()
}

// ContactsAdded returns how many contacts were created this session.
func (s *Store) ContactsAdded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ContactsAdded
}

// NotesAdded returns how many notes were created this session.
func (s *Store) NotesAdded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.NotesAdded
}

// Clear wipes the token and both counters. Used on logout and whenever the
// server answers 401.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	return s.save()
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file %s: %w", s.path, err)
	}
	return nil
}
