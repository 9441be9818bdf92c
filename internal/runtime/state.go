package runtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/pond/internal/ritual"
	"github.com/felixgeelhaar/pond/internal/store"
)

// ErrUnknownSession is returned when a session id matches neither an
// in-memory ritual nor a stored one.
var ErrUnknownSession = errors.New("unknown session")

// StateManager keeps active ritual states in memory and persists them
// to the store, so a restarted server can resume a half-finished ritual.
type StateManager struct {
	mu       sync.RWMutex
	store    store.Storage
	sessions map[string]*ritual.State
}

// NewStateManager creates a new state manager.
func NewStateManager(s store.Storage) *StateManager {
	return &StateManager{
		store:    s,
		sessions: make(map[string]*ritual.State),
	}
}

// Track registers a new ritual state and creates its store row.
func (sm *StateManager) Track(sessionID string, st *ritual.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal ritual state: %w", err)
	}

	sm.mu.Lock()
	sm.sessions[sessionID] = st
	sm.mu.Unlock()

	now := time.Now()
	return sm.store.CreateSession(&store.Session{
		ID:        sessionID,
		Title:     st.Title,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    "active",
		State:     raw,
	})
}

// Get returns the in-memory ritual state, rehydrating it from the store
// if this process has not seen the session yet.
func (sm *StateManager) Get(sessionID string) (*ritual.State, error) {
	sm.mu.RLock()
	st, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if ok {
		return st, nil
	}

	session, err := sm.store.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}

	st = &ritual.State{}
	if err := json.Unmarshal(session.State, st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ritual state: %w", err)
	}

	sm.mu.Lock()
	sm.sessions[sessionID] = st
	sm.mu.Unlock()
	return st, nil
}

// Persist writes the current ritual state back to the store.
func (sm *StateManager) Persist(sessionID, status string) error {
	sm.mu.RLock()
	st, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return fmt.Errorf("session not tracked: %s", sessionID)
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal ritual state: %w", err)
	}

	session, err := sm.store.GetSession(sessionID)
	if err != nil {
		return err
	}
	session.Status = status
	session.State = raw
	return sm.store.UpdateSession(session)
}

// Forget drops the in-memory state. The store row is left alone.
func (sm *StateManager) Forget(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, sessionID)
}

// Active returns the IDs of sessions currently held in memory.
func (sm *StateManager) Active() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}
