package service

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for an unknown session id
var ErrSessionNotFound = errors.New("session not found")

// Sessions tracks the open inspection sessions
type Sessions struct {
	graphs *GraphService
	bus    *EventBus

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty session manager
func NewSessions(graphs *GraphService, bus *EventBus) *Sessions {
	return &Sessions{
		graphs:   graphs,
		bus:      bus,
		sessions: make(map[string]*Session),
	}
}

// Create opens a new session with a random id
func (m *Sessions) Create() *Session {
	session := NewSession(uuid.NewString(), m.graphs, m.bus)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	n := len(m.sessions)
	m.mu.Unlock()

	m.graphs.metrics.SetSessionsActive(n)
	m.graphs.logger.Info("session created", zap.String("session_id", session.ID()))
	m.bus.Publish(Event{Type: EventSessionCreated, SessionID: session.ID()})
	return session
}

// Get returns the session with the given id
func (m *Sessions) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Delete closes a session. Loads still in flight for it are discarded when
// they complete.
func (m *Sessions) Delete(id string) error {
	m.mu.Lock()
	if _, ok := m.sessions[id]; !ok {
		m.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()

	m.graphs.metrics.SetSessionsActive(n)
	m.graphs.logger.Info("session closed", zap.String("session_id", id))
	m.bus.Publish(Event{Type: EventSessionClosed, SessionID: id})
	return nil
}

// List returns snapshots of all sessions ordered by id
func (m *Sessions) List() []Snapshot {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	snapshots := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snapshots = append(snapshots, s.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].ID < snapshots[j].ID
	})
	return snapshots
}

// Len returns the number of open sessions
func (m *Sessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
