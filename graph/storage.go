package graph

import (
	"context"
	"sync"
)

// SessionStorage persists sessions between steps. Implementations must be
// safe for concurrent use. Get returns (nil, nil) when the id is unknown;
// callers that require presence translate that into ErrSessionNotFound.
//
// The storage provides no mutual exclusion: concurrent steps on the same
// session id race last-writer-wins, and callers needing single-flight must
// serialize externally.
type SessionStorage interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// GraphStorage stores graphs by id. Graphs are code, not data, so only the
// in-memory implementation exists; durable deployments rebuild their graphs
// at startup.
type GraphStorage interface {
	Save(ctx context.Context, id string, g *Graph) error
	Get(ctx context.Context, id string) (*Graph, error)
	Delete(ctx context.Context, id string) error
}

// InMemorySessionStorage keeps sessions in a map. Save stores a deep copy
// and Get returns one, so a stored session never aliases a live Context.
type InMemorySessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemorySessionStorage creates an empty in-memory session store.
func NewInMemorySessionStorage() *InMemorySessionStorage {
	return &InMemorySessionStorage{sessions: make(map[string]*Session)}
}

// Save stores a deep copy of the session.
func (s *InMemorySessionStorage) Save(_ context.Context, session *Session) error {
	clone := session.Clone()
	s.mu.Lock()
	s.sessions[clone.ID] = clone
	s.mu.Unlock()
	return nil
}

// Get returns a deep copy of the stored session, or (nil, nil) when absent.
func (s *InMemorySessionStorage) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return session.Clone(), nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *InMemorySessionStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// InMemoryGraphStorage keeps graphs in a map. Graphs are immutable after
// build, so no copying is needed.
type InMemoryGraphStorage struct {
	mu     sync.RWMutex
	graphs map[string]*Graph
}

// NewInMemoryGraphStorage creates an empty in-memory graph store.
func NewInMemoryGraphStorage() *InMemoryGraphStorage {
	return &InMemoryGraphStorage{graphs: make(map[string]*Graph)}
}

// Save stores the graph under id.
func (s *InMemoryGraphStorage) Save(_ context.Context, id string, g *Graph) error {
	s.mu.Lock()
	s.graphs[id] = g
	s.mu.Unlock()
	return nil
}

// Get returns the stored graph, or (nil, nil) when absent.
func (s *InMemoryGraphStorage) Get(_ context.Context, id string) (*Graph, error) {
	s.mu.RLock()
	g, ok := s.graphs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return g, nil
}

// Delete removes the graph. Deleting an unknown id is not an error.
func (s *InMemoryGraphStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.graphs, id)
	s.mu.Unlock()
	return nil
}
