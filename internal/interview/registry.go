package interview

import (
	"sync"

	"github.com/google/uuid"
)

// record pairs the stored session with the transient hesitation episode for
// its currently pending question. The episode is reset whenever a new
// question is issued and is never part of the session's durable state.
type record struct {
	session *Session
	episode int
}

// Registry is an in-memory, process-lifetime store of interview sessions.
// Sessions are fully independent of one another; the lock is never held
// across generation calls.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*record
}

func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*record)}
}

// Create stores a fresh session under a new opaque id and returns a copy.
func (r *Registry) Create(role string, budget int) (*Session, error) {
	session, err := NewSession(uuid.NewString(), role, budget)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.records[session.ID] = &record{session: session}
	r.mu.Unlock()

	return session.Clone(), nil
}

// Get returns a copy of the stored session, so callers can mutate freely and
// commit via Save.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return rec.session.Clone(), nil
}

// Save replaces the stored session state.
func (r *Registry) Save(session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[session.ID]
	if !ok {
		return ErrSessionNotFound
	}

	rec.session = session.Clone()

	return nil
}

// BumpEpisode increments the hesitation counter for the pending question and
// returns the new count.
func (r *Registry) BumpEpisode(id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return 0, ErrSessionNotFound
	}

	rec.episode++

	return rec.episode, nil
}

// ResetEpisode clears the hesitation counter when a new question is presented.
func (r *Registry) ResetEpisode(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return ErrSessionNotFound
	}

	rec.episode = 0

	return nil
}
