package review

import (
	"errors"
	"sync"

	"github.com/suya12/ocr-claim-review/internal/models"
)

// ErrSessionNotFound is returned when a session id is unknown or already
// closed.
var ErrSessionNotFound = errors.New("edit session not found")

// Sessions is the registry of open edit sessions, keyed by session id.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*Session
}

// NewSessions creates an empty registry.
func NewSessions() *Sessions {
	return &Sessions{byID: make(map[string]*Session)}
}

// Open starts an edit session over a copy of the given row.
func (r *Sessions) Open(row models.ClaimRow) *Session {
	s := NewSession(row)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	return s
}

// Get returns the session with the given id.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close discards a session. Ending an edit session, by save or by
// navigating away, always lands here.
func (r *Sessions) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}
