// Package listview owns the unconfirmed-claim list: the polling refresh
// loop, optimistic confirm with rollback, and merge-on-return of edited
// claims.
package listview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/suya12/ocr-claim-review/internal/claims"
	"github.com/suya12/ocr-claim-review/internal/hidden"
	"github.com/suya12/ocr-claim-review/internal/models"
)

// ErrUnknownClaim is returned when an operation addresses a key that is not
// in the visible list. A row under an in-flight confirm is already removed,
// so a second confirm of the same row fails here instead of double-sending.
var ErrUnknownClaim = errors.New("unknown claim")

// Backend is the slice of the backend client the engine needs.
type Backend interface {
	ListClaims(ctx context.Context, skip, limit int) ([]models.ClaimRecord, error)
	Confirm(ctx context.Context, requestID, key string, claim models.ClaimRow) error
}

// Config holds the engine's polling parameters.
type Config struct {
	PollInterval time.Duration
	PageLimit    int
}

// Engine keeps the row list consistent with the backend. Reads replace the
// whole list; local operations (confirm, merge-on-return) are layered on
// top under the engine mutex. There is no in-flight deduplication of polls:
// a slow response may be overwritten by a later one, last write wins.
type Engine struct {
	backend Backend
	store   hidden.Store
	cfg     Config

	mu      sync.Mutex
	rows    []models.ClaimRow
	active  int
	loading bool
}

// New creates an engine over the given backend and hidden-key store.
func New(b Backend, store hidden.Store, cfg Config) *Engine {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = 50
	}
	return &Engine{backend: b, store: store, cfg: cfg, active: -1, loading: true}
}

// Run fetches once immediately, then refetches on the poll interval until
// the context is cancelled. The ticker is released on every exit path.
func (e *Engine) Run(ctx context.Context) {
	e.Refresh(ctx)

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.Refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Refresh replaces the row list with the freshly mapped server result,
// filtered by the hidden-key set. A fetch failure degrades the list to
// empty with a log warning; stale-is-acceptable for a polling read, so the
// operator is not interrupted.
func (e *Engine) Refresh(ctx context.Context) {
	items, err := e.backend.ListClaims(ctx, 0, e.cfg.PageLimit)
	if err != nil {
		log.Printf("listview: fetch failed: %v", err)
		items = nil
	}

	rows := make([]models.ClaimRow, 0, len(items))
	for _, item := range items {
		row := claims.ToRow(item)
		hiddenKey, herr := e.store.Has(claims.Key(row))
		if herr != nil {
			log.Printf("listview: hidden lookup failed: %v", herr)
		}
		if hiddenKey {
			continue
		}
		rows = append(rows, row)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = rows
	e.loading = false
	if e.active >= len(e.rows) {
		e.active = -1
	}
}

// Rows returns a copy of the current row list.
func (e *Engine) Rows() []models.ClaimRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.ClaimRow, len(e.rows))
	for i, r := range e.rows {
		out[i] = r.Clone()
	}
	return out
}

// Loading reports whether the first fetch has completed yet.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Row returns the row with the given stable key.
func (e *Engine) Row(key string) (models.ClaimRow, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.rows {
		if claims.Key(r) == key {
			return r.Clone(), true
		}
	}
	return models.ClaimRow{}, false
}

// SetActive records the hovered row index; an out-of-range index clears it.
func (e *Engine) SetActive(idx int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx < 0 || idx >= len(e.rows) {
		e.active = -1
		return
	}
	e.active = idx
}

// Active returns the hovered row index, or -1.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// ApplyUpdated merges a claim returned from a completed edit session back
// into the list, matched by stable key. Changed fields overlay the current
// row; a row the poller has already dropped is left alone.
func (e *Engine) ApplyUpdated(updated models.ClaimRow) {
	key := claims.Key(updated)

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.rows {
		if claims.Key(r) != key {
			continue
		}
		merged := r.Clone()
		merged.ID = updated.ID
		merged.ClientRequestID = updated.ClientRequestID
		merged.Status = updated.Status
		for k, v := range updated.Fields {
			merged.Fields[k] = v
		}
		e.rows[i] = merged
		return
	}
}

// Confirm removes the row optimistically, clears the hover state pointing
// at it, then issues the backend confirm. On failure the exact same row is
// reinserted at its original index and the error is returned for the
// caller to surface; on success the key is added to the hidden set so the
// row stays gone across reloads.
func (e *Engine) Confirm(ctx context.Context, key string) error {
	e.mu.Lock()
	idx := -1
	for i, r := range e.rows {
		if claims.Key(r) == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		e.mu.Unlock()
		return ErrUnknownClaim
	}
	row := e.rows[idx]
	e.rows = append(e.rows[:idx], e.rows[idx+1:]...)
	if e.active == idx {
		e.active = -1
	}
	e.mu.Unlock()

	requestID := row.ClientRequestID
	if requestID == "" {
		requestID = row.ID
	}
	if requestID == "" {
		requestID = key
	}

	if err := e.backend.Confirm(ctx, requestID, key, row); err != nil {
		e.mu.Lock()
		at := idx
		if at > len(e.rows) {
			at = len(e.rows)
		}
		e.rows = append(e.rows[:at], append([]models.ClaimRow{row}, e.rows[at:]...)...)
		e.mu.Unlock()
		return fmt.Errorf("confirm %s: %w", key, err)
	}

	if err := e.store.Add(key); err != nil {
		log.Printf("listview: persist hidden key %q: %v", key, err)
	}
	return nil
}

// ResetHidden clears the persisted hidden-key set.
func (e *Engine) ResetHidden() error {
	return e.store.Clear()
}
