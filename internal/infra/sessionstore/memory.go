// Package sessionstore holds the session.Store implementations selected by
// SESSION_STORE: memory, redis or postgres.
package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/session"
)

// Memory keeps sessions in process; they are lost on restart.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]session.Record
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{recs: map[string]session.Record{}, now: time.Now}
}

func (m *Memory) Save(_ context.Context, rec session.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (session.Record, error) {
	m.mu.RLock()
	rec, ok := m.recs[id]
	m.mu.RUnlock()
	if !ok || (!rec.ExpiresAt.IsZero() && m.now().After(rec.ExpiresAt)) {
		return session.Record{}, session.ErrNotFound
	}
	return rec, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	return nil
}

// PurgeExpired drops expired sessions and reports how many went.
func (m *Memory) PurgeExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	var n int64
	for id, rec := range m.recs {
		if !rec.ExpiresAt.IsZero() && now.After(rec.ExpiresAt) {
			delete(m.recs, id)
			n++
		}
	}
	return n, nil
}
