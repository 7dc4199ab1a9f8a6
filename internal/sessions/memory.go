package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/haasonsaas/notabot/pkg/models"
)

// MemoryStore provides an in-memory Store implementation for single-process
// deployments, testing, and local runs.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	nowFunc  func() time.Time // For testing
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string]*models.Session{},
		nowFunc:  time.Now,
	}
}

// SetNowFunc sets a custom time function for testing.
func (m *MemoryStore) SetNowFunc(fn func() time.Time) {
	m.nowFunc = fn
}

func (m *MemoryStore) Get(ctx context.Context, ownerID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[ownerID]
	if !ok {
		s = models.NewSession(ownerID)
		s.UpdatedAt = m.nowFunc()
		m.sessions[ownerID] = s
	}
	clone := *s
	return &clone, nil
}

func (m *MemoryStore) Update(ctx context.Context, ownerID string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[ownerID]
	if !ok {
		s = models.NewSession(ownerID)
		m.sessions[ownerID] = s
	}
	patch.apply(s, m.nowFunc())
	return nil
}

func (m *MemoryStore) Reset(ctx context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := models.NewSession(ownerID)
	s.UpdatedAt = m.nowFunc()
	m.sessions[ownerID] = s
	return nil
}

func (m *MemoryStore) Sweep(ctx context.Context, idleFor time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.nowFunc().Add(-idleFor)
	removed := 0
	for ownerID, s := range m.sessions {
		// Mid-flow sessions are never swept, however old.
		if s.Idle() && s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, ownerID)
			removed++
		}
	}
	return removed, nil
}
