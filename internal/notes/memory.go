package notes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/haasonsaas/notabot/pkg/models"
)

// MemoryStore provides an in-memory Store implementation for testing and
// local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	notes  map[int64]*models.Note
	nextID int64
}

// NewMemoryStore creates a new in-memory note store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notes:  map[int64]*models.Note{},
		nextID: 1,
	}
}

func (m *MemoryStore) Create(ctx context.Context, ownerID, title, content string) (*models.Note, error) {
	if title == "" {
		title = models.DefaultTitle
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := &models.Note{
		ID:        m.nextID,
		OwnerID:   ownerID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	m.nextID++
	m.notes[n.ID] = n

	clone := *n
	return &clone, nil
}

func (m *MemoryStore) ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.Note
	for _, n := range m.notes {
		if n.OwnerID == ownerID {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64, ownerID string) (*models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	clone := *n
	return &clone, nil
}

func (m *MemoryStore) Update(ctx context.Context, id int64, ownerID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notes[id]
	if !ok || n.OwnerID != ownerID {
		return ErrNotFound
	}
	n.Content = content
	n.CreatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notes[id]
	if ok && n.OwnerID == ownerID {
		delete(m.notes, id)
	}
	return nil
}
