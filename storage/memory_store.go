package storage

import (
	"context"
	"sort"
	"sync"

	"deal-scanner/models"
)

// MemoryStore is a TrackedStore kept in process memory. It is used when no
// database is configured and loses its contents on exit.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]models.TrackedItem
	baselines map[string]models.Baseline
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:     make(map[string]models.TrackedItem),
		baselines: make(map[string]models.Baseline),
	}
}

func (m *MemoryStore) SaveTracked(_ context.Context, item models.TrackedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

// ListTracked returns every tracked item ordered by id.
func (m *MemoryStore) ListTracked(_ context.Context) ([]models.TrackedItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]models.TrackedItem, 0, len(m.items))
	for _, it := range m.items {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *MemoryStore) RecordBaseline(_ context.Context, title string, b models.Baseline) error {
	if !b.Present() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baselines[title] = b
	return nil
}

// Baseline returns the last baseline recorded for title.
func (m *MemoryStore) Baseline(title string) (models.Baseline, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.baselines[title]
	return b, ok
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
