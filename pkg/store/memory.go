package store

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/deptiers/pkg/deps"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

func (s *MemoryStore) Save(_ context.Context, name string, records []deps.Record) (*Snapshot, error) {
	snap, err := newSnapshot(name, records)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.snapshots[snap.ID] = *snap
	s.mu.Unlock()
	return snap, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	snap.Records = slices.Clone(snap.Records)
	return &snap, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Snapshot, error) {
	s.mu.RLock()
	all := slices.Collect(maps.Values(s.snapshots))
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b Snapshot) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	all = all[:min(len(all), listLimit(limit))]
	for i := range all {
		all[i].Records = nil
	}
	return all, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snapshots[id]; !ok {
		return notFound(id)
	}
	delete(s.snapshots, id)
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
