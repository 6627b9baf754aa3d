package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps presets in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	presets map[string]Preset
	now     func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{presets: make(map[string]Preset), now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, p *Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.presets[p.ID]; ok && p.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}
	if err := prepare(p, s.now()); err != nil {
		return err
	}
	s.presets[p.ID] = *p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.presets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindByName(ctx context.Context, name string) (*Preset, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context) ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Preset, 0, len(s.presets))
	for _, p := range s.presets {
		out = append(out, p)
	}
	sortByName(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[id]; !ok {
		return ErrNotFound
	}
	delete(s.presets, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
