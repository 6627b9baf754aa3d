package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore is a file-based preset store for CLI use.
// Presets are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a new file-based preset store.
// If baseDir is empty, defaults to ~/.config/stowage/presets/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "stowage", "presets")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create preset dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (s *FileStore) presetPath(id string) string {
	// IDs are validated UUIDs on write; reject anything path-like on read.
	return filepath.Join(s.baseDir, filepath.Base(id)+".json")
}

func (s *FileStore) read(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read preset file: %w", err)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Preset, error) {
	if strings.ContainsAny(id, `/\`) {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.presetPath(id))
}

func (s *FileStore) Save(_ context.Context, p *Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID != "" && p.CreatedAt.IsZero() {
		if existing, err := s.read(s.presetPath(p.ID)); err == nil {
			p.CreatedAt = existing.CreatedAt
		}
	}
	if err := prepare(p, s.now()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}
	if err := os.WriteFile(s.presetPath(p.ID), data, 0600); err != nil {
		return fmt.Errorf("write preset file: %w", err)
	}
	return nil
}

func (s *FileStore) FindByName(ctx context.Context, name string) (*Preset, error) {
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

func (s *FileStore) List(_ context.Context) ([]Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read preset dir: %w", err)
	}

	var out []Preset
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		p, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	sortByName(out)
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if strings.ContainsAny(id, `/\`) {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.presetPath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove preset file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for preset files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
