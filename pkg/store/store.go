// Package store keeps named parameter presets.
//
// A [Preset] is a saved [scene.Params] under a human-readable name. Three
// backends implement [Store]:
//
//   - [MemoryStore]: process-local, used by tests and the default server
//   - [FileStore]: one JSON file per preset under the user config dir (CLI)
//   - [MongoStore]: a MongoDB collection shared by server replicas
//
// Save assigns an ID to new presets and maintains the timestamps. List
// returns presets sorted by name. [SaveNamed] keeps names unique across
// every backend.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/stowage/pkg/errors"
	"github.com/matzehuels/stowage/pkg/scene"
)

// ErrNotFound is returned when no preset matches.
var ErrNotFound = errors.New("preset not found")

// Preset is a named set of container parameters.
type Preset struct {
	ID        string       `json:"id" bson:"_id"`
	Name      string       `json:"name" bson:"name"`
	Params    scene.Params `json:"params" bson:"params"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// Store persists presets.
type Store interface {
	// Save inserts p, or replaces the preset with the same ID.
	// It fills in ID and timestamps on p.
	Save(ctx context.Context, p *Preset) error

	// Get returns the preset with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Preset, error)

	// FindByName returns the first preset with the given name or ErrNotFound.
	FindByName(ctx context.Context, name string) (*Preset, error)

	// List returns all presets sorted by name.
	List(ctx context.Context) ([]Preset, error)

	// Delete removes a preset. Deleting a missing preset returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Lookup resolves ref as an ID first and then as a name.
func Lookup(ctx context.Context, s Store, ref string) (*Preset, error) {
	p, err := s.Get(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.FindByName(ctx, ref)
}

// SaveNamed saves p, replacing any preset that already carries its name.
// A preset without an ID takes over the ID and creation time of the
// existing one. It reports whether an existing preset was replaced.
func SaveNamed(ctx context.Context, s Store, p *Preset) (bool, error) {
	p.Name = strings.TrimSpace(p.Name)
	replaced := false
	if p.ID != "" {
		if _, err := s.Get(ctx, p.ID); err == nil {
			replaced = true
		} else if !errors.Is(err, ErrNotFound) {
			return false, err
		}
	}
	var shadowed string
	existing, err := s.FindByName(ctx, p.Name)
	switch {
	case err == nil && p.ID == "":
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		replaced = true
	case err == nil && existing.ID != p.ID:
		shadowed = existing.ID
	case err != nil && !errors.Is(err, ErrNotFound):
		return false, err
	}
	if err := s.Save(ctx, p); err != nil {
		return false, err
	}
	// Renaming onto a taken name drops the other preset.
	if shadowed != "" {
		if err := s.Delete(ctx, shadowed); err != nil && !errors.Is(err, ErrNotFound) {
			return replaced, err
		}
	}
	return replaced, nil
}

// prepare validates p and stamps ID and times. now is injected for tests.
func prepare(p *Preset, now time.Time) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := apperrors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, err := uuid.Parse(p.ID); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid preset id %q", p.ID)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Params = p.Params.WithColorDefaults()
	return nil
}

func sortByName(ps []Preset) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Name != ps[j].Name {
			return ps[i].Name < ps[j].Name
		}
		return ps[i].ID < ps[j].ID
	})
}
