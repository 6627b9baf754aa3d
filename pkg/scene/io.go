package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Document - Serialized Scene
// =============================================================================

// DocumentVersion is the current scene document version.
const DocumentVersion = 1

// Document is the on-disk and over-the-wire form of a scene. The viewer
// page consumes it as-is.
type Document struct {
	Version int     `json:"version"`
	Scene   Scene   `json:"scene"`
	Report  *Report `json:"report,omitempty"`
}

// NewDocument wraps s, with an optional report.
func NewDocument(s Scene, r *Report) Document {
	return Document{Version: DocumentVersion, Scene: s, Report: r}
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a document to pretty-printed JSON.
func Marshal(d Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal parses a document. It checks the shape of the scene, not the
// values: degenerate dimensions are accepted.
func Unmarshal(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, fmt.Errorf("unmarshal scene: %w", err)
	}
	if d.Version == 0 {
		d.Version = DocumentVersion
	}
	if d.Version > DocumentVersion {
		return Document{}, fmt.Errorf("unsupported scene version %d", d.Version)
	}
	if len(d.Scene.Doors) != 2 {
		return Document{}, fmt.Errorf("scene must contain 2 doors, got %d", len(d.Scene.Doors))
	}
	if d.Scene.Params.NumItems > 0 && len(d.Scene.Items) != d.Scene.Params.NumItems {
		return Document{}, fmt.Errorf("scene has %d items, params say %d", len(d.Scene.Items), d.Scene.Params.NumItems)
	}
	return d, nil
}

// WriteFile writes a document to a JSON file.
func WriteFile(d Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a document from a JSON file.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
