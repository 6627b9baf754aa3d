package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/stowage/pkg/pipeline"
)

// stem strips a known format extension from path, so "-o out.svg" and
// "-o out" name the same files. The longest matching extension wins.
func stem(path string) string {
	best := ""
	for _, ext := range pipeline.Extensions {
		if len(ext) > len(best) && len(path) > len(ext) && strings.HasSuffix(path, ext) {
			best = ext
		}
	}
	return strings.TrimSuffix(path, best)
}

// outputPaths maps each format to base plus its extension.
func outputPaths(base string, formats []string) map[string]string {
	base = stem(base)
	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = base + pipeline.Extensions[f]
	}
	return paths
}

// writeArtifacts writes each artifact to its path, in format order, and
// returns the paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	paths := outputPaths(base, formats)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
