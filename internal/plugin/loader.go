package plugin

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// Loader reads plugin manifests from a modules directory: one
// subdirectory per plugin, each holding a plugin.json at its root.
type Loader struct {
	dir string
}

// NewLoader creates a loader for the given modules directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load finds all valid manifests in the modules directory. Subdirectories
// without a manifest, or with one that fails to parse, are logged and
// skipped. A missing modules directory yields an empty set.
func (l *Loader) Load() ([]*Manifest, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No modules directory
		}
		return nil, oops.
			Code("PLUGIN_DIR_UNREADABLE").
			With("dir", l.dir).
			Wrap(err)
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifestPath := filepath.Join(l.dir, entry.Name(), ManifestFileName)

		data, err := os.ReadFile(manifestPath) //nolint:gosec // manifestPath is constructed from ReadDir entries
		if err != nil {
			slog.Warn("skipping module without manifest",
				"dir", entry.Name(),
				"error", err)
			continue
		}

		manifest, err := ParseManifest(data)
		if err != nil {
			slog.Warn("skipping module with invalid manifest",
				"dir", entry.Name(),
				"error", err)
			continue
		}

		manifests = append(manifests, manifest)
	}

	return manifests, nil
}

// LoadStrict is like Load, but any manifest file that exists yet fails to
// parse aborts the whole call, reporting the offending path and cause.
// Subdirectories without a manifest file are still skipped. Use this when
// correctness must be guaranteed before boot proceeds.
func (l *Loader) LoadStrict() ([]*Manifest, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, oops.
			Code("PLUGIN_DIR_UNREADABLE").
			With("dir", l.dir).
			Wrap(err)
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifestPath := filepath.Join(l.dir, entry.Name(), ManifestFileName)

		data, err := os.ReadFile(manifestPath) //nolint:gosec // manifestPath is constructed from ReadDir entries
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, oops.
				Code("PLUGIN_MANIFEST_INVALID").
				With("path", manifestPath).
				Wrap(err)
		}

		manifest, err := ParseManifest(data)
		if err != nil {
			return nil, oops.
				Code("PLUGIN_MANIFEST_INVALID").
				With("path", manifestPath).
				Wrapf(err, "parse manifest %s", manifestPath)
		}

		manifests = append(manifests, manifest)
	}

	return manifests, nil
}
