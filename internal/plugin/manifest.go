// Package plugin provides plugin discovery, dependency resolution, and
// lifecycle management.
package plugin

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
)

// ManifestFileName is the fixed manifest filename inside each module directory.
const ManifestFileName = "plugin.json"

// Manifest represents a plugin.json file.
type Manifest struct {
	Name         string      `json:"name"`
	Version      string      `json:"version"`
	Description  string      `json:"description,omitempty"`
	Author       string      `json:"author,omitempty"`
	Dependencies []string    `json:"dependencies,omitempty"`
	Hooks        []string    `json:"hooks,omitempty"`
	AdminPages   []AdminPage `json:"adminPages,omitempty"`
	FieldTypes   []string    `json:"fieldTypes,omitempty"`
}

// AdminPage declares an entry the plugin contributes to the admin menu.
type AdminPage struct {
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
	Path  string `json:"path"`
}

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with lowercase letter,
// followed by lowercase letters, digits, or hyphens.
// Cannot end with a hyphen. Single character names are allowed.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// ParseManifest parses and validates a plugin.json file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("manifest data is empty")
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return fmt.Errorf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return fmt.Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("version %q is not valid semver: %w", m.Version, err)
	}

	for _, dep := range m.Dependencies {
		if dep == m.Name {
			return fmt.Errorf("plugin %q cannot depend on itself", m.Name)
		}
		if dep == "" || !namePattern.MatchString(dep) {
			return fmt.Errorf("dependency %q is not a valid plugin name", dep)
		}
	}

	for _, h := range m.Hooks {
		if err := validateHookPattern(h); err != nil {
			return err
		}
	}

	for i, page := range m.AdminPages {
		if page.Label == "" {
			return fmt.Errorf("adminPages[%d]: label is required", i)
		}
		if page.Path == "" {
			return fmt.Errorf("adminPages[%d]: path is required", i)
		}
	}

	return nil
}

// validateHookPattern checks that a declared hook identifier matches at
// least one catalog hook. Glob patterns such as "content.*" are allowed.
func validateHookPattern(pattern string) error {
	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return fmt.Errorf("hook pattern %q is not valid: %w", pattern, err)
	}
	for _, known := range HookCatalog() {
		if g.Match(known) {
			return nil
		}
	}
	return fmt.Errorf("hook pattern %q matches no known hook", pattern)
}

// MatchHooks expands the manifest's declared hook patterns against the
// catalog, returning the concrete hook names in catalog order.
func (m *Manifest) MatchHooks() []string {
	var matched []string
	for _, known := range HookCatalog() {
		for _, pattern := range m.Hooks {
			g, err := glob.Compile(pattern, '.')
			if err != nil {
				continue
			}
			if g.Match(known) {
				matched = append(matched, known)
				break
			}
		}
	}
	return matched
}
