// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package plugin

import (
	"github.com/samber/oops"
)

// Order produces a lenient boot order: a depth-first post-order traversal
// starting from each manifest in input order. A manifest is appended only
// after all of its locally-resolvable dependencies have been appended;
// dependencies not present in the set are ignored. Each manifest appears
// exactly once regardless of how many dependents reference it.
//
// Use OrderValidated when unknown dependencies or cycles must be errors.
func Order(manifests []*Manifest) []*Manifest {
	byName := make(map[string]*Manifest, len(manifests))
	for _, m := range manifests {
		if _, ok := byName[m.Name]; !ok {
			byName[m.Name] = m
		}
	}

	ordered := make([]*Manifest, 0, len(manifests))
	visited := make(map[string]bool, len(manifests))

	var visit func(m *Manifest)
	visit = func(m *Manifest) {
		if visited[m.Name] {
			return
		}
		visited[m.Name] = true
		for _, dep := range m.Dependencies {
			if d, ok := byName[dep]; ok {
				visit(d)
			}
		}
		ordered = append(ordered, m)
	}

	for _, m := range manifests {
		visit(byName[m.Name])
	}
	return ordered
}

// OrderValidated produces a validated boot order for the manifest set:
// for every pair (D, M) where M depends on D, D precedes M in the output,
// and the output is a total order over the input when no cycle exists.
// When multiple manifests are simultaneously eligible the tie is broken
// by original input order, so repeated calls on the same input produce
// the same output.
//
// The dependency graph is built fresh per call; nothing is retained
// between resolutions.
func OrderValidated(manifests []*Manifest) ([]*Manifest, error) {
	byName := make(map[string]*Manifest, len(manifests))
	for _, m := range manifests {
		if _, dup := byName[m.Name]; dup {
			return nil, oops.
				Code("PLUGIN_DUPLICATE_NAME").
				With("plugin", m.Name).
				Errorf("duplicate plugin name %q in manifest set", m.Name)
		}
		byName[m.Name] = m
	}

	// Every declared dependency must exist in the set.
	for _, m := range manifests {
		for _, dep := range m.Dependencies {
			if _, ok := byName[dep]; !ok {
				return nil, oops.
					Code("PLUGIN_UNKNOWN_DEPENDENCY").
					With("plugin", m.Name).
					With("dependency", dep).
					Errorf("plugin %q depends on unknown plugin %q", m.Name, dep)
			}
		}
	}

	// Kahn-style elimination. unresolved tracks how many of a manifest's
	// own dependencies have not been emitted yet.
	unresolved := make(map[string]int, len(manifests))
	dependents := make(map[string][]string, len(manifests))
	for _, m := range manifests {
		unresolved[m.Name] = len(m.Dependencies)
		for _, dep := range m.Dependencies {
			dependents[dep] = append(dependents[dep], m.Name)
		}
	}

	ordered := make([]*Manifest, 0, len(manifests))
	emitted := make(map[string]bool, len(manifests))

	for len(ordered) < len(manifests) {
		progressed := false
		// Emit one manifest per scan and restart from the front, so a
		// manifest freed by an emission never overtakes an earlier-input
		// manifest that is already eligible.
		for _, m := range manifests {
			if emitted[m.Name] || unresolved[m.Name] > 0 {
				continue
			}
			emitted[m.Name] = true
			ordered = append(ordered, m)
			for _, dep := range dependents[m.Name] {
				unresolved[dep]--
			}
			progressed = true
			break
		}
		if !progressed {
			// The unemitted remainder forms at least one cycle.
			var remainder []string
			for _, m := range manifests {
				if !emitted[m.Name] {
					remainder = append(remainder, m.Name)
				}
			}
			return nil, oops.
				Code("PLUGIN_DEPENDENCY_CYCLE").
				With("plugins", remainder).
				Errorf("dependency cycle among plugins: %v", remainder)
		}
	}

	return ordered, nil
}
