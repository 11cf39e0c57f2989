// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package plugin

import (
	"context"
	"fmt"
	"sync"
)

// Hook identifiers plugins may attach to. The catalog is closed; manifests
// declaring hooks outside it fail validation.
const (
	HookContentBeforeSave   = "content.before-save"
	HookContentAfterSave    = "content.after-save"
	HookContentBeforeDelete = "content.before-delete"
	HookContentAfterDelete  = "content.after-delete"
	HookSchemaAfterChange   = "schema.after-change"
	HookMediaAfterUpload    = "media.after-upload"
)

// HookCatalog returns all known hook identifiers.
func HookCatalog() []string {
	return []string{
		HookContentBeforeSave,
		HookContentAfterSave,
		HookContentBeforeDelete,
		HookContentAfterDelete,
		HookSchemaAfterChange,
		HookMediaAfterUpload,
	}
}

// HookFunc is a callback attached to a named hook.
type HookFunc func(ctx context.Context, payload any) error

// HookRegistry maps hook names to ordered callback lists. Callbacks run in
// registration order.
type HookRegistry struct {
	mu    sync.RWMutex
	hooks map[string][]HookFunc
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		hooks: make(map[string][]HookFunc),
	}
}

// Register attaches fn to the named hook. Unknown hook names are rejected.
func (r *HookRegistry) Register(name string, fn HookFunc) error {
	known := false
	for _, h := range HookCatalog() {
		if h == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown hook %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[name] = append(r.hooks[name], fn)
	return nil
}

// Run invokes every callback attached to the named hook in registration
// order, stopping at the first failure.
func (r *HookRegistry) Run(ctx context.Context, name string, payload any) error {
	r.mu.RLock()
	fns := make([]HookFunc, len(r.hooks[name]))
	copy(fns, r.hooks[name])
	r.mu.RUnlock()

	for _, fn := range fns {
		if err := fn(ctx, payload); err != nil {
			return fmt.Errorf("hook %s: %w", name, err)
		}
	}
	return nil
}

// Count returns the number of callbacks attached to the named hook.
func (r *HookRegistry) Count(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[name])
}
