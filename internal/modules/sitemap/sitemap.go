// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

// Package sitemap provides the built-in sitemap module. It tracks the set
// of published entries by reacting to content events and exposes the
// current sitemap over HTTP.
package sitemap

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/quillcms/quillcms/internal/events"
	"github.com/quillcms/quillcms/internal/plugin"
)

// ModuleName is the plugin name the sitemap module registers under.
const ModuleName = "sitemap"

// Module maintains an in-memory index of published entries.
type Module struct {
	mu      sync.RWMutex
	entries map[string]string // entry ID -> content type
}

// New constructs the sitemap module. It is the factory registered for
// ModuleName.
func New() plugin.Module {
	return &Module{}
}

// Name implements plugin.Module.
func (m *Module) Name() string { return ModuleName }

// Boot initializes the entry index.
func (m *Module) Boot(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]string)
	return nil
}

// SubscribeEvents tracks publish and delete events.
func (m *Module) SubscribeEvents(bus *events.Bus) {
	bus.Subscribe(events.KindContentPublished, ModuleName, m.onPublished)
	bus.Subscribe(events.KindContentDeleted, ModuleName, m.onDeleted)
}

// RegisterHooks re-indexes entries after saves so slug changes are
// reflected without waiting for a republish.
func (m *Module) RegisterHooks(hooks *plugin.HookRegistry) error {
	return hooks.Register(plugin.HookContentAfterSave, func(_ context.Context, payload any) error {
		ref, ok := payload.(EntryRef)
		if !ok {
			return nil
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, tracked := m.entries[ref.EntryID]; tracked {
			m.entries[ref.EntryID] = ref.ContentType
		}
		return nil
	})
}

// RegisterRoutes serves the sitemap as a plain-text URL list.
func (m *Module) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/sitemap.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, e := range m.Entries() {
			fmt.Fprintf(w, "/%s/%s\n", e.ContentType, e.EntryID)
		}
	})
}

// EntryRef identifies a content entry in hook payloads and listings.
type EntryRef struct {
	EntryID     string
	ContentType string
}

func (m *Module) onPublished(_ context.Context, ev events.Event, _ events.Context) error {
	e, ok := ev.(events.ContentPublished)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for %s", ev, events.KindContentPublished)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.EntryID] = e.ContentType
	return nil
}

func (m *Module) onDeleted(_ context.Context, ev events.Event, _ events.Context) error {
	e, ok := ev.(events.ContentDeleted)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for %s", ev, events.KindContentDeleted)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, e.EntryID)
	return nil
}

// Entries returns the tracked entries sorted by ID.
func (m *Module) Entries() []EntryRef {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]EntryRef, 0, len(m.entries))
	for id, ct := range m.entries {
		out = append(out, EntryRef{EntryID: id, ContentType: ct})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryID < out[j].EntryID })
	return out
}
