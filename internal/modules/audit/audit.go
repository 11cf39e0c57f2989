// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

// Package audit provides the built-in audit-log module. It subscribes to
// every event kind in the catalog and writes a structured audit line for
// each occurrence.
package audit

import (
	"context"
	"fmt"

	"github.com/quillcms/quillcms/internal/events"
	"github.com/quillcms/quillcms/internal/plugin"
)

// ModuleName is the plugin name the audit module registers under.
const ModuleName = "audit"

// Module logs every published event.
type Module struct{}

// New constructs the audit module. It is the factory registered for
// ModuleName.
func New() plugin.Module {
	return &Module{}
}

// Name implements plugin.Module.
func (m *Module) Name() string { return ModuleName }

// SubscribeEvents attaches the audit handler to every catalog kind.
func (m *Module) SubscribeEvents(bus *events.Bus) {
	for _, kind := range events.Kinds() {
		bus.Subscribe(kind, ModuleName, m.record)
	}
}

func (m *Module) record(_ context.Context, ev events.Event, ec events.Context) error {
	ec.Log().Info("audit",
		"kind", string(ev.EventKind()),
		"detail", describe(ev),
		"user_id", ec.UserID,
		"tenant_id", ec.TenantID)
	return nil
}

// describe renders the payload fields relevant for the audit trail.
func describe(ev events.Event) string {
	switch e := ev.(type) {
	case events.ContentCreated:
		return fmt.Sprintf("%s/%s", e.ContentType, e.EntryID)
	case events.ContentUpdated:
		return fmt.Sprintf("%s/%s", e.ContentType, e.EntryID)
	case events.ContentDeleted:
		return fmt.Sprintf("%s/%s", e.ContentType, e.EntryID)
	case events.ContentPublished:
		return fmt.Sprintf("%s/%s", e.ContentType, e.EntryID)
	case events.SchemaChanged:
		return e.ContentType
	case events.UserLogin:
		return e.UserID
	case events.MediaUploaded:
		return fmt.Sprintf("%s (%s)", e.Filename, e.MimeType)
	default:
		return ""
	}
}
