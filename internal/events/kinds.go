// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

// Package events provides the in-process publish/subscribe channel used by
// modules and core services to react to state changes without direct calls
// between them.
package events

// Kind identifies a category of domain occurrence. The catalog is closed:
// new kinds are added here by convention, never at runtime.
type Kind string

const (
	KindContentCreated   Kind = "content-created"
	KindContentUpdated   Kind = "content-updated"
	KindContentDeleted   Kind = "content-deleted"
	KindContentPublished Kind = "content-published"
	KindSchemaChanged    Kind = "schema-changed"
	KindUserLogin        Kind = "user-login"
	KindMediaUploaded    Kind = "media-uploaded"
)

// Kinds returns the full event catalog.
func Kinds() []Kind {
	return []Kind{
		KindContentCreated,
		KindContentUpdated,
		KindContentDeleted,
		KindContentPublished,
		KindSchemaChanged,
		KindUserLogin,
		KindMediaUploaded,
	}
}

// Event is a domain occurrence. Each kind has exactly one payload type;
// producers and consumers agree on shape by kind name alone.
type Event interface {
	EventKind() Kind
}

// ContentCreated is published after a new entry is persisted.
type ContentCreated struct {
	EntryID     string
	ContentType string
}

func (ContentCreated) EventKind() Kind { return KindContentCreated }

// ContentUpdated is published after an existing entry is modified.
type ContentUpdated struct {
	EntryID     string
	ContentType string
}

func (ContentUpdated) EventKind() Kind { return KindContentUpdated }

// ContentDeleted is published after an entry is removed.
type ContentDeleted struct {
	EntryID     string
	ContentType string
}

func (ContentDeleted) EventKind() Kind { return KindContentDeleted }

// ContentPublished is published when an entry transitions to the
// published state.
type ContentPublished struct {
	EntryID     string
	ContentType string
}

func (ContentPublished) EventKind() Kind { return KindContentPublished }

// SchemaChanged is published after a content-type definition changes.
type SchemaChanged struct {
	ContentType string // slug
}

func (SchemaChanged) EventKind() Kind { return KindSchemaChanged }

// UserLogin is published after a successful authentication.
type UserLogin struct {
	UserID string
}

func (UserLogin) EventKind() Kind { return KindUserLogin }

// MediaUploaded is published after a media asset is stored.
type MediaUploaded struct {
	MediaID  string
	Filename string
	MimeType string
}

func (MediaUploaded) EventKind() Kind { return KindMediaUploaded }
