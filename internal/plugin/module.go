// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package plugin

import (
	"context"
	"net/http"

	"github.com/quillcms/quillcms/internal/events"
)

// Module is the constructed instance of a plugin. Concrete modules opt
// into further capabilities by implementing Booter, RouteRegistrar,
// HookRegistrar, or EventSubscriber.
type Module interface {
	// Name returns the plugin name, matching its manifest.
	Name() string
}

// Factory constructs a module. Factories are registered in code before
// discovery runs; discovery never loads executable code dynamically.
type Factory func() Module

// Booter is implemented by modules needing one-time initialization.
// A boot failure skips the module without aborting the discovery pass.
type Booter interface {
	Boot(ctx context.Context) error
}

// RouteRegistrar is implemented by modules contributing HTTP routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// HookRegistrar is implemented by modules attaching hook callbacks.
type HookRegistrar interface {
	RegisterHooks(hooks *HookRegistry) error
}

// EventSubscriber is implemented by modules reacting to domain events.
type EventSubscriber interface {
	SubscribeEvents(bus *events.Bus)
}
