package plugin

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/quillcms/quillcms/internal/events"
	"github.com/quillcms/quillcms/pkg/errutil"
)

// Manager orchestrates discovery: load manifests, resolve boot order, and
// construct modules from registered factories.
type Manager struct {
	registry *Registry
	loader   *Loader
	bus      *events.Bus
	hooks    *HookRegistry
	mux      *http.ServeMux

	mu     sync.RWMutex
	active map[string]Module
	order  []string
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithBus hands constructed modules the event bus for subscriptions.
func WithBus(bus *events.Bus) ManagerOption {
	return func(m *Manager) {
		m.bus = bus
	}
}

// WithHooks sets the hook registry offered to HookRegistrar modules.
func WithHooks(hooks *HookRegistry) ManagerOption {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithMux sets the HTTP mux offered to RouteRegistrar modules.
func WithMux(mux *http.ServeMux) ManagerOption {
	return func(m *Manager) {
		m.mux = mux
	}
}

// NewManager creates a module manager over the given registry and
// modules directory.
func NewManager(registry *Registry, modulesDir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		loader:   NewLoader(modulesDir),
		active:   make(map[string]Module),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DiscoverAndRegister runs a full discovery pass: strict manifest load,
// validated dependency resolution, then per-manifest construction in boot
// order. A manifest graph problem (parse failure, unknown dependency,
// cycle) aborts the pass before any module is constructed. A discovered
// plugin without a registered factory is logged and skipped; construction
// continues with the rest.
//
// Discovery is intended to run once at startup, before traffic. It is
// safe to race with registry reads but not with a second concurrent
// DiscoverAndRegister call.
func (m *Manager) DiscoverAndRegister(ctx context.Context) error {
	manifests, err := m.loader.LoadStrict()
	if err != nil {
		errutil.LogError(slog.Default(), "module discovery failed", err)
		return err
	}

	ordered, err := OrderValidated(manifests)
	if err != nil {
		errutil.LogError(slog.Default(), "module dependency resolution failed", err)
		return err
	}

	for _, manifest := range ordered {
		factory, ok := m.registry.Factory(manifest.Name)
		if !ok {
			slog.Warn("no factory registered for discovered plugin, skipping",
				"plugin", manifest.Name,
				"version", manifest.Version)
			recordLoad(statusSkipped)
			continue
		}

		module := factory()
		if err := m.bootModule(ctx, manifest, module); err != nil {
			slog.Error("failed to boot module",
				"plugin", manifest.Name,
				"version", manifest.Version,
				"error", err)
			recordLoad(statusError)
			continue
		}

		m.mu.Lock()
		m.active[manifest.Name] = module
		m.order = append(m.order, manifest.Name)
		m.mu.Unlock()
		recordLoad(statusSuccess)
		setActiveCount(len(m.order))

		slog.Info("loaded module",
			"plugin", manifest.Name,
			"version", manifest.Version,
			"dependencies", manifest.Dependencies)
	}

	return nil
}

// bootModule runs optional capability registration for a constructed module.
func (m *Manager) bootModule(ctx context.Context, manifest *Manifest, module Module) error {
	if booter, ok := module.(Booter); ok {
		if err := booter.Boot(ctx); err != nil {
			return err
		}
	}

	if registrar, ok := module.(RouteRegistrar); ok && m.mux != nil {
		registrar.RegisterRoutes(m.mux)
	}

	if registrar, ok := module.(HookRegistrar); ok && m.hooks != nil {
		if err := registrar.RegisterHooks(m.hooks); err != nil {
			return err
		}
	}

	if subscriber, ok := module.(EventSubscriber); ok && m.bus != nil {
		subscriber.SubscribeEvents(m.bus)
	}

	if hooks := manifest.MatchHooks(); len(hooks) > 0 {
		slog.Debug("module declares hooks",
			"plugin", manifest.Name,
			"hooks", hooks)
	}
	return nil
}

// Module returns the active module with the given name.
func (m *Manager) Module(name string) (Module, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mod, ok := m.active[name]
	return mod, ok
}

// Active returns the names of active modules in boot order.
func (m *Manager) Active() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}
