// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package plugin_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillcms/quillcms/internal/events"
	"github.com/quillcms/quillcms/internal/plugin"
	"github.com/quillcms/quillcms/pkg/errutil"
)

// trackedModule records construction and boot in a shared log.
type trackedModule struct {
	name    string
	log     *[]string
	bootErr error
}

func (m *trackedModule) Name() string { return m.name }

func (m *trackedModule) Boot(_ context.Context) error {
	if m.bootErr != nil {
		return m.bootErr
	}
	*m.log = append(*m.log, m.name)
	return nil
}

func trackedFactory(name string, log *[]string) plugin.Factory {
	return func() plugin.Module {
		return &trackedModule{name: name, log: log}
	}
}

func TestManager_DiscoverAndRegister_BootOrder(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "seo", `{"name": "seo", "version": "1.0.0"}`)
	writeManifest(t, dir, "blog", `{"name": "blog", "version": "1.0.0", "dependencies": ["seo"]}`)

	var booted []string
	reg := plugin.NewRegistry()
	reg.Register("seo", trackedFactory("seo", &booted))
	reg.Register("blog", trackedFactory("blog", &booted))

	mgr := plugin.NewManager(reg, dir)
	require.NoError(t, mgr.DiscoverAndRegister(context.Background()))

	assert.Equal(t, []string{"seo", "blog"}, booted)
	assert.Equal(t, []string{"seo", "blog"}, mgr.Active())

	mod, ok := mgr.Module("seo")
	require.True(t, ok)
	assert.Equal(t, "seo", mod.Name())
}

func TestManager_DiscoverAndRegister_MissingFactoryIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "seo", `{"name": "seo", "version": "1.0.0"}`)
	writeManifest(t, dir, "blog", `{"name": "blog", "version": "1.0.0", "dependencies": ["seo"]}`)

	var booted []string
	reg := plugin.NewRegistry()
	reg.Register("blog", trackedFactory("blog", &booted))

	mgr := plugin.NewManager(reg, dir)
	require.NoError(t, mgr.DiscoverAndRegister(context.Background()))

	assert.Equal(t, []string{"blog"}, booted)
	assert.Equal(t, []string{"blog"}, mgr.Active())

	_, ok := mgr.Module("seo")
	assert.False(t, ok)
}

func TestManager_DiscoverAndRegister_BadManifestAbortsWholePass(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "good", `{"name": "good", "version": "1.0.0"}`)
	writeManifest(t, dir, "broken", `{not json`)

	var booted []string
	reg := plugin.NewRegistry()
	reg.Register("good", trackedFactory("good", &booted))

	mgr := plugin.NewManager(reg, dir)
	err := mgr.DiscoverAndRegister(context.Background())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "PLUGIN_MANIFEST_INVALID")

	// No partial registration: construction never started.
	assert.Empty(t, booted)
	assert.Empty(t, mgr.Active())
}

func TestManager_DiscoverAndRegister_CycleAbortsWholePass(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "a", `{"name": "a", "version": "1.0.0", "dependencies": ["b"]}`)
	writeManifest(t, dir, "b", `{"name": "b", "version": "1.0.0", "dependencies": ["a"]}`)

	var booted []string
	reg := plugin.NewRegistry()
	reg.Register("a", trackedFactory("a", &booted))
	reg.Register("b", trackedFactory("b", &booted))

	mgr := plugin.NewManager(reg, dir)
	err := mgr.DiscoverAndRegister(context.Background())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "PLUGIN_DEPENDENCY_CYCLE")
	assert.Empty(t, booted)
}

func TestManager_DiscoverAndRegister_UnknownDependencyAborts(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "x", `{"name": "x", "version": "1.0.0", "dependencies": ["ghost"]}`)

	mgr := plugin.NewManager(plugin.NewRegistry(), dir)
	err := mgr.DiscoverAndRegister(context.Background())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "PLUGIN_UNKNOWN_DEPENDENCY")
}

func TestManager_DiscoverAndRegister_BootFailureSkipsModule(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "flaky", `{"name": "flaky", "version": "1.0.0"}`)
	writeManifest(t, dir, "solid", `{"name": "solid", "version": "1.0.0"}`)

	var booted []string
	reg := plugin.NewRegistry()
	reg.Register("flaky", func() plugin.Module {
		return &trackedModule{name: "flaky", log: &booted, bootErr: errors.New("boot exploded")}
	})
	reg.Register("solid", trackedFactory("solid", &booted))

	mgr := plugin.NewManager(reg, dir)
	require.NoError(t, mgr.DiscoverAndRegister(context.Background()))

	assert.Equal(t, []string{"solid"}, booted)
	assert.Equal(t, []string{"solid"}, mgr.Active())
}

// subscribingModule wires itself to the bus during discovery.
type subscribingModule struct {
	name string
	seen *[]events.Kind
}

func (m *subscribingModule) Name() string { return m.name }

func (m *subscribingModule) SubscribeEvents(bus *events.Bus) {
	bus.Subscribe(events.KindContentCreated, m.name, func(_ context.Context, ev events.Event, _ events.Context) error {
		*m.seen = append(*m.seen, ev.EventKind())
		return nil
	})
}

func TestManager_WiresEventSubscriptions(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "cache", `{"name": "cache", "version": "1.0.0"}`)

	var seen []events.Kind
	reg := plugin.NewRegistry()
	reg.Register("cache", func() plugin.Module {
		return &subscribingModule{name: "cache", seen: &seen}
	})

	bus := events.NewBus()
	mgr := plugin.NewManager(reg, dir, plugin.WithBus(bus))
	require.NoError(t, mgr.DiscoverAndRegister(context.Background()))

	require.NoError(t, bus.Publish(context.Background(),
		events.ContentCreated{EntryID: "e1", ContentType: "post"}, events.Context{}))
	assert.Equal(t, []events.Kind{events.KindContentCreated}, seen)
}

// hookingModule attaches a hook callback during discovery.
type hookingModule struct {
	name string
}

func (m *hookingModule) Name() string { return m.name }

func (m *hookingModule) RegisterHooks(hooks *plugin.HookRegistry) error {
	return hooks.Register(plugin.HookContentAfterSave, func(_ context.Context, _ any) error {
		return nil
	})
}

func TestManager_WiresHookRegistration(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "notifier", `{"name": "notifier", "version": "1.0.0", "hooks": ["content.after-save"]}`)

	reg := plugin.NewRegistry()
	reg.Register("notifier", func() plugin.Module {
		return &hookingModule{name: "notifier"}
	})

	hooks := plugin.NewHookRegistry()
	mgr := plugin.NewManager(reg, dir, plugin.WithHooks(hooks))
	require.NoError(t, mgr.DiscoverAndRegister(context.Background()))

	assert.Equal(t, 1, hooks.Count(plugin.HookContentAfterSave))
}

func TestManager_EmptyModulesDir(t *testing.T) {
	mgr := plugin.NewManager(plugin.NewRegistry(), t.TempDir())
	require.NoError(t, mgr.DiscoverAndRegister(context.Background()))
	assert.Empty(t, mgr.Active())
}
