// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

//go:build integration

package runtime_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/samber/oops"

	"github.com/quillcms/quillcms/internal/events"
	"github.com/quillcms/quillcms/internal/plugin"
)

// recordingModule appends lifecycle markers to a shared trace.
type recordingModule struct {
	name  string
	trace *[]string
}

func (m *recordingModule) Name() string { return m.name }

func (m *recordingModule) Boot(_ context.Context) error {
	*m.trace = append(*m.trace, "boot:"+m.name)
	return nil
}

func (m *recordingModule) SubscribeEvents(bus *events.Bus) {
	bus.Subscribe(events.KindContentCreated, m.name, func(_ context.Context, _ events.Event, _ events.Context) error {
		*m.trace = append(*m.trace, "event:"+m.name)
		return nil
	})
}

var _ = Describe("Module discovery", func() {
	var (
		dir      string
		registry *plugin.Registry
		bus      *events.Bus
		trace    []string
	)

	writeManifest := func(name, content string) {
		moduleDir := filepath.Join(dir, name)
		Expect(os.MkdirAll(moduleDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(moduleDir, plugin.ManifestFileName), []byte(content), 0o600)).To(Succeed())
	}

	factoryFor := func(name string) plugin.Factory {
		return func() plugin.Module {
			return &recordingModule{name: name, trace: &trace}
		}
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		registry = plugin.NewRegistry()
		bus = events.NewBus()
		trace = nil
	})

	Context("with a valid dependency chain", func() {
		BeforeEach(func() {
			writeManifest("seo", `{"name": "seo", "version": "1.0.0"}`)
			writeManifest("blog", `{"name": "blog", "version": "1.0.0", "dependencies": ["seo"]}`)
		})

		It("boots dependencies before dependents and wires the bus", func() {
			registry.Register("seo", factoryFor("seo"))
			registry.Register("blog", factoryFor("blog"))

			manager := plugin.NewManager(registry, dir, plugin.WithBus(bus))
			Expect(manager.DiscoverAndRegister(context.Background())).To(Succeed())

			Expect(trace).To(Equal([]string{"boot:seo", "boot:blog"}))
			Expect(manager.Active()).To(Equal([]string{"seo", "blog"}))

			Expect(bus.Publish(context.Background(),
				events.ContentCreated{EntryID: "e1", ContentType: "post"},
				events.Context{})).To(Succeed())
			Expect(trace).To(Equal([]string{"boot:seo", "boot:blog", "event:seo", "event:blog"}))
		})

		It("warns and continues when a factory is missing", func() {
			registry.Register("blog", factoryFor("blog"))

			manager := plugin.NewManager(registry, dir, plugin.WithBus(bus))
			Expect(manager.DiscoverAndRegister(context.Background())).To(Succeed())

			Expect(trace).To(Equal([]string{"boot:blog"}))
			Expect(manager.Active()).To(Equal([]string{"blog"}))
		})
	})

	Context("with a broken manifest graph", func() {
		It("aborts the whole pass on a cycle with nothing constructed", func() {
			writeManifest("a", `{"name": "a", "version": "1.0.0", "dependencies": ["b"]}`)
			writeManifest("b", `{"name": "b", "version": "1.0.0", "dependencies": ["a"]}`)
			registry.Register("a", factoryFor("a"))
			registry.Register("b", factoryFor("b"))

			manager := plugin.NewManager(registry, dir)
			err := manager.DiscoverAndRegister(context.Background())
			Expect(err).To(HaveOccurred())

			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("PLUGIN_DEPENDENCY_CYCLE"))
			Expect(trace).To(BeEmpty())
			Expect(manager.Active()).To(BeEmpty())
		})

		It("aborts on an unknown dependency naming both plugins", func() {
			writeManifest("x", `{"name": "x", "version": "1.0.0", "dependencies": ["ghost"]}`)
			registry.Register("x", factoryFor("x"))

			manager := plugin.NewManager(registry, dir)
			err := manager.DiscoverAndRegister(context.Background())
			Expect(err).To(HaveOccurred())

			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("PLUGIN_UNKNOWN_DEPENDENCY"))
			Expect(oopsErr.Context()).To(HaveKeyWithValue("plugin", "x"))
			Expect(oopsErr.Context()).To(HaveKeyWithValue("dependency", "ghost"))
		})
	})

	Context("event dispatch across modules", func() {
		It("isolates a failing subscriber from the rest", func() {
			writeManifest("flaky", `{"name": "flaky", "version": "1.0.0"}`)
			writeManifest("steady", `{"name": "steady", "version": "1.0.0"}`)

			registry.Register("flaky", func() plugin.Module {
				return &failingSubscriber{trace: &trace}
			})
			registry.Register("steady", factoryFor("steady"))

			manager := plugin.NewManager(registry, dir, plugin.WithBus(bus))
			Expect(manager.DiscoverAndRegister(context.Background())).To(Succeed())

			err := bus.Publish(context.Background(),
				events.ContentCreated{EntryID: "e1", ContentType: "post"},
				events.Context{})
			Expect(err).To(HaveOccurred())
			Expect(trace).To(ContainElement("event:steady"))
		})
	})
})

// failingSubscriber always fails its event handler.
type failingSubscriber struct {
	trace *[]string
}

func (m *failingSubscriber) Name() string { return "flaky" }

func (m *failingSubscriber) SubscribeEvents(bus *events.Bus) {
	bus.Subscribe(events.KindContentCreated, "flaky", func(_ context.Context, _ events.Event, _ events.Context) error {
		return errors.New("flaky handler exploded")
	})
}
