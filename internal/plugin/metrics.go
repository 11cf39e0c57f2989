// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package plugin

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for module load metrics.
const (
	statusSuccess = "success"
	statusSkipped = "skipped"
	statusError   = "error"
)

// ModuleLoads counts discovery outcomes per module.
// Use RegisterMetrics to register this with a Prometheus registry.
var ModuleLoads = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quillcms_plugin_loads_total",
		Help: "Total number of module load attempts by status",
	},
	[]string{"status"},
)

// ActiveModules tracks the number of currently active modules.
var ActiveModules = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "quillcms_plugin_active",
		Help: "Number of active modules",
	},
)

// RegisterMetrics registers plugin package metrics with the given
// Prometheus registry. Panics if registration fails (following
// prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ModuleLoads)
	reg.MustRegister(ActiveModules)
}

func recordLoad(status string) {
	ModuleLoads.WithLabelValues(status).Inc()
}

func setActiveCount(n int) {
	ActiveModules.Set(float64(n))
}
