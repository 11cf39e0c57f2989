// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package events

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for publish outcome metrics.
const (
	statusSuccess  = "success"
	statusError    = "error"
	statusCanceled = "canceled"
)

// Publishes counts publish calls by kind and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var Publishes = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quillcms_event_publishes_total",
		Help: "Total number of event publishes by kind and status",
	},
	[]string{"kind", "status"},
)

// HandlerFailures counts isolated handler failures by kind and handler.
var HandlerFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quillcms_event_handler_failures_total",
		Help: "Total number of event handler failures by kind and handler",
	},
	[]string{"kind", "handler"},
)

// PublishDuration observes end-to-end dispatch duration per kind.
var PublishDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "quillcms_event_publish_duration_seconds",
		Help:    "Event publish dispatch duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// RegisterMetrics registers event bus metrics with the given Prometheus
// registry. Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Publishes)
	reg.MustRegister(HandlerFailures)
	reg.MustRegister(PublishDuration)
}

func recordPublish(kind Kind, status string, d time.Duration) {
	Publishes.WithLabelValues(string(kind), status).Inc()
	PublishDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

func recordHandlerFailure(kind Kind, handler string) {
	HandlerFailures.WithLabelValues(string(kind), handler).Inc()
}
