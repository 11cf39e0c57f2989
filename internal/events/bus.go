// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 QuillCMS Contributors

package events

import (
	"context"
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/quillcms/quillcms/pkg/errutil"
)

// Handler reacts to a published event. Handlers run sequentially per
// publish call and must tolerate being invoked from any goroutine.
type Handler func(ctx context.Context, ev Event, ec Context) error

// subscription pairs a handler with the name it was registered under.
// The name identifies the handler in logs and failure aggregation.
type subscription struct {
	name    string
	handler Handler
}

// Bus is the in-process publish/subscribe channel. Subscriptions only
// grow; there is no unsubscribe.
type Bus struct {
	mu   sync.RWMutex
	subs map[Kind][]subscription
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Kind][]subscription),
	}
}

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// newDeliveryID generates a ULID correlating all log lines of one publish.
func newDeliveryID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// Subscribe appends handler to the ordered list for kind. The name is
// surfaced in logs and aggregated publish failures.
func (b *Bus) Subscribe(kind Kind, name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs[kind] = append(b.subs[kind], subscription{name: name, handler: handler})
}

// Subscribers returns the handler names registered for kind, in
// registration order.
func (b *Bus) Subscribers(kind Kind) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.subs[kind]))
	for _, sub := range b.subs[kind] {
		names = append(names, sub.name)
	}
	return names
}

// Publish dispatches ev to every handler subscribed to its kind, in
// registration order, awaiting each before starting the next. The
// subscriber list is snapshotted when the call starts; concurrent
// Subscribe calls do not affect an in-flight publish.
//
// A failing handler is logged and isolated: later handlers still run.
// After all handlers ran, the failures (if any) are aggregated into a
// single error naming the handlers that failed. If ctx is canceled
// mid-dispatch, no further handlers are invoked and a cancellation
// error is returned instead; already-started handlers are not
// interrupted.
func (b *Bus) Publish(ctx context.Context, ev Event, ec Context) error {
	kind := ev.EventKind()

	b.mu.RLock()
	snapshot := make([]subscription, len(b.subs[kind]))
	copy(snapshot, b.subs[kind])
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		return nil
	}

	deliveryID := newDeliveryID()
	logger := ec.Log().With(
		"event_kind", string(kind),
		"delivery_id", deliveryID.String(),
	)

	start := time.Now()
	var (
		failed []string
		causes []error
	)

	for i, sub := range snapshot {
		if err := ctx.Err(); err != nil {
			remaining := make([]string, 0, len(snapshot)-i)
			for _, rest := range snapshot[i:] {
				remaining = append(remaining, rest.name)
			}
			logger.Warn("publish canceled mid-dispatch",
				"remaining", remaining)
			recordPublish(kind, statusCanceled, time.Since(start))
			return oops.
				Code("EVENT_PUBLISH_CANCELED").
				With("kind", string(kind)).
				With("remaining", remaining).
				Wrap(err)
		}

		if err := sub.handler(ctx, ev, ec); err != nil {
			errutil.LogError(logger.With("handler", sub.name), "event handler failed", err)
			recordHandlerFailure(kind, sub.name)
			failed = append(failed, sub.name)
			causes = append(causes, err)
		}
	}

	if len(failed) > 0 {
		recordPublish(kind, statusError, time.Since(start))
		return oops.
			Code("EVENT_HANDLER_FAILED").
			With("kind", string(kind)).
			With("handlers", failed).
			Wrap(errors.Join(causes...))
	}

	recordPublish(kind, statusSuccess, time.Since(start))
	return nil
}
