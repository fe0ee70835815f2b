// Package events carries the client's cross-component notifications over an
// in-process event bus. The bus is an explicit handle passed to whoever
// needs it rather than package-global state, so tests can run isolated
// instances side by side.
package events

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"

	"github.com/Bingusala/rosy-glow/internal/core/ports"
)

// Topics published by the synchronization core.
const (
	// TopicSessionChanged fires on every session state transition with the
	// new domain.SessionState.
	TopicSessionChanged = "session.changed"
	// TopicSessionInvalidated fires when the gateway forces a logout after
	// an authorization failure. The presentation layer subscribes to steer
	// the user back to the entry point; the core itself has no navigation
	// concerns.
	TopicSessionInvalidated = "session.invalidated"
	// TopicCartChanged fires with the new item count whenever the cached
	// cart is replaced.
	TopicCartChanged = "cart.changed"
)

type event struct {
	topic string
	args  []any
}

type bus struct {
	inner evbus.Bus

	mu       sync.Mutex
	draining bool
	queue    []event
}

// New returns a synchronous in-process bus. Subscribers run on the
// publisher's goroutine, which is what gives the gateway its
// invalidate-before-error ordering guarantee.
func New() ports.Bus {
	return &bus{inner: evbus.New()}
}

// Publish dispatches to subscribers before returning. A publish issued from
// inside a handler is queued and delivered after the current handler set
// finishes, keeping a single FIFO order; the underlying bus holds its lock
// while running handlers, so dispatching it reentrantly would deadlock.
func (b *bus) Publish(topic string, args ...any) {
	b.mu.Lock()
	b.queue = append(b.queue, event{topic: topic, args: args})
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	for len(b.queue) > 0 {
		e := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()
		b.inner.Publish(e.topic, e.args...)
		b.mu.Lock()
	}
	b.draining = false
	b.mu.Unlock()
}

func (b *bus) Subscribe(topic string, fn any) error {
	return b.inner.Subscribe(topic, fn)
}

func (b *bus) Unsubscribe(topic string, fn any) error {
	return b.inner.Unsubscribe(topic, fn)
}
