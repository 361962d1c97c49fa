package event

import (
	"log/slog"
	"sync"
	"time"
)

// Kind classifies a registry mutation.
type Kind string

const (
	KindAdded   Kind = "added"
	KindUpdated Kind = "updated"
	KindRemoved Kind = "removed"
)

// Reasons attached to change records by the registry.
const (
	ReasonRegistered   = "new operation registered"
	ReasonUpdated      = "definition updated"
	ReasonUnregistered = "operation unregistered"
	ReasonCleared      = "registry cleared"
)

// Record describes one registry mutation. Records are immutable values,
// consumed read-only by subscribers and not retained after delivery.
type Record struct {
	Kind Kind
	Name string
	Time time.Time

	// Reason is a short explanation of why the mutation happened.
	Reason string

	// PriorDescription carries the replaced operation's description on
	// "updated" and "removed" records.
	PriorDescription string
}

// Handler consumes change records. Handlers run on the publisher's
// goroutine and must not call back into the publishing registry.
type Handler func(Record)

// Bus delivers change records synchronously to subscribers in subscription
// order.
type Bus struct {
	log *slog.Logger

	mu   sync.Mutex
	subs []*subscriber
}

type subscriber struct {
	handle Handler
}

// New creates an empty bus.
func New(log *slog.Logger) *Bus {
	return &Bus{
		log: log.With("component", "event_bus"),
	}
}

// Subscribe registers h and returns a cancel function removing it again.
// Unsubscribing by handler value is not possible in Go (function values are
// not comparable), so the cancel closure is the subscription handle. Cancel
// is idempotent.
func (b *Bus) Subscribe(h Handler) func() {
	sub := &subscriber{handle: h}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			b.remove(sub)
		})
	}
}

// Publish delivers rec to every subscriber present when Publish is called,
// in subscription order. A panicking handler is recovered and logged, and
// delivery continues with the next subscriber; the publisher never observes
// the failure (its mutation has already happened).
func (b *Bus) Publish(rec Record) {
	b.mu.Lock()
	subs := make([]*subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		b.deliver(sub, rec)
	}
}

func (b *Bus) deliver(sub *subscriber, rec Record) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("change handler panicked",
				"kind", rec.Kind,
				"name", rec.Name,
				"panic", r,
			)
		}
	}()

	sub.handle(rec)
}

func (b *Bus) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)

			return
		}
	}
}
