package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/toolwire/toolwire/internal/event"
	"github.com/toolwire/toolwire/internal/schema"
)

// Handler executes an operation. Input has already passed shape validation
// and contains every declared field that was present or defaulted. The
// returned value is serialized into the response envelope; a returned error
// is reported to the caller as an execution failure.
type Handler func(ctx context.Context, input map[string]any) (any, error)

// Operation is a named, schema-validated callable exposed to clients.
type Operation struct {
	Name        string
	Description string

	// Input declares the accepted arguments. A nil shape accepts anything.
	Input *schema.Shape

	Handler Handler
}

// Registry is the exclusive owner of the operation set. All methods are safe
// for concurrent use.
type Registry struct {
	log *slog.Logger
	bus *event.Bus

	mu    sync.RWMutex
	ops   map[string]Operation
	order []string
}

// New creates an empty registry publishing change records on bus.
func New(log *slog.Logger, bus *event.Bus) *Registry {
	return &Registry{
		log: log.With("component", "registry"),
		bus: bus,
		ops: make(map[string]Operation, 8),
	}
}

// Register inserts or replaces op by name. Replacement emits an "updated"
// record carrying the replaced description; first registration emits
// "added". Replacement keeps the operation's original position in the
// listing order.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return errors.New("operation name is required")
	}

	if op.Handler == nil {
		return fmt.Errorf("operation %q has no handler", op.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prior, existed := r.ops[op.Name]
	r.ops[op.Name] = op

	rec := event.Record{
		Kind:   event.KindAdded,
		Name:   op.Name,
		Time:   time.Now(),
		Reason: event.ReasonRegistered,
	}

	if existed {
		rec.Kind = event.KindUpdated
		rec.Reason = event.ReasonUpdated
		rec.PriorDescription = prior.Description
	} else {
		r.order = append(r.order, op.Name)
	}

	r.log.Debug("operation registered", "name", op.Name, "kind", rec.Kind)
	r.bus.Publish(rec)

	return nil
}

// Unregister removes the named operation and reports whether anything was
// removed. Removing an unknown name emits no record.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	prior, existed := r.ops[name]
	if !existed {
		return false
	}

	delete(r.ops, name)

	if i := slices.Index(r.order, name); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}

	r.log.Debug("operation unregistered", "name", name)
	r.bus.Publish(event.Record{
		Kind:             event.KindRemoved,
		Name:             name,
		Time:             time.Now(),
		Reason:           event.ReasonUnregistered,
		PriorDescription: prior.Description,
	})

	return true
}

// Clear removes every operation, emitting one "removed" record per entry in
// registration order.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cleared := r.ops
	names := r.order
	r.ops = make(map[string]Operation, 8)
	r.order = nil

	r.log.Debug("registry cleared", "count", len(names))

	for _, name := range names {
		r.bus.Publish(event.Record{
			Kind:             event.KindRemoved,
			Name:             name,
			Time:             time.Now(),
			Reason:           event.ReasonCleared,
			PriorDescription: cleared[name].Description,
		})
	}
}

// Get returns the named operation.
func (r *Registry) Get(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.ops[name]

	return op, ok
}

// All returns a snapshot of the current operations in registration order.
func (r *Registry) All() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Operation, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.ops[name])
	}

	return out
}

// Has reports whether the named operation is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.ops[name]

	return ok
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.ops)
}
