package registry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toolwire/toolwire/internal/event"
	"github.com/toolwire/toolwire/internal/schema"
)

func newTestRegistry(t *testing.T) (*Registry, *[]event.Record) {
	t.Helper()

	bus := event.New(slog.Default())

	var records []event.Record

	bus.Subscribe(func(rec event.Record) {
		records = append(records, rec)
	})

	return New(slog.Default(), bus), &records
}

func noopOperation(name string) Operation {
	return Operation{
		Name:        name,
		Description: "description of " + name,
		Input:       schema.NewShape(),
		Handler: func(context.Context, map[string]any) (any, error) {
			return map[string]any{"ok": true}, nil
		},
	}
}

func TestRegisterIsImmediatelyVisible(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Register(noopOperation("echo")))

	op, ok := reg.Get("echo")
	require.True(t, ok)
	require.Equal(t, "echo", op.Name)
	require.True(t, reg.Has("echo"))
	require.Equal(t, 1, reg.Len())
}

func TestRegisterEmitsAddedThenUpdated(t *testing.T) {
	reg, records := newTestRegistry(t)

	require.NoError(t, reg.Register(noopOperation("echo")))
	require.Len(t, *records, 1)
	require.Equal(t, event.KindAdded, (*records)[0].Kind)
	require.Equal(t, "echo", (*records)[0].Name)
	require.Equal(t, event.ReasonRegistered, (*records)[0].Reason)
	require.False(t, (*records)[0].Time.IsZero())

	replacement := noopOperation("echo")
	replacement.Description = "updated echo"

	require.NoError(t, reg.Register(replacement))
	require.Len(t, *records, 2)
	require.Equal(t, event.KindUpdated, (*records)[1].Kind)
	require.Equal(t, event.ReasonUpdated, (*records)[1].Reason)
	require.Equal(t, "description of echo", (*records)[1].PriorDescription)

	// Replacement does not grow the registry.
	require.Equal(t, 1, reg.Len())

	op, _ := reg.Get("echo")
	require.Equal(t, "updated echo", op.Description)
}

func TestRegisterRejectsInvalidOperations(t *testing.T) {
	reg, records := newTestRegistry(t)

	require.Error(t, reg.Register(Operation{Description: "nameless"}))
	require.Error(t, reg.Register(Operation{Name: "no-handler"}))
	require.Empty(t, *records)
	require.Zero(t, reg.Len())
}

func TestUnregister(t *testing.T) {
	reg, records := newTestRegistry(t)

	require.NoError(t, reg.Register(noopOperation("echo")))

	t.Run("unknown name returns false and emits nothing", func(t *testing.T) {
		before := len(*records)

		require.False(t, reg.Unregister("missing"))
		require.Len(t, *records, before)
	})

	t.Run("known name returns true and emits removed", func(t *testing.T) {
		require.True(t, reg.Unregister("echo"))
		require.False(t, reg.Has("echo"))

		last := (*records)[len(*records)-1]
		require.Equal(t, event.KindRemoved, last.Kind)
		require.Equal(t, "echo", last.Name)
		require.Equal(t, event.ReasonUnregistered, last.Reason)
		require.Equal(t, "description of echo", last.PriorDescription)
	})
}

func TestClearEmitsOneRemovedPerEntry(t *testing.T) {
	reg, records := newTestRegistry(t)

	for _, name := range []string{"alpha", "beta", "gamma"} {
		require.NoError(t, reg.Register(noopOperation(name)))
	}

	*records = nil
	reg.Clear()

	require.Zero(t, reg.Len())
	require.Len(t, *records, 3)

	for i, name := range []string{"alpha", "beta", "gamma"} {
		require.Equal(t, event.KindRemoved, (*records)[i].Kind)
		require.Equal(t, name, (*records)[i].Name)
		require.Equal(t, event.ReasonCleared, (*records)[i].Reason)
	}
}

func TestAllReturnsRegistrationOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, reg.Register(noopOperation(name)))
	}

	names := func() []string {
		ops := reg.All()

		out := make([]string, len(ops))
		for i, op := range ops {
			out[i] = op.Name
		}

		return out
	}

	require.Equal(t, []string{"charlie", "alpha", "bravo"}, names())

	// Replacement keeps the original position.
	require.NoError(t, reg.Register(noopOperation("alpha")))
	require.Equal(t, []string{"charlie", "alpha", "bravo"}, names())

	// Removal shrinks the snapshot but keeps relative order.
	require.True(t, reg.Unregister("charlie"))
	require.Equal(t, []string{"alpha", "bravo"}, names())
}

func TestAllReturnsSnapshot(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Register(noopOperation("echo")))

	snapshot := reg.All()

	require.NoError(t, reg.Register(noopOperation("later")))
	require.Len(t, snapshot, 1, "snapshot must not observe later mutations")
}
