package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/config"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestBus() *event.Bus {
	return event.NewBus(testLogger())
}

func newTestService(t *testing.T) (*Service, *event.Bus, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	bus := newTestBus()
	svc, err := NewService(context.Background(), st, bus, config.Default(), testLogger())
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc, bus, st
}

// collect records every published payload of the given type.
func collect[T any](t *testing.T, bus *event.Bus, typ event.Type) *[]T {
	t.Helper()
	var got []T
	sub := bus.Subscribe(typ, func(ev event.Event) error {
		p, ok := ev.Payload.(T)
		require.True(t, ok, "payload type for %s", typ)
		got = append(got, p)
		return nil
	})
	t.Cleanup(sub.Close)
	return &got
}
