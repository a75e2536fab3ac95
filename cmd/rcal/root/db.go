package root

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/config"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/engine"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/ui"
)

type session struct {
	store *store.Store
	bus   *event.Bus
	svc   *engine.Service
}

func openSession(ctx context.Context) (*session, func(), error) {
	path := dbPath
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
	}

	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}

	log := slog.Default()
	bus := event.NewBus(log)
	svc, err := engine.NewService(ctx, st, bus, cfg, log)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	s := &session{store: st, bus: bus, svc: svc}
	cleanup := func() {
		svc.Close()
		_ = st.Close()
	}
	return s, cleanup, nil
}

// announceLevelUps prints a celebration line for every level-up the
// current command triggers. Returns a disposer for the subscription.
func (s *session) announceLevelUps(cmd *cobra.Command) func() {
	sub := s.bus.Subscribe(event.TypeLevelUp, func(ev event.Event) error {
		p, ok := ev.Payload.(event.LevelUpPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s level %d → %d\n", ui.BadgeLevelUp, p.From, p.To)
		return nil
	})
	return sub.Close
}
