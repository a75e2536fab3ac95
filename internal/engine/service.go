// Package engine implements the RealCalender progression engine: profile
// leveling, quest batches, the daily streak, pet hatching, and milestone
// achievements, kept consistent across restarts through a shared
// key-value store and wired together over the in-process event bus.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/config"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

// Service owns the progression managers. Each manager is the single
// writer for its store keys; the service only adds the event wiring
// between them and the outside layers.
type Service struct {
	store *store.Store
	bus   *event.Bus
	log   *slog.Logger

	Profile      *ProfileManager
	Quests       *QuestManager
	Streak       *StreakManager
	Pets         *PetManager
	Achievements *AchievementManager

	eventsLogged       RuleTable
	scheduledCompleted RuleTable

	subs []*event.Subscription
}

// NewService loads persisted state (falling back to safe defaults for
// missing or corrupt blobs), validates the static catalog and rule
// tables, and subscribes the engine to its consumed signals. A nil
// logger falls back to slog.Default.
func NewService(ctx context.Context, st *store.Store, bus *event.Bus, cfg config.Tunables, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tunables: %w", err)
	}

	catalog := defaultCatalog()
	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}
	eventsLogged := eventsLoggedRules()
	scheduledCompleted := scheduledCompletedRules()
	for _, t := range []RuleTable{eventsLogged, scheduledCompleted} {
		if err := t.Validate(catalog); err != nil {
			return nil, err
		}
	}

	curve := Curve{Base: cfg.XPBase, Growth: cfg.XPGrowth}
	profile := newProfileManager(ctx, st, bus, curve, log)

	s := &Service{
		store:              st,
		bus:                bus,
		log:                log,
		Profile:            profile,
		Quests:             newQuestManager(ctx, st, bus, profile, catalog, log),
		Streak:             newStreakManager(ctx, st, bus, cfg.StreakFreezeEnabled, log),
		Pets:               newPetManager(ctx, st, bus, profile, cfg.HatchDuration, log),
		Achievements:       newAchievementManager(ctx, st, bus, profile, log),
		eventsLogged:       eventsLogged,
		scheduledCompleted: scheduledCompleted,
	}
	s.bind()
	return s, nil
}

// Close detaches the service from the bus. Persisted state is untouched.
func (s *Service) Close() {
	for _, sub := range s.subs {
		sub.Close()
	}
	s.subs = nil
}

// bind subscribes the engine's consumed signals and the internal wiring
// between managers that goes through the bus (level and streak quests,
// pet quest credit).
func (s *Service) bind() {
	sub := func(t event.Type, h event.Handler) {
		s.subs = append(s.subs, s.bus.Subscribe(t, h))
	}

	sub(event.TypeCalendarEventCount, func(ev event.Event) error {
		p, ok := ev.Payload.(event.CalendarCountPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		ctx := context.Background()
		s.Quests.ApplyRuleTable(ctx, s.eventsLogged, p.Total)
		s.Achievements.UpdateCalendarProgress(ctx, p.Total)
		return nil
	})

	sub(event.TypeScheduledEventCount, func(ev event.Event) error {
		p, ok := ev.Payload.(event.CalendarCountPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		s.Quests.ApplyRuleTable(context.Background(), s.scheduledCompleted, p.Total)
		return nil
	})

	sub(event.TypeGraphUpdated, func(ev event.Event) error {
		p, ok := ev.Payload.(event.GraphUpdatedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		ctx := context.Background()
		s.Profile.MarkMeasurementCompleted(ctx, p.Field)
		s.Quests.CompleteQuest(ctx, QuestUpdateGraph)
		s.Achievements.UpdateSetupProgress(ctx, s.Profile.CompletedMeasurementCount())
		return nil
	})

	sub(event.TypeDailySummaryViewed, func(ev event.Event) error {
		ctx := context.Background()
		s.Streak.UpdateDailySummaryStreak(ctx)
		s.Quests.CompleteQuest(ctx, QuestViewSummary)
		return nil
	})

	sub(event.TypeAppForegrounded, func(ev event.Event) error {
		s.Streak.RecordActivityToday(context.Background())
		return nil
	})

	// Internal wiring: progression signals feeding later-batch quests.
	sub(event.TypeLevelUp, func(ev event.Event) error {
		p, ok := ev.Payload.(event.LevelUpPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		s.Quests.ForceQuestCount(context.Background(), QuestReachLevelFive, p.To, 3)
		return nil
	})

	sub(event.TypeStreakPopupReady, func(ev event.Event) error {
		p, ok := ev.Payload.(event.StreakPopupPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", ev.Payload, ev.Type)
		}
		s.Quests.ForceQuestCount(context.Background(), QuestThreeDayStreak, p.CurrentStreak, 2)
		return nil
	})

	sub(event.TypePetRevealed, func(ev event.Event) error {
		s.Quests.IncrementQuest(context.Background(), QuestHatchFirstPet, 1, 2)
		return nil
	})
}
