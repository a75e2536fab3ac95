package event

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBus() *Bus {
	return NewBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := newTestBus()
	var got []Event
	bus.Subscribe(TypeLevelUp, func(ev Event) error {
		got = append(got, ev)
		return nil
	})

	bus.Publish(TypeLevelUp, LevelUpPayload{From: 1, To: 2, ReachedLevelTwo: true})

	require.Len(t, got, 1)
	require.Equal(t, TypeLevelUp, got[0].Type)
	require.NotEmpty(t, got[0].ID)
	require.False(t, got[0].At.IsZero())
	require.Equal(t, LevelUpPayload{From: 1, To: 2, ReachedLevelTwo: true}, got[0].Payload)
}

func TestPublishOnlyMatchesType(t *testing.T) {
	bus := newTestBus()
	var calls int
	bus.Subscribe(TypeQuestCompleted, func(Event) error {
		calls++
		return nil
	})

	bus.Publish(TypeBatchUnlocked, BatchUnlockedPayload{Batch: 2})
	require.Zero(t, calls)

	bus.Publish(TypeQuestCompleted, QuestCompletedPayload{Quest: "q", Batch: 1})
	require.Equal(t, 1, calls)
}

func TestPublishWithNoSubscribersIsFine(t *testing.T) {
	bus := newTestBus()
	bus.Publish(TypeStreakPopupReady, StreakPopupPayload{CurrentStreak: 3})
}

func TestHandlersRunInRegistrationOrder(t *testing.T) {
	bus := newTestBus()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.Subscribe(TypeProfileUpdated, func(Event) error {
			order = append(order, name)
			return nil
		})
	}

	bus.Publish(TypeProfileUpdated, ProfileUpdatedPayload{})
	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := newTestBus()
	var reached bool
	bus.Subscribe(TypePetRevealed, func(Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(TypePetRevealed, func(Event) error {
		reached = true
		return nil
	})

	bus.Publish(TypePetRevealed, PetRevealedPayload{PetID: "sprout"})
	require.True(t, reached)
}

func TestSubscriptionClose(t *testing.T) {
	bus := newTestBus()
	var calls int
	sub := bus.Subscribe(TypeAchievementReached, func(Event) error {
		calls++
		return nil
	})

	bus.Publish(TypeAchievementReached, AchievementPayload{ID: "a", Level: 1})
	sub.Close()
	sub.Close() // idempotent
	bus.Publish(TypeAchievementReached, AchievementPayload{ID: "a", Level: 2})

	require.Equal(t, 1, calls)
}

func TestSubscriberCanPublishReentrantly(t *testing.T) {
	bus := newTestBus()
	var chained bool
	bus.Subscribe(TypeQuestCompleted, func(Event) error {
		bus.Publish(TypeBatchUnlocked, BatchUnlockedPayload{Batch: 2})
		return nil
	})
	bus.Subscribe(TypeBatchUnlocked, func(Event) error {
		chained = true
		return nil
	})

	bus.Publish(TypeQuestCompleted, QuestCompletedPayload{Quest: "q", Batch: 1})
	require.True(t, chained)
}
