package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
)

func newTestProfile(t *testing.T) (*ProfileManager, *event.Bus) {
	t.Helper()
	st := newTestStore(t)
	bus := newTestBus()
	return newProfileManager(context.Background(), st, bus, Curve{Base: 100, Growth: 1.5}, testLogger()), bus
}

func TestGrantXPLevelUpScenario(t *testing.T) {
	m, bus := newTestProfile(t)
	ctx := context.Background()
	levelUps := collect[event.LevelUpPayload](t, bus, event.TypeLevelUp)

	m.GrantXP(ctx, m.curve.RequiredForLevel(1)+50)

	p := m.Profile()
	require.Equal(t, 2, p.Level)
	require.InDelta(t, 50, p.XP, 1e-9)

	require.Len(t, *levelUps, 1)
	require.Equal(t, 1, (*levelUps)[0].From)
	require.Equal(t, 2, (*levelUps)[0].To)
	require.True(t, (*levelUps)[0].ReachedLevelTwo)
}

func TestGrantXPInvalidAmountsAreNoOps(t *testing.T) {
	m, _ := newTestProfile(t)
	ctx := context.Background()

	m.GrantXP(ctx, -10)
	p := m.Profile()
	require.Equal(t, 1, p.Level)
	require.Zero(t, p.XP)
}

func TestSpendCoins(t *testing.T) {
	m, _ := newTestProfile(t)
	ctx := context.Background()

	m.AddCoins(ctx, 30)
	require.False(t, m.SpendCoins(ctx, 50), "overdraft must fail")
	require.Equal(t, 30, m.Profile().Coins, "failed spend must not mutate")

	require.True(t, m.SpendCoins(ctx, 30))
	require.Zero(t, m.Profile().Coins)
}

func TestProfilePersistsAcrossReload(t *testing.T) {
	st := newTestStore(t)
	bus := newTestBus()
	ctx := context.Background()
	curve := Curve{Base: 100, Growth: 1.5}

	m := newProfileManager(ctx, st, bus, curve, testLogger())
	m.SetName(ctx, "Dar")
	m.GrantXP(ctx, 120)
	m.AddCoins(ctx, 7)
	m.MarkMeasurementCompleted(ctx, "height")

	reloaded := newProfileManager(ctx, st, bus, curve, testLogger())
	p := reloaded.Profile()
	require.Equal(t, "Dar", p.Name)
	require.Equal(t, 2, p.Level)
	require.InDelta(t, 20, p.XP, 1e-9)
	require.Equal(t, 7, p.Coins)
	require.True(t, p.CompletedMeasurements["height"])
}

func TestCorruptProfileBlobFallsBackToDefault(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, profileKey, []byte("{not json")))

	m := newProfileManager(ctx, st, newTestBus(), Curve{Base: 100, Growth: 1.5}, testLogger())
	p := m.Profile()
	require.Equal(t, 1, p.Level)
	require.Zero(t, p.XP)
	require.Zero(t, p.Coins)
}
