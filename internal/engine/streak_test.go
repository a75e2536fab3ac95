package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

// clock is a settable time source for driving the streak across days.
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStreak(t *testing.T, freeze bool) (*StreakManager, *clock, *event.Bus, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	bus := newTestBus()
	c := &clock{t: time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)}
	m := newStreakManager(context.Background(), st, bus, freeze, testLogger())
	m.now = c.now
	return m, c, bus, st
}

func TestStreakFirstActivityStartsAtOne(t *testing.T) {
	m, _, _, _ := newTestStreak(t, true)
	m.RecordActivityToday(context.Background())

	rec := m.Record()
	require.Equal(t, 1, rec.CurrentStreak)
	require.Equal(t, 1, rec.LongestStreak)
	require.Equal(t, 1, rec.TotalDaysLogged)
	require.NotNil(t, rec.LastLoginDate)
}

func TestStreakSameDayIsNoOp(t *testing.T) {
	m, c, _, _ := newTestStreak(t, true)
	ctx := context.Background()

	m.RecordActivityToday(ctx)
	c.advance(4 * time.Hour)
	m.RecordActivityToday(ctx)
	m.UpdateDailySummaryStreak(ctx)

	rec := m.Record()
	require.Equal(t, 1, rec.CurrentStreak)
	require.Equal(t, 1, rec.TotalDaysLogged, "repeat same-day activity is not another logged day")
}

func TestStreakConsecutiveDaysIncrement(t *testing.T) {
	m, c, bus, _ := newTestStreak(t, true)
	ctx := context.Background()
	popups := collect[event.StreakPopupPayload](t, bus, event.TypeStreakPopupReady)

	for i := 0; i < 3; i++ {
		m.RecordActivityToday(ctx)
		c.advance(24 * time.Hour)
	}

	rec := m.Record()
	require.Equal(t, 3, rec.CurrentStreak)
	require.Equal(t, 3, rec.LongestStreak)
	require.Equal(t, 3, rec.TotalDaysLogged)
	require.Len(t, *popups, 3)
	require.Equal(t, 3, (*popups)[2].CurrentStreak)
}

func TestStreakGapConsumesFreezeThenResets(t *testing.T) {
	m, c, _, _ := newTestStreak(t, true)
	ctx := context.Background()

	m.RecordActivityToday(ctx)
	c.advance(24 * time.Hour)
	m.RecordActivityToday(ctx)

	// Two-day gap: the one-time freeze bridges it and the streak grows.
	c.advance(48 * time.Hour)
	m.RecordActivityToday(ctx)
	rec := m.Record()
	require.Equal(t, 3, rec.CurrentStreak)
	require.True(t, rec.HasUsedFreeze)

	// Second gap: no freeze left, streak resets to one.
	c.advance(72 * time.Hour)
	m.RecordActivityToday(ctx)
	rec = m.Record()
	require.Equal(t, 1, rec.CurrentStreak)
	require.Equal(t, 3, rec.LongestStreak, "longest streak survives the reset")
	require.Equal(t, 4, rec.TotalDaysLogged)
}

func TestStreakGapResetsWhenFreezeDisabled(t *testing.T) {
	m, c, _, _ := newTestStreak(t, false)
	ctx := context.Background()

	m.RecordActivityToday(ctx)
	c.advance(24 * time.Hour)
	m.RecordActivityToday(ctx)
	c.advance(48 * time.Hour)
	m.RecordActivityToday(ctx)

	rec := m.Record()
	require.Equal(t, 1, rec.CurrentStreak)
	require.False(t, rec.HasUsedFreeze)
}

func TestStreakPopupLatch(t *testing.T) {
	m, c, _, _ := newTestStreak(t, true)
	ctx := context.Background()

	require.False(t, m.ShouldShowPopup())
	m.RecordActivityToday(ctx)
	require.True(t, m.ShouldShowPopup())
	require.True(t, m.ShouldShowPopup(), "latch holds across repeated reads")

	m.MarkPopupShown()
	require.False(t, m.ShouldShowPopup())

	// Same-day activity does not re-arm the latch.
	c.advance(time.Hour)
	m.RecordActivityToday(ctx)
	require.False(t, m.ShouldShowPopup())

	c.advance(24 * time.Hour)
	m.RecordActivityToday(ctx)
	require.True(t, m.ShouldShowPopup())
}

func TestStreakPersistsAcrossReload(t *testing.T) {
	st := newTestStore(t)
	bus := newTestBus()
	ctx := context.Background()
	c := &clock{t: time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)}

	m := newStreakManager(ctx, st, bus, true, testLogger())
	m.now = c.now
	m.RecordActivityToday(ctx)
	c.advance(24 * time.Hour)
	m.RecordActivityToday(ctx)

	reloaded := newStreakManager(ctx, st, bus, true, testLogger())
	reloaded.now = c.now
	rec := reloaded.Record()
	require.Equal(t, 2, rec.CurrentStreak)
	require.Equal(t, 2, rec.TotalDaysLogged)
	require.NotNil(t, rec.LastLoginDate)

	// The reloaded manager continues the streak the next day.
	c.advance(24 * time.Hour)
	reloaded.RecordActivityToday(ctx)
	require.Equal(t, 3, reloaded.Record().CurrentStreak)
}
