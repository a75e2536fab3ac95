package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

const (
	currentStreakKey   = "currentStreak"
	longestStreakKey   = "longestStreak"
	totalDaysLoggedKey = "totalDaysLogged"
	lastLoginDateKey   = "lastLoginDate"
	hasUsedFreezeKey   = "hasUsedFreeze"
)

// StreakRecord is the persisted consecutive-day engagement state.
type StreakRecord struct {
	CurrentStreak   int
	LongestStreak   int
	TotalDaysLogged int
	LastLoginDate   *time.Time
	HasUsedFreeze   bool
}

// StreakManager owns the streak record and is the sole writer to its
// store keys. Day comparisons are calendar-day granularity, not
// wall-clock.
type StreakManager struct {
	mu    sync.Mutex
	store *store.Store
	bus   *event.Bus
	log   *slog.Logger

	freezeEnabled bool
	now           func() time.Time

	rec          StreakRecord
	popupPending bool
}

func newStreakManager(ctx context.Context, st *store.Store, bus *event.Bus, freezeEnabled bool, log *slog.Logger) *StreakManager {
	m := &StreakManager{
		store:         st,
		bus:           bus,
		log:           log,
		freezeEnabled: freezeEnabled,
		now:           time.Now,
	}

	m.loadInt(ctx, currentStreakKey, &m.rec.CurrentStreak)
	m.loadInt(ctx, longestStreakKey, &m.rec.LongestStreak)
	m.loadInt(ctx, totalDaysLoggedKey, &m.rec.TotalDaysLogged)
	m.loadBool(ctx, hasUsedFreezeKey, &m.rec.HasUsedFreeze)

	var last string
	ok, err := st.GetJSON(ctx, lastLoginDateKey, &last)
	if err != nil {
		log.Warn("last login date unreadable, treating as never", "error", err)
	} else if ok && last != "" {
		t, perr := time.Parse(time.RFC3339, last)
		if perr != nil {
			log.Warn("last login date malformed, treating as never", "value", last)
		} else {
			m.rec.LastLoginDate = &t
		}
	}
	if m.rec.LongestStreak < m.rec.CurrentStreak {
		m.rec.LongestStreak = m.rec.CurrentStreak
	}
	return m
}

func (m *StreakManager) loadInt(ctx context.Context, key string, dst *int) {
	var v int
	ok, err := m.store.GetJSON(ctx, key, &v)
	if err != nil {
		m.log.Warn("streak value unreadable, using zero", "key", key, "error", err)
		return
	}
	if ok && v >= 0 {
		*dst = v
	}
}

func (m *StreakManager) loadBool(ctx context.Context, key string, dst *bool) {
	var v bool
	ok, err := m.store.GetJSON(ctx, key, &v)
	if err != nil {
		m.log.Warn("streak flag unreadable, using false", "key", key, "error", err)
		return
	}
	if ok {
		*dst = v
	}
}

// Record returns a snapshot of the streak state.
func (m *StreakManager) Record() StreakRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := m.rec
	if rec.LastLoginDate != nil {
		t := *rec.LastLoginDate
		rec.LastLoginDate = &t
	}
	return rec
}

// RecordActivityToday advances the streak for general engagement
// (app open / foreground).
func (m *StreakManager) RecordActivityToday(ctx context.Context) {
	m.advanceDay(ctx)
}

// UpdateDailySummaryStreak advances the streak when the user views a
// daily-summary report. It is a separate entry point from general
// activity so the streak specifically rewards a deliberate action.
func (m *StreakManager) UpdateDailySummaryStreak(ctx context.Context) {
	m.advanceDay(ctx)
}

// advanceDay applies the calendar-day rule: same day is a no-op, exactly
// one day later increments, a larger gap resets to 1 unless the one-time
// freeze bridges it.
func (m *StreakManager) advanceDay(ctx context.Context) {
	m.mu.Lock()
	today := truncateToDay(m.now())
	before := m.rec.CurrentStreak

	switch {
	case m.rec.LastLoginDate == nil:
		m.rec.CurrentStreak = 1
	default:
		gap := daysBetween(truncateToDay(*m.rec.LastLoginDate), today)
		switch {
		case gap <= 0:
			m.mu.Unlock()
			return
		case gap == 1:
			m.rec.CurrentStreak++
		default:
			if m.freezeEnabled && !m.rec.HasUsedFreeze {
				m.rec.HasUsedFreeze = true
				m.rec.CurrentStreak++
			} else {
				m.rec.CurrentStreak = 1
			}
		}
	}

	m.rec.LastLoginDate = &today
	m.rec.TotalDaysLogged++
	if m.rec.CurrentStreak > m.rec.LongestStreak {
		m.rec.LongestStreak = m.rec.CurrentStreak
	}
	incremented := m.rec.CurrentStreak > before
	if incremented {
		m.popupPending = true
	}
	current := m.rec.CurrentStreak
	m.persistLocked(ctx)
	m.mu.Unlock()

	if incremented {
		m.bus.Publish(event.TypeStreakPopupReady, event.StreakPopupPayload{CurrentStreak: current})
	}
}

// ShouldShowPopup reports whether a streak celebration is pending. It
// stays true across re-renders until MarkPopupShown acknowledges it.
func (m *StreakManager) ShouldShowPopup() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popupPending
}

// MarkPopupShown acknowledges the pending celebration.
func (m *StreakManager) MarkPopupShown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popupPending = false
}

func (m *StreakManager) persistLocked(ctx context.Context) {
	put := func(key string, v any) {
		if err := m.store.PutJSON(ctx, key, v); err != nil {
			m.log.Warn("streak value not saved this round", "key", key, "error", err)
		}
	}
	put(currentStreakKey, m.rec.CurrentStreak)
	put(longestStreakKey, m.rec.LongestStreak)
	put(totalDaysLoggedKey, m.rec.TotalDaysLogged)
	put(hasUsedFreezeKey, m.rec.HasUsedFreeze)
	if m.rec.LastLoginDate != nil {
		put(lastLoginDateKey, m.rec.LastLoginDate.Format(time.RFC3339))
	}
}

// truncateToDay returns the date portion of a time (midnight, local).
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
