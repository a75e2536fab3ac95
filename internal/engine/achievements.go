package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

const achievementsKey = "userAchievements"

// Milestone IDs referenced from the service wiring.
const (
	MilestoneCalendarSetup   = "calendar_setup"
	MilestoneCalendarEntries = "calendar_entries"
)

// MilestoneTier is one step of a milestone: a count threshold and the XP
// granted for crossing it.
type MilestoneTier struct {
	Threshold int
	RewardXP  float64
}

// MilestoneDef defines a coarse progress milestone, orthogonal to the
// quest batches but feeding the same XP pipeline.
type MilestoneDef struct {
	ID    string
	Name  string
	Tiers []MilestoneTier
}

func defaultMilestones() []MilestoneDef {
	return []MilestoneDef{
		{
			ID:   MilestoneCalendarSetup,
			Name: "Set up your calendar",
			Tiers: []MilestoneTier{
				{Threshold: 1, RewardXP: 20},
				{Threshold: 3, RewardXP: 40},
			},
		},
		{
			ID:   MilestoneCalendarEntries,
			Name: "Calendar entries logged",
			Tiers: []MilestoneTier{
				{Threshold: 1, RewardXP: 15},
				{Threshold: 10, RewardXP: 40},
				{Threshold: 50, RewardXP: 100},
				{Threshold: 200, RewardXP: 250},
			},
		},
	}
}

// Milestone is a read-only view of a milestone and the tier it has
// reached.
type Milestone struct {
	ID    string
	Name  string
	Level int
	Tiers int
}

// AchievementManager owns milestone progress and is the sole writer to
// its store key. Progress is recomputed from the externally supplied
// count on every update, so replays and out-of-order calls cannot
// over-credit.
type AchievementManager struct {
	mu      sync.Mutex
	store   *store.Store
	bus     *event.Bus
	profile *ProfileManager
	log     *slog.Logger

	defs   []MilestoneDef
	levels map[string]int
}

func newAchievementManager(ctx context.Context, st *store.Store, bus *event.Bus, profile *ProfileManager, log *slog.Logger) *AchievementManager {
	m := &AchievementManager{
		store:   st,
		bus:     bus,
		profile: profile,
		log:     log,
		defs:    defaultMilestones(),
		levels:  make(map[string]int),
	}

	var levels map[string]int
	ok, err := st.GetJSON(ctx, achievementsKey, &levels)
	if err != nil {
		log.Warn("achievement progress unreadable, starting empty", "error", err)
	} else if ok && levels != nil {
		m.levels = levels
	}
	return m
}

// Milestones returns a snapshot of all milestones.
func (m *AchievementManager) Milestones() []Milestone {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Milestone, 0, len(m.defs))
	for _, d := range m.defs {
		out = append(out, Milestone{
			ID:    d.ID,
			Name:  d.Name,
			Level: m.levels[d.ID],
			Tiers: len(d.Tiers),
		})
	}
	return out
}

// UpdateCalendarProgress recomputes the calendar-entries milestone from
// the current running entry count.
func (m *AchievementManager) UpdateCalendarProgress(ctx context.Context, totalEntries int) {
	m.updateMilestone(ctx, MilestoneCalendarEntries, totalEntries)
}

// UpdateSetupProgress recomputes the calendar-setup milestone from the
// number of completed setup steps.
func (m *AchievementManager) UpdateSetupProgress(ctx context.Context, stepsDone int) {
	m.updateMilestone(ctx, MilestoneCalendarSetup, stepsDone)
}

// updateMilestone is idempotent: the tier level is a pure function of the
// supplied count, the stored level is a high-water mark, and tier rewards
// are granted once per tier.
func (m *AchievementManager) updateMilestone(ctx context.Context, id string, count int) {
	if count < 0 {
		m.log.Warn("ignoring negative milestone count", "milestone", id, "count", count)
		return
	}

	m.mu.Lock()
	def := m.findDefLocked(id)
	if def == nil {
		m.mu.Unlock()
		m.log.Warn("unknown milestone", "milestone", id)
		return
	}

	level := tiersReached(*def, count)
	before := m.levels[id]
	if level <= before {
		m.mu.Unlock()
		return
	}
	m.levels[id] = level
	crossed := def.Tiers[before:level]
	m.persistLocked(ctx)
	m.mu.Unlock()

	for i, tier := range crossed {
		m.profile.GrantXP(ctx, tier.RewardXP)
		m.bus.Publish(event.TypeAchievementReached, event.AchievementPayload{
			ID:    id,
			Level: before + i + 1,
		})
	}
}

func (m *AchievementManager) findDefLocked(id string) *MilestoneDef {
	for i := range m.defs {
		if m.defs[i].ID == id {
			return &m.defs[i]
		}
	}
	return nil
}

// tiersReached returns how many tiers the count satisfies. Pure.
func tiersReached(def MilestoneDef, count int) int {
	level := 0
	for _, tier := range def.Tiers {
		if count >= tier.Threshold {
			level++
		}
	}
	return level
}

func (m *AchievementManager) persistLocked(ctx context.Context) {
	if err := m.store.PutJSON(ctx, achievementsKey, m.levels); err != nil {
		m.log.Warn("achievement progress not saved this round", "error", err)
	}
}
