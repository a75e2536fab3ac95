package engine

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

const profileKey = "userProfile"

// Profile is the persisted user record. XP is the residual toward the
// next level and is always below the current threshold once normalized.
type Profile struct {
	Name                  string          `json:"name"`
	Level                 int             `json:"level"`
	XP                    float64         `json:"xp"`
	Coins                 int             `json:"coins"`
	CompletedMeasurements map[string]bool `json:"completedMeasurements,omitempty"`
}

func defaultProfile() Profile {
	return Profile{Level: 1}
}

// ProfileManager owns the profile record and is the sole writer to its
// store key. Readers receive copies, never shared references.
type ProfileManager struct {
	mu    sync.Mutex
	store *store.Store
	bus   *event.Bus
	curve Curve
	log   *slog.Logger

	profile Profile
}

func newProfileManager(ctx context.Context, st *store.Store, bus *event.Bus, curve Curve, log *slog.Logger) *ProfileManager {
	m := &ProfileManager{
		store:   st,
		bus:     bus,
		curve:   curve,
		log:     log,
		profile: defaultProfile(),
	}

	var p Profile
	ok, err := st.GetJSON(ctx, profileKey, &p)
	switch {
	case err != nil:
		// Corrupt blob: start fresh rather than fail the launch.
		log.Warn("profile blob unreadable, using default", "error", err)
	case ok:
		if p.Level < 1 {
			p.Level = 1
		}
		m.profile = p
	}
	return m
}

// Profile returns a snapshot of the current profile.
func (m *ProfileManager) Profile() Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// XPProgress returns the residual XP and the threshold for the current
// level, for progress rendering.
func (m *ProfileManager) XPProgress() (xp, required float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile.XP, m.curve.RequiredForLevel(m.profile.Level)
}

// GrantXP adds XP and applies the leveling reduction, supporting
// multi-level jumps from one large grant. Negative or NaN amounts are
// logged no-ops.
func (m *ProfileManager) GrantXP(ctx context.Context, amount float64) {
	if amount < 0 || math.IsNaN(amount) {
		m.log.Warn("ignoring invalid xp grant", "amount", amount)
		return
	}
	if amount == 0 {
		return
	}

	m.mu.Lock()
	before := m.profile.Level
	level, xp := m.curve.Reduce(m.profile.Level, m.profile.XP+amount)
	m.profile.Level = level
	m.profile.XP = xp
	m.persistLocked(ctx)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publishUpdated(snap)
	if level > before {
		m.bus.Publish(event.TypeLevelUp, event.LevelUpPayload{
			From:            before,
			To:              level,
			ReachedLevelTwo: before < 2 && level >= 2,
		})
	}
}

// SpendCoins debits the given amount. It reports false and leaves the
// profile untouched when the balance is too low.
func (m *ProfileManager) SpendCoins(ctx context.Context, amount int) bool {
	if amount < 0 {
		m.log.Warn("ignoring negative coin spend", "amount", amount)
		return false
	}

	m.mu.Lock()
	if m.profile.Coins < amount {
		m.mu.Unlock()
		return false
	}
	m.profile.Coins -= amount
	m.persistLocked(ctx)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publishUpdated(snap)
	return true
}

// AddCoins credits the given amount.
func (m *ProfileManager) AddCoins(ctx context.Context, amount int) {
	if amount < 0 {
		m.log.Warn("ignoring negative coin grant", "amount", amount)
		return
	}
	if amount == 0 {
		return
	}

	m.mu.Lock()
	m.profile.Coins += amount
	m.persistLocked(ctx)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publishUpdated(snap)
}

// SetName updates the display name.
func (m *ProfileManager) SetName(ctx context.Context, name string) {
	m.mu.Lock()
	m.profile.Name = name
	m.persistLocked(ctx)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publishUpdated(snap)
}

// MarkMeasurementCompleted records that a profile graph field was filled
// in. Marking the same field twice is a no-op.
func (m *ProfileManager) MarkMeasurementCompleted(ctx context.Context, field string) {
	if field == "" {
		return
	}

	m.mu.Lock()
	if m.profile.CompletedMeasurements[field] {
		m.mu.Unlock()
		return
	}
	if m.profile.CompletedMeasurements == nil {
		m.profile.CompletedMeasurements = make(map[string]bool)
	}
	m.profile.CompletedMeasurements[field] = true
	m.persistLocked(ctx)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publishUpdated(snap)
}

// CompletedMeasurementCount returns how many graph fields are filled in.
func (m *ProfileManager) CompletedMeasurementCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profile.CompletedMeasurements)
}

func (m *ProfileManager) snapshotLocked() Profile {
	p := m.profile
	if p.CompletedMeasurements != nil {
		flags := make(map[string]bool, len(p.CompletedMeasurements))
		for k, v := range p.CompletedMeasurements {
			flags[k] = v
		}
		p.CompletedMeasurements = flags
	}
	return p
}

// persistLocked saves the profile. A persistence failure never aborts the
// calling action: the in-memory record stays authoritative and the next
// successful mutation re-persists it.
func (m *ProfileManager) persistLocked(ctx context.Context) {
	if err := m.store.PutJSON(ctx, profileKey, m.profile); err != nil {
		m.log.Warn("profile not saved this round", "error", err)
	}
}

func (m *ProfileManager) publishUpdated(p Profile) {
	m.bus.Publish(event.TypeProfileUpdated, event.ProfileUpdatedPayload{
		Name:  p.Name,
		Level: p.Level,
		XP:    p.XP,
		Coins: p.Coins,
	})
}
