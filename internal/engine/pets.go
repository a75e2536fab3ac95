package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

const petsKey = "userPets"

// RevealRewardXP is the XP granted when a hatched pet is revealed.
const RevealRewardXP = 50.0

// PetState is the derived lifecycle state of a pet. Exactly one state
// holds at any time, computed from the stored fields and the clock; no
// separate state field is stored, which is what keeps the machine
// restart-safe.
type PetState string

const (
	PetLocked        PetState = "locked"
	PetHatching      PetState = "hatching"
	PetReadyToReveal PetState = "ready"
	PetUnlocked      PetState = "unlocked"
)

// Pet is one collectible. Only the fields below are persisted.
type Pet struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Cost            int        `json:"cost"`
	Unlocked        bool       `json:"unlocked"`
	UnlockTimestamp *time.Time `json:"unlockTimestamp,omitempty"`
}

func defaultPetCatalog() []Pet {
	return []Pet{
		{ID: "sprout", Name: "Sprout", Cost: 100},
		{ID: "ember", Name: "Ember", Cost: 250},
		{ID: "puddle", Name: "Puddle", Cost: 500},
		{ID: "nimbus", Name: "Nimbus", Cost: 750},
		{ID: "flick", Name: "Flick", Cost: 1000},
	}
}

// petState derives the lifecycle state at the given instant.
func petState(p Pet, now time.Time, hatch time.Duration) PetState {
	switch {
	case p.Unlocked:
		return PetUnlocked
	case p.UnlockTimestamp == nil:
		return PetLocked
	case now.Sub(*p.UnlockTimestamp) < hatch:
		return PetHatching
	default:
		return PetReadyToReveal
	}
}

// PetManager owns the pet collection and is the sole writer to its store
// key. The hatch timer is evaluated lazily from the stored purchase
// timestamp, so it survives process restarts with no live timer.
type PetManager struct {
	mu      sync.Mutex
	store   *store.Store
	bus     *event.Bus
	profile *ProfileManager
	log     *slog.Logger

	hatch time.Duration
	now   func() time.Time

	pets []Pet
}

func newPetManager(ctx context.Context, st *store.Store, bus *event.Bus, profile *ProfileManager, hatch time.Duration, log *slog.Logger) *PetManager {
	m := &PetManager{
		store:   st,
		bus:     bus,
		profile: profile,
		log:     log,
		hatch:   hatch,
		now:     time.Now,
	}

	var stored []Pet
	ok, err := st.GetJSON(ctx, petsKey, &stored)
	if err != nil {
		log.Warn("pet collection unreadable, using catalog", "error", err)
		stored = nil
	} else if !ok {
		stored = nil
	}

	// Catalog order is canonical; saved state wins per pet, and catalog
	// pets missing from an older save are added locked.
	byID := make(map[string]Pet, len(stored))
	for _, p := range stored {
		byID[p.ID] = p
	}
	for _, cat := range defaultPetCatalog() {
		if saved, exists := byID[cat.ID]; exists {
			saved.Name = cat.Name
			saved.Cost = cat.Cost
			m.pets = append(m.pets, saved)
		} else {
			m.pets = append(m.pets, cat)
		}
	}
	return m
}

// Pets returns a snapshot of the collection.
func (m *PetManager) Pets() []Pet {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Pet, len(m.pets))
	copy(out, m.pets)
	for i := range out {
		if out[i].UnlockTimestamp != nil {
			t := *out[i].UnlockTimestamp
			out[i].UnlockTimestamp = &t
		}
	}
	return out
}

// State returns the derived lifecycle state of the pet right now.
func (m *PetManager) State(id string) (PetState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.findLocked(id)
	if p == nil {
		return "", ErrUnknownPet
	}
	return petState(*p, m.now(), m.hatch), nil
}

// Purchase debits the pet's cost and starts the hatch timer. It fails
// with ErrInsufficientCoins (no state change) when the balance is too
// low, and with a PetStateError when the pet is not locked.
func (m *PetManager) Purchase(ctx context.Context, id string) error {
	m.mu.Lock()
	p := m.findLocked(id)
	if p == nil {
		m.mu.Unlock()
		return ErrUnknownPet
	}
	if st := petState(*p, m.now(), m.hatch); st != PetLocked {
		m.mu.Unlock()
		return PetStateError{PetID: id, State: st, Op: "purchase"}
	}
	cost := p.Cost
	m.mu.Unlock()

	// All progression mutation is marshalled onto one logical owner
	// goroutine, so nothing can race between the debit and the commit.
	if !m.profile.SpendCoins(ctx, cost) {
		return ErrInsufficientCoins
	}

	m.mu.Lock()
	now := m.now()
	p = m.findLocked(id)
	p.UnlockTimestamp = &now
	m.persistLocked(ctx)
	m.mu.Unlock()
	return nil
}

// Reveal completes the hatch: a manual step even after the timer has
// elapsed, and the terminal transition of the lifecycle. It grants the
// reveal reward and announces the pet so quest credit can follow.
func (m *PetManager) Reveal(ctx context.Context, id string) error {
	m.mu.Lock()
	p := m.findLocked(id)
	if p == nil {
		m.mu.Unlock()
		return ErrUnknownPet
	}
	if st := petState(*p, m.now(), m.hatch); st != PetReadyToReveal {
		m.mu.Unlock()
		return PetStateError{PetID: id, State: st, Op: "reveal"}
	}
	p.Unlocked = true
	name := p.Name
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.profile.GrantXP(ctx, RevealRewardXP)
	m.bus.Publish(event.TypePetRevealed, event.PetRevealedPayload{PetID: id, Name: name})
	return nil
}

func (m *PetManager) findLocked(id string) *Pet {
	for i := range m.pets {
		if m.pets[i].ID == id {
			return &m.pets[i]
		}
	}
	return nil
}

func (m *PetManager) persistLocked(ctx context.Context) {
	if err := m.store.PutJSON(ctx, petsKey, m.pets); err != nil {
		m.log.Warn("pet collection not saved this round", "error", err)
	}
}
