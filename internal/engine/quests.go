package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dharmeshiPhone/RealCalender-sub003/internal/event"
	"github.com/dharmeshiPhone/RealCalender-sub003/internal/store"
)

const (
	currentBatchKey  = "currentBatch"
	questProgressKey = "questProgress"
)

// CurrentBatchArg targets whatever batch is currently active, for
// operations whose callers do not carry a batch number.
const CurrentBatchArg = 0

// Quest is a read-only view of one catalog quest and its progress.
type Quest struct {
	Name      string
	Batch     int
	Required  int
	Completed int
}

// IsCompleted reports whether the quest reached its target. Completion is
// derived, never stored, so it cannot drift from the counter.
func (q Quest) IsCompleted() bool {
	return q.Completed >= q.Required
}

// QuestManager owns the batch cursor and per-quest counters and is the
// sole writer to their store keys.
//
// Counters are monotonically non-decreasing and clamped to
// [0, required]; a quest is never un-completed by normal operation.
type QuestManager struct {
	mu      sync.Mutex
	store   *store.Store
	bus     *event.Bus
	profile *ProfileManager
	log     *slog.Logger

	defs         []QuestDef
	currentBatch int
	progress     map[string]int
}

func newQuestManager(ctx context.Context, st *store.Store, bus *event.Bus, profile *ProfileManager, defs []QuestDef, log *slog.Logger) *QuestManager {
	m := &QuestManager{
		store:        st,
		bus:          bus,
		profile:      profile,
		log:          log,
		defs:         defs,
		currentBatch: 1,
		progress:     make(map[string]int),
	}

	var batch int
	ok, err := st.GetJSON(ctx, currentBatchKey, &batch)
	if err != nil {
		log.Warn("batch cursor unreadable, starting at batch 1", "error", err)
	} else if ok && batch >= 1 {
		m.currentBatch = batch
	}

	var progress map[string]int
	ok, err = st.GetJSON(ctx, questProgressKey, &progress)
	if err != nil {
		log.Warn("quest progress unreadable, starting empty", "error", err)
	} else if ok && progress != nil {
		m.progress = progress
	}
	return m
}

// CurrentBatch returns the active batch cursor. The cursor never
// decreases.
func (m *QuestManager) CurrentBatch() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentBatch
}

// Quests returns the quests of the given batch with their progress.
// Passing CurrentBatchArg selects the active batch.
func (m *QuestManager) Quests(batch int) []Quest {
	m.mu.Lock()
	defer m.mu.Unlock()

	if batch == CurrentBatchArg {
		batch = m.currentBatch
	}
	var out []Quest
	for _, d := range m.defs {
		if d.Batch != batch {
			continue
		}
		out = append(out, Quest{
			Name:      d.Name,
			Batch:     d.Batch,
			Required:  d.Required,
			Completed: m.progress[questKey(d.Batch, d.Name)],
		})
	}
	return out
}

// CompleteQuest increments the named quest of the active batch by one.
// Crossing the threshold grants the quest reward exactly once.
func (m *QuestManager) CompleteQuest(ctx context.Context, name string) {
	m.apply(ctx, name, CurrentBatchArg, func(cur, req int) int {
		return cur + 1
	})
}

// IncrementQuest advances the named quest by n. The batch argument is a
// defensive check: when it names a batch other than the active one the
// call is a no-op, so late-arriving signals from a superseded batch
// cannot credit a quest they no longer belong to.
func (m *QuestManager) IncrementQuest(ctx context.Context, name string, n, batch int) {
	if n <= 0 {
		m.log.Warn("ignoring non-positive quest increment", "quest", name, "n", n)
		return
	}
	m.apply(ctx, name, batch, func(cur, req int) int {
		return cur + n
	})
}

// ForceQuestCount sets the named quest's counter to the absolute value n,
// clamped to [0, required] and never below the current counter. Calling
// it twice with the same arguments has no further effect, which is what
// lets threshold rule tables be re-evaluated on every count change
// without double-granting.
func (m *QuestManager) ForceQuestCount(ctx context.Context, name string, n, batch int) {
	if n < 0 {
		n = 0
	}
	m.apply(ctx, name, batch, func(cur, req int) int {
		return n
	})
}

// apply runs one read-compute-persist-publish cycle. Rewards and events
// fire after the lock is released so subscribers may re-enter the
// manager.
func (m *QuestManager) apply(ctx context.Context, name string, batch int, next func(cur, req int) int) {
	m.mu.Lock()
	if batch == CurrentBatchArg {
		batch = m.currentBatch
	}
	if batch != m.currentBatch {
		m.mu.Unlock()
		m.log.Debug("dropping quest update for inactive batch",
			"quest", name, "batch", batch, "current_batch", m.currentBatch)
		return
	}

	def := m.findDef(batch, name)
	if def == nil {
		m.mu.Unlock()
		// Catalog is static; a miss indicates a caller bug, not a
		// recoverable runtime condition.
		m.log.Warn("unknown quest", "quest", name, "batch", batch)
		return
	}

	key := questKey(batch, name)
	cur := m.progress[key]
	n := next(cur, def.Required)
	if n < 0 {
		n = 0
	}
	if n > def.Required {
		n = def.Required
	}
	if n <= cur {
		m.mu.Unlock()
		return
	}
	m.progress[key] = n

	completed := cur < def.Required && n == def.Required
	unlocked := 0
	if completed && m.batchCompleteLocked(batch) {
		m.currentBatch = batch + 1
		unlocked = m.currentBatch
	}
	m.persistLocked(ctx)
	reward := *def
	m.mu.Unlock()

	if completed {
		m.profile.AddCoins(ctx, reward.RewardCoins)
		m.profile.GrantXP(ctx, reward.RewardXP)
		m.bus.Publish(event.TypeQuestCompleted, event.QuestCompletedPayload{
			Quest: reward.Name,
			Batch: reward.Batch,
		})
	}
	if unlocked > 0 {
		m.bus.Publish(event.TypeBatchUnlocked, event.BatchUnlockedPayload{Batch: unlocked})
	}
}

func (m *QuestManager) findDef(batch int, name string) *QuestDef {
	for i := range m.defs {
		if m.defs[i].Batch == batch && m.defs[i].Name == name {
			return &m.defs[i]
		}
	}
	return nil
}

func (m *QuestManager) batchCompleteLocked(batch int) bool {
	for _, d := range m.defs {
		if d.Batch != batch {
			continue
		}
		if m.progress[questKey(d.Batch, d.Name)] < d.Required {
			return false
		}
	}
	return true
}

func (m *QuestManager) persistLocked(ctx context.Context) {
	if err := m.store.PutJSON(ctx, currentBatchKey, m.currentBatch); err != nil {
		m.log.Warn("batch cursor not saved this round", "error", err)
	}
	if err := m.store.PutJSON(ctx, questProgressKey, m.progress); err != nil {
		m.log.Warn("quest progress not saved this round", "error", err)
	}
}
