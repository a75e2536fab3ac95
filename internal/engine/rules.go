package engine

import (
	"context"
	"fmt"
)

// ThresholdRule credits a quest from a monotonically increasing external
// counter. Once the running count exceeds Threshold, the quest's counter
// is force-set to count-Offset (clamped at zero). Rules are evaluated
// independently and tolerate re-evaluation on every count change because
// the underlying set operation is idempotent.
type ThresholdRule struct {
	Threshold int
	Offset    int
	Quest     string
	Batch     int
}

// RuleTable is an ordered list of threshold rules over one counter.
type RuleTable struct {
	Name  string
	Rules []ThresholdRule
}

// Validate rejects misaligned tables at startup instead of letting them
// mis-credit quests at runtime: thresholds must be strictly increasing
// and every rule must name a catalog quest in its declared batch.
func (t RuleTable) Validate(defs []QuestDef) error {
	prev := -1
	for i, r := range t.Rules {
		if r.Threshold <= prev {
			return fmt.Errorf("rule table %s: rule %d threshold %d is not strictly increasing", t.Name, i, r.Threshold)
		}
		prev = r.Threshold
		if r.Offset < 0 {
			return fmt.Errorf("rule table %s: rule %d has negative offset", t.Name, i)
		}
		found := false
		for _, d := range defs {
			if d.Batch == r.Batch && d.Name == r.Quest {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("rule table %s: rule %d references unknown quest %q in batch %d", t.Name, i, r.Quest, r.Batch)
		}
	}
	return nil
}

// ApplyRuleTable evaluates every rule whose threshold the count exceeds.
// Rules targeting a superseded or not-yet-reached batch fall through to
// the force-set's defensive batch check.
func (m *QuestManager) ApplyRuleTable(ctx context.Context, t RuleTable, count int) {
	if count < 0 {
		m.log.Warn("ignoring negative rule count", "table", t.Name, "count", count)
		return
	}
	for _, r := range t.Rules {
		if count <= r.Threshold {
			continue
		}
		m.ForceQuestCount(ctx, r.Quest, count-r.Offset, r.Batch)
	}
}

// eventsLoggedRules credits the "events logged so far" quests. The later
// batches use offsets so only events logged past the earlier milestones
// count toward them.
func eventsLoggedRules() RuleTable {
	return RuleTable{
		Name: "events-logged",
		Rules: []ThresholdRule{
			{Threshold: 0, Offset: 0, Quest: QuestLogEvents, Batch: 1},
			{Threshold: 3, Offset: 0, Quest: QuestLogMoreEvents, Batch: 2},
			{Threshold: 10, Offset: 10, Quest: QuestLogEventsVet, Batch: 3},
		},
	}
}

// scheduledCompletedRules credits the "scheduled events completed" quest.
func scheduledCompletedRules() RuleTable {
	return RuleTable{
		Name: "scheduled-completed",
		Rules: []ThresholdRule{
			{Threshold: 0, Offset: 0, Quest: QuestCompleteSched, Batch: 3},
		},
	}
}
