package engine

import "fmt"

// QuestDef is a static catalog entry: a countable task with a completion
// threshold and reward, grouped into a 1-indexed unlock batch.
type QuestDef struct {
	Name        string
	Batch       int
	Required    int
	RewardXP    float64
	RewardCoins int
}

// Quest catalog names referenced from the service wiring. The catalog is
// static; callers passing any other name hit the silent no-op path.
const (
	QuestLogEvents      = "Log 3 calendar events"
	QuestUpdateGraph    = "Update your graph"
	QuestViewSummary    = "View your daily summary"
	QuestLogMoreEvents  = "Log 10 calendar events"
	QuestHatchFirstPet  = "Hatch your first pet"
	QuestThreeDayStreak = "Keep a 3 day streak"
	QuestLogEventsVet   = "Log 15 more calendar events"
	QuestCompleteSched  = "Complete 5 scheduled events"
	QuestReachLevelFive = "Reach level 5"
)

func defaultCatalog() []QuestDef {
	return []QuestDef{
		// Batch 1: first-session basics.
		{Name: QuestLogEvents, Batch: 1, Required: 3, RewardXP: 40, RewardCoins: 50},
		{Name: QuestUpdateGraph, Batch: 1, Required: 1, RewardXP: 25, RewardCoins: 25},
		{Name: QuestViewSummary, Batch: 1, Required: 1, RewardXP: 25, RewardCoins: 25},

		// Batch 2: building the routine.
		{Name: QuestLogMoreEvents, Batch: 2, Required: 10, RewardXP: 80, RewardCoins: 75},
		{Name: QuestHatchFirstPet, Batch: 2, Required: 1, RewardXP: 60, RewardCoins: 50},
		{Name: QuestThreeDayStreak, Batch: 2, Required: 3, RewardXP: 60, RewardCoins: 50},

		// Batch 3: sticking with it.
		{Name: QuestLogEventsVet, Batch: 3, Required: 15, RewardXP: 150, RewardCoins: 100},
		{Name: QuestCompleteSched, Batch: 3, Required: 5, RewardXP: 120, RewardCoins: 100},
		{Name: QuestReachLevelFive, Batch: 3, Required: 5, RewardXP: 200, RewardCoins: 150},
	}
}

// validateCatalog rejects catalogs the batch state machine cannot run on:
// batches must be contiguous from 1 and quest names unique per batch.
func validateCatalog(defs []QuestDef) error {
	if len(defs) == 0 {
		return fmt.Errorf("quest catalog is empty")
	}

	batches := make(map[int]bool)
	names := make(map[string]bool)
	for _, d := range defs {
		if d.Batch < 1 {
			return fmt.Errorf("quest %q: batch %d is not 1-indexed", d.Name, d.Batch)
		}
		if d.Required < 1 {
			return fmt.Errorf("quest %q: required count %d must be at least 1", d.Name, d.Required)
		}
		if d.RewardXP < 0 || d.RewardCoins < 0 {
			return fmt.Errorf("quest %q: negative reward", d.Name)
		}
		key := questKey(d.Batch, d.Name)
		if names[key] {
			return fmt.Errorf("quest %q: duplicate name in batch %d", d.Name, d.Batch)
		}
		names[key] = true
		batches[d.Batch] = true
	}

	for b := 1; b <= len(batches); b++ {
		if !batches[b] {
			return fmt.Errorf("quest catalog: batch %d is missing (batches must be contiguous)", b)
		}
	}
	return nil
}

func questKey(batch int, name string) string {
	return fmt.Sprintf("%d/%s", batch, name)
}
