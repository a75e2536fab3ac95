// Package event implements the in-process progression event bus.
//
// Signals are fire-and-forget and delivered only to same-session
// subscribers. The engine consumes the calendar/app signals and produces
// the progression ones.
package event

// Type identifies a named signal on the bus.
type Type string

const (
	// Consumed by the engine.
	TypeCalendarEventCount    Type = "calendar.event_count"
	TypeScheduledEventCount   Type = "calendar.scheduled_completed_count"
	TypeGraphUpdated          Type = "calendar.graph_updated"
	TypeDailySummaryViewed    Type = "calendar.daily_summary_viewed"
	TypeAppForegrounded       Type = "app.foregrounded"

	// Produced by the engine.
	TypeProfileUpdated     Type = "profile.updated"
	TypeLevelUp            Type = "profile.level_up"
	TypeQuestCompleted     Type = "quest.completed"
	TypeBatchUnlocked      Type = "quest.batch_unlocked"
	TypeStreakPopupReady   Type = "streak.popup_ready"
	TypePetRevealed        Type = "pet.revealed"
	TypeAchievementReached Type = "achievement.reached"
)

// CalendarCountPayload carries a running total supplied by the calendar
// layer (events logged so far, or scheduled events completed so far).
type CalendarCountPayload struct {
	Total int `json:"total"`
}

// GraphUpdatedPayload names the profile graph field the user filled in.
type GraphUpdatedPayload struct {
	Field string `json:"field"`
}

// ProfileUpdatedPayload is a snapshot of the profile after a mutation.
type ProfileUpdatedPayload struct {
	Name  string  `json:"name"`
	Level int     `json:"level"`
	XP    float64 `json:"xp"`
	Coins int     `json:"coins"`
}

// LevelUpPayload describes a level transition. ReachedLevelTwo marks the
// distinguished first level-up the celebration flow keys off of.
type LevelUpPayload struct {
	From            int  `json:"from"`
	To              int  `json:"to"`
	ReachedLevelTwo bool `json:"reachedLevelTwo"`
}

// QuestCompletedPayload identifies a quest that just reached its target.
type QuestCompletedPayload struct {
	Quest string `json:"quest"`
	Batch int    `json:"batch"`
}

// BatchUnlockedPayload carries the newly unlocked batch number.
type BatchUnlockedPayload struct {
	Batch int `json:"batch"`
}

// StreakPopupPayload carries the streak value to celebrate.
type StreakPopupPayload struct {
	CurrentStreak int `json:"currentStreak"`
}

// PetRevealedPayload identifies a pet that finished hatching and was
// revealed by the user.
type PetRevealedPayload struct {
	PetID string `json:"petId"`
	Name  string `json:"name"`
}

// AchievementPayload identifies a milestone tier that was just reached.
type AchievementPayload struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}
