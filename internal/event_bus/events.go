package event_bus

import "time"

const (
	StatsUpdatedEvent  EventType = "stats.updated"
	PlanGeneratedEvent EventType = "plan.generated"
	TaskCompletedEvent EventType = "tracker.task.completed"
	ReminderFiredEvent EventType = "reminder.fired"
	FocusSessionEnded  EventType = "focus.session.ended"
	VoiceStateChanged  EventType = "voice.state.changed"
)

type StatsUpdated struct {
	UserId      int
	Level       int
	CurrentXP   int
	NextLevelXP int
	StreakDays  int
	LeveledUp   bool
}

// PlanGenerated is published after a generated plan replaced the stored plan of a day.
type PlanGenerated struct {
	UserId  int
	Date    string
	ItemIds []string
}

type TaskCompleted struct {
	UserId  int
	Date    string
	ItemId  string
	XP      int
	Minutes int
}

type ReminderFired struct {
	UserId   int
	Date     string
	ItemId   string
	Activity string
	Title    string
	Body     string
	FiredAt  time.Time
}

type FocusEnded struct {
	UserId         int
	Date           string
	ItemId         string
	ElapsedSeconds int
	XP             int
}

type VoiceState struct {
	UserId int
	From   string
	To     string
}
