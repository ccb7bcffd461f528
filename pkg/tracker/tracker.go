package tracker

import "slices"

type MarkKind string

const (
	KindDone     MarkKind = "done"
	KindReminder MarkKind = "reminder"
)

// Marks are the per-day sets of completed and reminder-armed schedule item ids.
type Marks struct {
	Done      []string
	Reminders []string
}

func (m Marks) IsDone(itemId string) bool {
	return slices.Contains(m.Done, itemId)
}

func (m Marks) HasReminder(itemId string) bool {
	return slices.Contains(m.Reminders, itemId)
}

// ToggleResult describes the marks of the day after a toggle.
type ToggleResult struct {
	Marks     Marks
	Done      bool
	Reminder  bool
	XPAwarded int
	// PermissionRequired is set when a reminder could not be armed because notifications
	// are not granted. The marks are unchanged in that case.
	PermissionRequired bool
}
