package stats

import "time"

// XPPerLevel scales the XP threshold: level N needs N*XPPerLevel XP to advance.
const XPPerLevel = 500

// UserStats is the gamification record of one user.
type UserStats struct {
	Level               int
	CurrentXP           int
	NextLevelXP         int
	StreakDays          int
	LastActiveDate      time.Time
	TotalTasksCompleted int
	TotalFocusMinutes   int
}

// Initial returns the record of a user who has never earned XP.
func Initial(now time.Time) UserStats {
	return UserStats{
		Level:          1,
		CurrentXP:      0,
		NextLevelXP:    XPPerLevel,
		StreakDays:     0,
		LastActiveDate: now,
	}
}

// IsValid reports whether s satisfies the leveling invariants.
func (s UserStats) IsValid() bool {
	return s.Level >= 1 &&
		s.CurrentXP >= 0 &&
		s.NextLevelXP == s.Level*XPPerLevel &&
		s.CurrentXP < s.NextLevelXP &&
		s.StreakDays >= 0 &&
		s.TotalTasksCompleted >= 0 &&
		s.TotalFocusMinutes >= 0 &&
		!s.LastActiveDate.IsZero()
}
