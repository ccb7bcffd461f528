package stats

import (
	"errors"
	"math"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
)

var ErrNegativeAward = errors.New("xp and focus minutes must not be negative")

// Award applies one XP award to s and returns the new record. It is pure: now and loc
// decide which calendar day the award counts for.
//
// The streak follows the calendar-day distance to the last active day: same day keeps it,
// the next day extends it, a longer gap restarts it at 1. A last active day in the future
// (the clock went backwards) is treated like the same day and is not moved back.
func Award(s UserStats, amount int, focusMinutes int, now time.Time, loc *time.Location) (UserStats, error) {
	if amount < 0 || focusMinutes < 0 {
		return s, ErrNegativeAward
	}

	diff := utils.CalendarDaysBetween(s.LastActiveDate, now, loc)
	switch {
	case diff == 1:
		s.StreakDays++
	case diff > 1:
		s.StreakDays = 1
	}

	if diff >= 0 {
		s.LastActiveDate = now
	}
	s.TotalTasksCompleted++
	s.TotalFocusMinutes += focusMinutes
	s.CurrentXP += amount

	return normalize(s), nil
}

// normalize rolls surplus XP into levels; one large award may cross several levels.
func normalize(s UserStats) UserStats {
	if s.Level < 1 {
		s.Level = 1
	}
	s.NextLevelXP = s.Level * XPPerLevel
	for s.CurrentXP >= s.NextLevelXP {
		s.CurrentXP -= s.NextLevelXP
		s.Level++
		s.NextLevelXP = s.Level * XPPerLevel
	}
	return s
}

// ProgressPercent is the share of the current level already earned, rounded, in [0,100].
func ProgressPercent(s UserStats) int {
	if s.NextLevelXP <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(s.CurrentXP) / float64(s.NextLevelXP)))
	return max(0, min(100, p))
}
