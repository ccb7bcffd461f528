package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func TestAward_KeepsXPBelowThreshold(t *testing.T) {
	for _, amount := range []int{0, 1, 49, 499, 500, 501, 1499, 1500, 7777, 123456} {
		s, err := Award(Initial(day), amount, 0, day, time.UTC)
		require.NoError(t, err)
		assert.True(t, s.IsValid(), "amount %d produced %+v", amount, s)
		assert.Less(t, s.CurrentXP, s.NextLevelXP)
	}
}

func TestAward_ExactRemainderLevelsUpOnce(t *testing.T) {
	start := Initial(day)
	start.Level = 3
	start.NextLevelXP = 1500
	start.CurrentXP = 1200

	s, err := Award(start, start.NextLevelXP-start.CurrentXP, 0, day, time.UTC)

	require.NoError(t, err)
	assert.Equal(t, 4, s.Level)
	assert.Equal(t, 0, s.CurrentXP)
	assert.Equal(t, 2000, s.NextLevelXP)
}

func TestAward_MultipleLevelUps(t *testing.T) {
	// 1500 = 500 (level 1) + 1000 (level 2); 0 left towards level 3's 1500.
	s, err := Award(Initial(day), 1500, 0, day, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 0, s.CurrentXP)
	assert.Equal(t, 1500, s.NextLevelXP)

	// 3000 = 500 + 1000 + 1500 reaches level 4 exactly.
	s, err = Award(Initial(day), 3000, 0, day, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Level)
	assert.Equal(t, 0, s.CurrentXP)
	assert.Equal(t, 2000, s.NextLevelXP)
}

func TestAward_Streak(t *testing.T) {
	tests := []struct {
		name           string
		lastActive     time.Time
		now            time.Time
		streak         int
		wantStreak     int
		wantLastActive time.Time
	}{
		{"same day keeps streak", day, day.Add(5 * time.Hour), 4, 4, day.Add(5 * time.Hour)},
		{"next day extends streak", day, day.AddDate(0, 0, 1), 4, 5, day.AddDate(0, 0, 1)},
		{"next day shortly after midnight", time.Date(2024, 3, 10, 23, 50, 0, 0, time.UTC), time.Date(2024, 3, 11, 0, 5, 0, 0, time.UTC), 1, 2, time.Date(2024, 3, 11, 0, 5, 0, 0, time.UTC)},
		{"two days resets streak", day, day.AddDate(0, 0, 2), 4, 1, day.AddDate(0, 0, 2)},
		{"three days resets streak", day, day.AddDate(0, 0, 3), 9, 1, day.AddDate(0, 0, 3)},
		{"first award of a new user", day, day, 0, 0, day},
		{"clock moved backwards", day, day.AddDate(0, 0, -2), 3, 3, day},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := Initial(tt.lastActive)
			start.StreakDays = tt.streak

			s, err := Award(start, 10, 0, tt.now, time.UTC)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStreak, s.StreakDays)
			assert.Equal(t, tt.wantLastActive, s.LastActiveDate)
		})
	}
}

func TestAward_UsesProfileTimezone(t *testing.T) {
	auckland, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	// 10:00 UTC on the 10th and 11:30 UTC on the 10th are different days in Auckland (UTC+13).
	lastActive := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 10, 11, 30, 0, 0, time.UTC)
	start := Initial(lastActive)
	start.StreakDays = 2

	sameDayUTC, err := Award(start, 1, 0, now, time.UTC)
	require.NoError(t, err)
	nextDayAuckland, err := Award(start, 1, 0, now, auckland)
	require.NoError(t, err)

	assert.Equal(t, 2, sameDayUTC.StreakDays)
	assert.Equal(t, 3, nextDayAuckland.StreakDays)
}

func TestAward_Totals(t *testing.T) {
	s, err := Award(Initial(day), 50, 25, day, time.UTC)
	require.NoError(t, err)
	s, err = Award(s, 50, 0, day, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalTasksCompleted)
	assert.Equal(t, 25, s.TotalFocusMinutes)
	assert.Equal(t, 100, s.CurrentXP)
}

func TestAward_RejectsNegativeInput(t *testing.T) {
	start := Initial(day)

	s, err := Award(start, -1, 0, day, time.UTC)
	assert.ErrorIs(t, err, ErrNegativeAward)
	assert.Equal(t, start, s)

	_, err = Award(start, 1, -5, day, time.UTC)
	assert.ErrorIs(t, err, ErrNegativeAward)
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		current, next, want int
	}{
		{0, 500, 0},
		{250, 500, 50},
		{1, 500, 0},
		{3, 500, 1},
		{499, 500, 100},
		{333, 1000, 33},
		{2500, 1000, 100},
		{10, 0, 0},
	}
	for _, tt := range tests {
		got := ProgressPercent(UserStats{CurrentXP: tt.current, NextLevelXP: tt.next})
		assert.Equal(t, tt.want, got, "current=%d next=%d", tt.current, tt.next)
	}
}
