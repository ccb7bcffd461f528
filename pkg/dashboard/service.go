package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/stats"
	"github.com/frankotendo/geolevelup/pkg/tracker"
)

type StatsReader interface {
	GetStats(ctx context.Context) (stats.UserStats, error)
}

type PlanFinder interface {
	FindPlan(ctx context.Context, date time.Time) (plan.DailyPlan, bool, error)
}

type MarksReader interface {
	GetMarks(ctx context.Context, date time.Time) (tracker.Marks, error)
}

type Summary struct {
	Name            string
	FirstName       string
	BusinessName    string
	GoalCount       int
	Stats           stats.UserStats
	ProgressPercent int
	Date            string
	HasPlan         bool
	FocusOfTheDay   string
	ScheduledItems  int
	CompletedItems  int
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	stats StatsReader
	plans PlanFinder
	marks MarksReader
	clock utils.Clock
}

func NewService(stats StatsReader, plans PlanFinder, marks MarksReader, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{stats: stats, plans: plans, marks: marks, clock: clock}
}

// Summary reports today's standing. It reads only stored data and never triggers plan
// generation.
func (s *ServiceImpl) Summary(ctx context.Context) (Summary, error) {
	p, err := profile.Current(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	today := utils.StartOfDay(s.clock.Now(), p.Location())

	userStats, err := s.stats.GetStats(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		Name:            p.Name,
		FirstName:       p.FirstName(),
		BusinessName:    p.BusinessName,
		GoalCount:       len(p.Goals),
		Stats:           userStats,
		ProgressPercent: stats.ProgressPercent(userStats),
		Date:            today.Format(utils.DateLayout),
	}

	dailyPlan, found, err := s.plans.FindPlan(ctx, today)
	if err != nil {
		return Summary{}, err
	}
	marks, err := s.marks.GetMarks(ctx, today)
	if err != nil {
		return Summary{}, err
	}
	if !found {
		summary.CompletedItems = len(marks.Done)
		return summary, nil
	}

	summary.HasPlan = true
	summary.FocusOfTheDay = dailyPlan.FocusOfTheDay
	summary.ScheduledItems = len(dailyPlan.Schedule)
	for _, item := range dailyPlan.Schedule {
		if marks.IsDone(item.Id) {
			summary.CompletedItems++
		}
	}
	return summary, nil
}
