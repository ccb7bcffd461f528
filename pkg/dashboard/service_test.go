package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/stats"
	"github.com/frankotendo/geolevelup/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service *ServiceImpl
	plans   *plan.ServiceImpl
	tracker *tracker.ServiceImpl
	ctx     context.Context
	today   time.Time
}

func setup(t *testing.T) fixture {
	t.Helper()
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)}
	statsService := stats.NewService(stats.NewRepositoryStub(), bus, clock)
	generator := plan.NewGeneratorStub(plan.DailyPlan{
		FocusOfTheDay: "Spatial finance",
		Schedule: []plan.ScheduleItem{
			{Time: "04:00", Activity: "Wake Up", Category: plan.CategoryHealth},
			{Time: "05:00", Activity: "GIS", Category: plan.CategoryLearning},
		},
	})
	planService := plan.NewService(plan.NewRepositoryStub(), generator, bus, clock)
	trackerService := tracker.NewService(tracker.NewRepositoryStub(), statsService, bus)

	p := profile.Default()
	p.Id = 5
	p.Name = "Kofi Boateng"
	return fixture{
		service: NewService(statsService, planService, trackerService, clock),
		plans:   planService,
		tracker: trackerService,
		ctx:     profile.WithProfile(context.Background(), p),
		today:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestServiceImpl_SummaryWithoutPlan(t *testing.T) {
	f := setup(t)

	summary, err := f.service.Summary(f.ctx)

	require.NoError(t, err)
	assert.Equal(t, "Kofi", summary.FirstName)
	assert.Equal(t, "MyNexRyde", summary.BusinessName)
	assert.Equal(t, 4, summary.GoalCount)
	assert.Equal(t, 1, summary.Stats.Level)
	assert.False(t, summary.HasPlan)
	assert.Equal(t, "2024-03-10", summary.Date)
}

func TestServiceImpl_SummaryCountsCompletedPlanItems(t *testing.T) {
	f := setup(t)
	dailyPlan, err := f.plans.GetPlan(f.ctx, f.today, false)
	require.NoError(t, err)
	_, err = f.tracker.ToggleCompletion(f.ctx, f.today, dailyPlan.Schedule[0].Id, 250)
	require.NoError(t, err)

	summary, err := f.service.Summary(f.ctx)

	require.NoError(t, err)
	assert.True(t, summary.HasPlan)
	assert.Equal(t, "Spatial finance", summary.FocusOfTheDay)
	assert.Equal(t, 2, summary.ScheduledItems)
	assert.Equal(t, 1, summary.CompletedItems)
	assert.Equal(t, 50, summary.ProgressPercent)
}

func TestHandler_GetSummary(t *testing.T) {
	f := setup(t)
	handler := NewHandler(f.service)

	rr := httptest.NewRecorder()
	handler.GetSummary(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil).WithContext(f.ctx))

	require.Equal(t, http.StatusOK, rr.Code)
	var dto SummaryDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
	assert.Equal(t, "Kofi Boateng", dto.Name)
	assert.Equal(t, 500, dto.Stats.NextLevelXP)

	rr = httptest.NewRecorder()
	handler.GetSummary(rr, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
