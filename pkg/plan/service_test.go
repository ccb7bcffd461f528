package plan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planDate = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func generatedPlan(focus string) DailyPlan {
	return DailyPlan{
		Date:          "2024-01-01",
		DayOfWeek:     "Monday",
		FocusOfTheDay: focus,
		Tips:          []string{"Drink water"},
		Schedule: []ScheduleItem{
			{Time: "04:00", Activity: "Wake Up", Category: CategoryHealth, Description: "Early rise"},
			{Time: "09:00", Activity: "GIS Lab", Category: "Fixed", Description: "School"},
			{Time: "13:00", Activity: "Chess", Category: "games", Description: "Unknown category"},
		},
	}
}

func setupService(t *testing.T) (*ServiceImpl, *RepositoryStub, *GeneratorStub, *event_bus.EventBus, context.Context) {
	t.Helper()
	repo := NewRepositoryStub()
	generator := NewGeneratorStub(generatedPlan("Spatial finance"))
	bus := event_bus.NewEventBus()
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC)}
	service := NewService(repo, generator, bus, clock)

	p := profile.Default()
	p.Id = 1
	p.Uid = "user-1"
	return service, repo, generator, bus, profile.WithProfile(context.Background(), p)
}

func TestServiceImpl_GetPlanUsesStoredPlan(t *testing.T) {
	service, _, generator, _, ctx := setupService(t)

	first, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)
	second, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)

	assert.Equal(t, 1, generator.Calls())
	assert.Equal(t, first, second)
}

func TestServiceImpl_GetPlanFinalizesGeneratedPlan(t *testing.T) {
	service, _, _, _, ctx := setupService(t)

	p, err := service.GetPlan(ctx, planDate, false)

	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", p.Date)
	assert.Equal(t, "Sunday", p.DayOfWeek)
	assert.False(t, p.Fallback)
	require.Len(t, p.Schedule, 3)
	assert.Equal(t, CategoryFixed, p.Schedule[1].Category)
	assert.Equal(t, CategoryRest, p.Schedule[2].Category)
	seen := map[string]bool{}
	for _, item := range p.Schedule {
		assert.NotEmpty(t, item.Id)
		assert.False(t, seen[item.Id], "duplicate id %s", item.Id)
		seen[item.Id] = true
	}
}

func TestServiceImpl_ForceReplacesStoredPlan(t *testing.T) {
	service, _, generator, _, ctx := setupService(t)
	_, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)

	generator.SetPlan(generatedPlan("Trading focus"))
	forced, err := service.GetPlan(ctx, planDate, true)
	require.NoError(t, err)
	cached, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)

	assert.Equal(t, 2, generator.Calls())
	assert.Equal(t, "Trading focus", forced.FocusOfTheDay)
	assert.Equal(t, forced, cached)
}

func TestServiceImpl_FallbackIsNotStored(t *testing.T) {
	service, repo, generator, _, ctx := setupService(t)
	generator.SetError(errors.New("gateway unavailable"))

	p, err := service.GetPlan(ctx, planDate, false)

	require.NoError(t, err)
	assert.True(t, p.Fallback)
	assert.Equal(t, "2024-03-10", p.Date)
	assert.Equal(t, "Sunday", p.DayOfWeek)
	assert.NotEmpty(t, p.Schedule)
	assert.Equal(t, 0, repo.Count())

	generator.SetPlan(generatedPlan("Recovered"))
	p, err = service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)
	assert.False(t, p.Fallback)
	assert.Equal(t, 2, generator.Calls())
}

func TestServiceImpl_FallbackItemIdsAreStable(t *testing.T) {
	service, _, generator, _, ctx := setupService(t)
	generator.SetError(errors.New("gateway unavailable"))

	first, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)
	second, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)

	require.True(t, first.Fallback)
	assert.Equal(t, first.ItemIds(), second.ItemIds())
	assert.Equal(t, "fallback-2024-03-10-0", first.Schedule[0].Id)
	nextDay := FallbackPlan(planDate.AddDate(0, 0, 1), time.Now())
	assert.NotEqual(t, first.ItemIds(), nextDay.ItemIds())
}

func TestServiceImpl_StoredOrFallback(t *testing.T) {
	service, _, _, _, ctx := setupService(t)

	p, err := service.StoredOrFallback(ctx, planDate)
	require.NoError(t, err)
	assert.True(t, p.Fallback)
	assert.Equal(t, FallbackPlan(planDate, time.Now()).ItemIds(), p.ItemIds())

	stored, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)
	p, err = service.StoredOrFallback(ctx, planDate)
	require.NoError(t, err)
	assert.Equal(t, stored, p)
}

func TestServiceImpl_ForceDuringPlainLoadGenerates(t *testing.T) {
	service, repo, generator, _, ctx := setupService(t)
	cached, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)
	generator.SetPlan(generatedPlan("Trading focus"))

	repo.HoldGet = make(chan struct{})
	plainDone := make(chan DailyPlan)
	go func() {
		p, err := service.GetPlan(ctx, planDate, false)
		assert.NoError(t, err)
		plainDone <- p
	}()
	require.Eventually(t, func() bool { return repo.Gets() == 2 }, time.Second, time.Millisecond)

	forced, err := service.GetPlan(ctx, planDate, true)
	require.NoError(t, err)
	close(repo.HoldGet)
	plain := <-plainDone

	assert.Equal(t, 2, generator.Calls())
	assert.Equal(t, "Trading focus", forced.FocusOfTheDay)
	assert.NotEqual(t, cached.ItemIds(), forced.ItemIds())
	assert.Equal(t, "Trading focus", plain.FocusOfTheDay)
}

func TestServiceImpl_EmptyGeneratedScheduleFallsBack(t *testing.T) {
	service, repo, generator, _, ctx := setupService(t)
	generator.SetPlan(DailyPlan{FocusOfTheDay: "Nothing"})

	p, err := service.GetPlan(ctx, planDate, false)

	require.NoError(t, err)
	assert.True(t, p.Fallback)
	assert.Equal(t, 0, repo.Count())
}

func TestServiceImpl_ConcurrentRequestsShareOneGeneration(t *testing.T) {
	service, _, generator, _, ctx := setupService(t)
	generator.Release = make(chan struct{})

	results := make([]DailyPlan, 5)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := service.GetPlan(ctx, planDate, true)
			assert.NoError(t, err)
			results[i] = p
		}()
	}
	// Let the goroutines reach the in-flight generation before releasing it.
	require.Eventually(t, func() bool { return generator.Calls() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(generator.Release)
	wg.Wait()

	assert.Equal(t, 1, generator.Calls())
	for _, p := range results {
		assert.Equal(t, results[0], p)
	}
}

func TestServiceImpl_PublishesPlanGenerated(t *testing.T) {
	service, _, generator, bus, ctx := setupService(t)
	var received []event_bus.PlanGenerated
	event_bus.SubscribeTyped(bus, event_bus.PlanGeneratedEvent, func(e event_bus.EventT[event_bus.PlanGenerated]) error {
		received = append(received, e.Data)
		return nil
	})

	p, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)
	generator.SetError(errors.New("down"))
	_, err = service.GetPlan(ctx, planDate, true)
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, 1, received[0].UserId)
	assert.Equal(t, "2024-03-10", received[0].Date)
	assert.Equal(t, p.ItemIds(), received[0].ItemIds)
}

func TestServiceImpl_FindAndDeletePlan(t *testing.T) {
	service, _, _, _, ctx := setupService(t)

	_, found, err := service.FindPlan(ctx, planDate)
	require.NoError(t, err)
	assert.False(t, found)

	stored, err := service.GetPlan(ctx, planDate, false)
	require.NoError(t, err)
	p, found, err := service.FindPlan(ctx, planDate)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stored, p)

	require.NoError(t, service.DeletePlan(ctx, planDate))
	_, found, err = service.FindPlan(ctx, planDate)
	require.NoError(t, err)
	assert.False(t, found)
}
