package focus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type completion struct {
	itemId  string
	xp      int
	minutes int
}

type completerStub struct {
	calls []completion
	done  map[string]bool
	err   error
}

func (c *completerStub) CompleteWithFocus(ctx context.Context, date time.Time, itemId string, xp int, minutes int) (tracker.ToggleResult, error) {
	if c.err != nil {
		return tracker.ToggleResult{}, c.err
	}
	c.calls = append(c.calls, completion{itemId, xp, minutes})
	c.done[itemId] = true
	return tracker.ToggleResult{Done: true}, nil
}

var day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*ServiceImpl, *completerStub, *utils.MockClock, context.Context) {
	t.Helper()
	completer := &completerStub{done: map[string]bool{}}
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)}
	p := profile.Default()
	p.Id = 9
	return NewService(completer, event_bus.NewEventBus(), clock), completer, clock, profile.WithProfile(context.Background(), p)
}

func TestXPFor(t *testing.T) {
	assert.Equal(t, 50, XPFor(0))
	assert.Equal(t, 50, XPFor(59*time.Second))
	assert.Equal(t, 52, XPFor(time.Minute))
	assert.Equal(t, 74, XPFor(12*time.Minute+30*time.Second))
}

func TestServiceImpl_RunPauseResumeEnd(t *testing.T) {
	service, completer, clock, ctx := setup(t)

	status, err := service.Start(ctx, day, "item-1")
	require.NoError(t, err)
	assert.Equal(t, StateRunning, status.State)

	clock.Advance(10 * time.Minute)
	status, err = service.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatePaused, status.State)
	assert.Equal(t, 600, status.ElapsedSeconds)

	clock.Advance(30 * time.Minute)
	status, err = service.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 600, status.ElapsedSeconds)

	status, err = service.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, status.State)
	clock.Advance(2*time.Minute + 45*time.Second)

	result, err := service.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, 765, result.ElapsedSeconds)
	assert.Equal(t, 12, result.Minutes)
	assert.Equal(t, 74, result.XP)
	assert.True(t, result.Done)
	assert.Equal(t, []completion{{"item-1", 74, 12}}, completer.calls)

	status, err = service.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, status.State)
}

func TestServiceImpl_EndWhenIdleIsNoop(t *testing.T) {
	service, completer, _, ctx := setup(t)

	result, err := service.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, EndResult{}, result)

	result, err = service.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.XP)
	assert.Empty(t, completer.calls)
}

func TestServiceImpl_ToggleWithoutSession(t *testing.T) {
	service, _, _, ctx := setup(t)

	_, err := service.Toggle(ctx)

	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestServiceImpl_StartOverActiveSessionDiscardsIt(t *testing.T) {
	service, completer, clock, ctx := setup(t)
	_, err := service.Start(ctx, day, "item-1")
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)

	_, err = service.Start(ctx, day, "item-2")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	result, err := service.End(ctx)

	require.NoError(t, err)
	assert.Equal(t, "item-2", result.ItemId)
	assert.Equal(t, 52, result.XP)
	assert.Equal(t, []completion{{"item-2", 52, 1}}, completer.calls)
}

func TestServiceImpl_StartRequiresItem(t *testing.T) {
	service, _, _, ctx := setup(t)

	_, err := service.Start(ctx, day, " ")

	assert.ErrorIs(t, err, ErrItemRequired)
}

func TestServiceImpl_SessionsArePerUser(t *testing.T) {
	service, _, _, ctx := setup(t)
	other := profile.Default()
	other.Id = 10
	otherCtx := profile.WithProfile(context.Background(), other)

	_, err := service.Start(ctx, day, "item-1")
	require.NoError(t, err)

	status, err := service.Status(otherCtx)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, status.State)
}

func TestServiceImpl_EndReportsCreditFailure(t *testing.T) {
	service, completer, _, ctx := setup(t)
	_, err := service.Start(ctx, day, "item-1")
	require.NoError(t, err)
	completer.err = errors.New("stats unavailable")

	_, err = service.End(ctx)
	assert.Error(t, err)

	status, err := service.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, status.State)
}
