package focus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/tracker"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoActiveSession = errors.New("no active focus session")
	ErrItemRequired    = errors.New("focus session needs a schedule item")
)

type Completer interface {
	CompleteWithFocus(ctx context.Context, date time.Time, itemId string, xp int, minutes int) (tracker.ToggleResult, error)
}

type Service interface {
	Start(ctx context.Context, date time.Time, itemId string) (Status, error)
	Toggle(ctx context.Context) (Status, error)
	End(ctx context.Context) (EndResult, error)
	Status(ctx context.Context) (Status, error)
}

type ServiceImpl struct {
	completer Completer
	eventBus  *event_bus.EventBus
	clock     utils.Clock
	mu        sync.Mutex
	sessions  map[int]*session
}

func NewService(completer Completer, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		completer: completer,
		eventBus:  eventBus,
		clock:     clock,
		sessions:  make(map[int]*session),
	}
}

// Start begins a running session on the item. A session already in progress is
// discarded without reward.
func (s *ServiceImpl) Start(ctx context.Context, date time.Time, itemId string) (Status, error) {
	if strings.TrimSpace(itemId) == "" {
		return Status{}, ErrItemRequired
	}
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get current profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if old, ok := s.sessions[userId]; ok {
		log.Debugf("discarding focus session on item %s for user %d after %s", old.itemId, userId, old.elapsed(now))
	}
	sess := &session{date: date, itemId: itemId, state: StateRunning, runningSince: now}
	s.sessions[userId] = sess
	return statusOf(sess, now), nil
}

// Toggle pauses a running session or resumes a paused one.
func (s *ServiceImpl) Toggle(ctx context.Context) (Status, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get current profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userId]
	if !ok {
		return Status{State: StateIdle}, ErrNoActiveSession
	}
	now := s.clock.Now()
	switch sess.state {
	case StateRunning:
		sess.accumulated += now.Sub(sess.runningSince)
		sess.state = StatePaused
	case StatePaused:
		sess.runningSince = now
		sess.state = StateRunning
	}
	return statusOf(sess, now), nil
}

// End stops the session and credits the item. Ending when idle is a no-op.
func (s *ServiceImpl) End(ctx context.Context) (EndResult, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return EndResult{}, fmt.Errorf("failed to get current profile: %w", err)
	}

	s.mu.Lock()
	sess, ok := s.sessions[userId]
	if !ok {
		s.mu.Unlock()
		return EndResult{}, nil
	}
	delete(s.sessions, userId)
	elapsed := sess.elapsed(s.clock.Now())
	s.mu.Unlock()

	result := EndResult{
		ItemId:         sess.itemId,
		ElapsedSeconds: int(elapsed / time.Second),
		Minutes:        int(elapsed / time.Minute),
		XP:             XPFor(elapsed),
	}
	completion, err := s.completer.CompleteWithFocus(ctx, sess.date, sess.itemId, result.XP, result.Minutes)
	if err != nil {
		log.Errorf("failed to credit focus session on item %s for user %d: %v", sess.itemId, userId, err)
		return result, err
	}
	result.Done = completion.Done
	log.Debugf("focus session on item %s for user %d ended after %ds, %d XP", sess.itemId, userId, result.ElapsedSeconds, result.XP)

	s.eventBus.Emit(ctx, event_bus.FocusSessionEnded, event_bus.FocusEnded{
		UserId:         userId,
		Date:           utils.DateKey(sess.date).Format(utils.DateLayout),
		ItemId:         sess.itemId,
		ElapsedSeconds: result.ElapsedSeconds,
		XP:             result.XP,
	})
	return result, nil
}

func (s *ServiceImpl) Status(ctx context.Context) (Status, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userId]
	if !ok {
		return Status{State: StateIdle}, nil
	}
	return statusOf(sess, s.clock.Now()), nil
}

func statusOf(sess *session, now time.Time) Status {
	return Status{
		State:          sess.state,
		Date:           sess.date,
		ItemId:         sess.itemId,
		ElapsedSeconds: int(sess.elapsed(now) / time.Second),
	}
}
