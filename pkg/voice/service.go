package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/pkg/profile"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidTransition = errors.New("invalid voice session transition")

type Service interface {
	Start(ctx context.Context, releasers ...Releaser) (Session, error)
	// Transition moves an active session to listening or speaking.
	Transition(ctx context.Context, to State) (Session, error)
	// Fail ends the session after a connection or audio failure.
	Fail(ctx context.Context, reason string) (StopResult, error)
	Stop(ctx context.Context) (StopResult, error)
	Current(ctx context.Context) (Session, error)
}

type activeSession struct {
	state     State
	releasers []Releaser
}

type ServiceImpl struct {
	eventBus *event_bus.EventBus
	mu       sync.Mutex
	sessions map[int]*activeSession
}

func NewService(eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		eventBus: eventBus,
		sessions: make(map[int]*activeSession),
	}
}

func (s *ServiceImpl) Start(ctx context.Context, releasers ...Releaser) (Session, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get current profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.sessions[userId]; ok {
		if current.state == StateConnecting {
			s.endLocked(ctx, userId, "start requested while connecting")
		}
		return s.sessionOf(userId), fmt.Errorf("%w: start from %s", ErrInvalidTransition, current.state)
	}
	s.sessions[userId] = &activeSession{state: StateConnecting, releasers: releasers}
	s.publish(ctx, userId, StateIdle, StateConnecting)
	return s.sessionOf(userId), nil
}

func (s *ServiceImpl) Transition(ctx context.Context, to State) (Session, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get current profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[userId]
	if !ok {
		return Session{State: StateIdle}, fmt.Errorf("%w: %s from idle", ErrInvalidTransition, to)
	}
	from := current.state
	allowed := (to == StateListening && (from == StateConnecting || from == StateSpeaking)) ||
		(to == StateSpeaking && from == StateListening)
	if !allowed {
		if from == StateConnecting {
			s.endLocked(ctx, userId, fmt.Sprintf("invalid transition to %s while connecting", to))
		}
		return s.sessionOf(userId), fmt.Errorf("%w: %s from %s", ErrInvalidTransition, to, from)
	}
	current.state = to
	s.publish(ctx, userId, from, to)
	return s.sessionOf(userId), nil
}

func (s *ServiceImpl) Fail(ctx context.Context, reason string) (StopResult, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return StopResult{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked(ctx, userId, "failure: "+reason), nil
}

func (s *ServiceImpl) Stop(ctx context.Context) (StopResult, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return StopResult{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked(ctx, userId, "stopped"), nil
}

func (s *ServiceImpl) Current(ctx context.Context) (Session, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionOf(userId), nil
}

// endLocked returns the user to idle and runs each releaser of the session once.
// The session is removed before releasing so no other exit path can see it again.
func (s *ServiceImpl) endLocked(ctx context.Context, userId int, reason string) StopResult {
	current, ok := s.sessions[userId]
	if !ok {
		return StopResult{Previous: StateIdle, Released: []string{}}
	}
	delete(s.sessions, userId)

	released := make([]string, 0, len(current.releasers))
	for _, r := range current.releasers {
		release(r)
		released = append(released, r.Name)
	}
	log.Debugf("voice session of user %d ended (%s), released %v", userId, reason, released)
	s.publish(ctx, userId, current.state, StateIdle)
	return StopResult{Previous: current.state, Released: released}
}

func release(r Releaser) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Errorf("releasing voice resource %s panicked: %v", r.Name, rec)
		}
	}()
	if r.Release != nil {
		r.Release()
	}
}

func (s *ServiceImpl) sessionOf(userId int) Session {
	current, ok := s.sessions[userId]
	if !ok {
		return Session{State: StateIdle, Resources: []string{}}
	}
	names := make([]string, 0, len(current.releasers))
	for _, r := range current.releasers {
		names = append(names, r.Name)
	}
	return Session{State: current.state, Persona: Persona, VoiceName: VoiceName, Resources: names}
}

func (s *ServiceImpl) publish(ctx context.Context, userId int, from State, to State) {
	s.eventBus.Emit(ctx, event_bus.VoiceStateChanged, event_bus.VoiceState{
		UserId: userId,
		From:   string(from),
		To:     string(to),
	})
}
