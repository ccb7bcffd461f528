package stats

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	log "github.com/sirupsen/logrus"
)

// Service is the only way XP enters the system.
type Service interface {
	GetStats(ctx context.Context) (UserStats, error)
	AwardXP(ctx context.Context, amount int, focusMinutes int) (UserStats, error)
	ResetStats(ctx context.Context) error
}

// Awarder is the narrow view other packages need to grant XP.
type Awarder interface {
	AwardXP(ctx context.Context, amount int, focusMinutes int) (UserStats, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
	locks    *utils.KeyedMutex
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		eventBus: eventBus,
		clock:    clock,
		locks:    utils.NewKeyedMutex(),
	}
}

func (s *ServiceImpl) GetStats(ctx context.Context) (UserStats, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return UserStats{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.load(ctx, userId), nil
}

func (s *ServiceImpl) AwardXP(ctx context.Context, amount int, focusMinutes int) (UserStats, error) {
	p, err := profile.Current(ctx)
	if err != nil {
		return UserStats{}, fmt.Errorf("failed to get current profile: %w", err)
	}

	unlock := s.locks.Lock(strconv.Itoa(p.Id))
	defer unlock()

	current := s.load(ctx, p.Id)
	updated, err := Award(current, amount, focusMinutes, s.clock.Now(), p.Location())
	if err != nil {
		return current, err
	}
	if err := s.repo.StoreStats(ctx, p.Id, updated); err != nil {
		log.Errorf("failed to store stats for user %d: %v", p.Id, err)
		return current, err
	}
	log.Debugf("Awarded %d XP (%d focus minutes) to user %d: level %d, %d/%d XP, streak %d",
		amount, focusMinutes, p.Id, updated.Level, updated.CurrentXP, updated.NextLevelXP, updated.StreakDays)

	s.eventBus.Emit(ctx, event_bus.StatsUpdatedEvent, event_bus.StatsUpdated{
		UserId:      p.Id,
		Level:       updated.Level,
		CurrentXP:   updated.CurrentXP,
		NextLevelXP: updated.NextLevelXP,
		StreakDays:  updated.StreakDays,
		LeveledUp:   updated.Level > current.Level,
	})
	return updated, nil
}

func (s *ServiceImpl) ResetStats(ctx context.Context) error {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current profile: %w", err)
	}
	unlock := s.locks.Lock(strconv.Itoa(userId))
	defer unlock()

	if err := s.repo.DeleteStats(ctx, userId); err != nil {
		return err
	}
	initial := Initial(s.clock.Now())
	s.eventBus.Emit(ctx, event_bus.StatsUpdatedEvent, event_bus.StatsUpdated{
		UserId:      userId,
		Level:       initial.Level,
		CurrentXP:   initial.CurrentXP,
		NextLevelXP: initial.NextLevelXP,
	})
	return nil
}

// load returns the stored record, or the initial one when nothing usable is stored.
func (s *ServiceImpl) load(ctx context.Context, userId int) UserStats {
	stored, err := s.repo.GetStats(ctx, userId)
	if err != nil {
		if !errors.Is(err, ErrStatsNotFound) {
			log.Warnf("failed to read stats for user %d, starting from defaults: %v", userId, err)
		}
		return Initial(s.clock.Now())
	}
	if !stored.IsValid() {
		log.Warnf("stored stats for user %d are inconsistent (%+v), starting from defaults", userId, stored)
		return Initial(s.clock.Now())
	}
	return stored
}
