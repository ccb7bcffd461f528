package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Generator produces a fresh plan for the profile and day.
type Generator interface {
	GenerateDailyPlan(ctx context.Context, p profile.Profile, date time.Time) (DailyPlan, error)
}

type Service interface {
	// GetPlan returns the stored plan for date, generating one when nothing is stored or
	// force is set. A failed generation yields the fallback plan, which is not stored.
	GetPlan(ctx context.Context, date time.Time, force bool) (DailyPlan, error)
	// FindPlan returns only a stored plan and never generates.
	FindPlan(ctx context.Context, date time.Time) (DailyPlan, bool, error)
	// StoredOrFallback returns the stored plan, or the fallback plan when none is stored.
	// It never generates.
	StoredOrFallback(ctx context.Context, date time.Time) (DailyPlan, error)
	DeletePlan(ctx context.Context, date time.Time) error
}

type ServiceImpl struct {
	repo      Repository
	generator Generator
	eventBus  *event_bus.EventBus
	clock     utils.Clock
	inflight  singleflight.Group
}

func NewService(repo Repository, generator Generator, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		repo:      repo,
		generator: generator,
		eventBus:  eventBus,
		clock:     clock,
	}
}

func (s *ServiceImpl) GetPlan(ctx context.Context, date time.Time, force bool) (DailyPlan, error) {
	p, err := profile.Current(ctx)
	if err != nil {
		return DailyPlan{}, fmt.Errorf("failed to get current profile: %w", err)
	}

	// Callers for the same day share one load-or-generate run. Forced runs have their own
	// key so they never receive a cached plan read by a plain request. The run outlives a
	// cancelled first caller so the others still get a result.
	key := fmt.Sprintf("%d/%s", p.Id, utils.DateKey(date).Format(utils.DateLayout))
	if force {
		key += "/force"
	}
	runCtx := context.WithoutCancel(ctx)
	result, err, shared := s.inflight.Do(key, func() (any, error) {
		return s.loadOrGenerate(runCtx, p, date, force)
	})
	if shared {
		log.Debugf("plan request for %s shared an in-flight run", key)
	}
	if err != nil {
		return DailyPlan{}, err
	}
	return result.(DailyPlan), nil
}

func (s *ServiceImpl) loadOrGenerate(ctx context.Context, p profile.Profile, date time.Time, force bool) (DailyPlan, error) {
	if !force {
		stored, err := s.repo.GetPlan(ctx, p.Id, date)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, ErrPlanNotFound) {
			log.Warnf("failed to read stored plan for user %d, regenerating: %v", p.Id, err)
		}
	}

	generated, err := s.generator.GenerateDailyPlan(ctx, p, date)
	if err != nil {
		log.Warnf("plan generation for user %d on %s failed, using fallback: %v", p.Id, date.Format(utils.DateLayout), err)
		return FallbackPlan(date, s.clock.Now()), nil
	}
	if len(generated.Schedule) == 0 {
		log.Warnf("generated plan for user %d on %s has no schedule, using fallback", p.Id, date.Format(utils.DateLayout))
		return FallbackPlan(date, s.clock.Now()), nil
	}

	plan := finalize(generated, date, s.clock.Now())
	if err := s.repo.StorePlan(ctx, p.Id, date, plan); err != nil {
		log.Errorf("failed to store plan for user %d: %v", p.Id, err)
		return DailyPlan{}, err
	}
	log.Debugf("Stored new plan for user %d on %s with %d items", p.Id, plan.Date, len(plan.Schedule))

	s.eventBus.Emit(ctx, event_bus.PlanGeneratedEvent, event_bus.PlanGenerated{
		UserId:  p.Id,
		Date:    plan.Date,
		ItemIds: plan.ItemIds(),
	})
	return plan, nil
}

func (s *ServiceImpl) FindPlan(ctx context.Context, date time.Time) (DailyPlan, bool, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return DailyPlan{}, false, fmt.Errorf("failed to get current profile: %w", err)
	}
	stored, err := s.repo.GetPlan(ctx, userId, date)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return DailyPlan{}, false, nil
		}
		return DailyPlan{}, false, err
	}
	return stored, true, nil
}

func (s *ServiceImpl) StoredOrFallback(ctx context.Context, date time.Time) (DailyPlan, error) {
	stored, found, err := s.FindPlan(ctx, date)
	if err != nil {
		return DailyPlan{}, err
	}
	if !found {
		return FallbackPlan(date, s.clock.Now()), nil
	}
	return stored, nil
}

func (s *ServiceImpl) DeletePlan(ctx context.Context, date time.Time) error {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.DeletePlan(ctx, userId, date)
}
