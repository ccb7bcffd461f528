package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/stats"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetMarks(ctx context.Context, date time.Time) (Marks, error)
	// ToggleCompletion flips the item's done mark. Marking it done awards xp; unmarking
	// never takes XP back.
	ToggleCompletion(ctx context.Context, date time.Time, itemId string, xp int) (ToggleResult, error)
	// ToggleReminder flips the item's reminder mark when notifications are granted.
	ToggleReminder(ctx context.Context, date time.Time, itemId string) (ToggleResult, error)
	// CompleteWithFocus marks the item done if needed and always awards xp and minutes.
	CompleteWithFocus(ctx context.Context, date time.Time, itemId string, xp int, minutes int) (ToggleResult, error)
}

type ServiceImpl struct {
	repo     Repository
	awarder  stats.Awarder
	eventBus *event_bus.EventBus
	locks    *utils.KeyedMutex
}

func NewService(repo Repository, awarder stats.Awarder, eventBus *event_bus.EventBus) *ServiceImpl {
	service := &ServiceImpl{
		repo:     repo,
		awarder:  awarder,
		eventBus: eventBus,
		locks:    utils.NewKeyedMutex(),
	}
	if eventBus != nil {
		event_bus.SubscribeTyped(
			eventBus,
			event_bus.PlanGeneratedEvent,
			func(e event_bus.EventT[event_bus.PlanGenerated]) error {
				pruned, err := service.pruneOrphans(e.Context(), e.Data)
				if err != nil {
					log.Errorf("failed to prune marks after plan regeneration: %v", err)
					return err
				}
				if pruned > 0 {
					log.Debugf("pruned %d orphaned marks for user %d on %s", pruned, e.Data.UserId, e.Data.Date)
				}
				return nil
			},
		)
	}
	return service
}

func (s *ServiceImpl) lock(userId int, date time.Time) func() {
	return s.locks.Lock(fmt.Sprintf("%d/%s", userId, utils.DateKey(date).Format(utils.DateLayout)))
}

func (s *ServiceImpl) GetMarks(ctx context.Context, date time.Time) (Marks, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return Marks{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.GetMarks(ctx, userId, date)
}

func (s *ServiceImpl) ToggleCompletion(ctx context.Context, date time.Time, itemId string, xp int) (ToggleResult, error) {
	if xp < 0 {
		return ToggleResult{}, stats.ErrNegativeAward
	}
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	unlock := s.lock(userId, date)
	defer unlock()

	marks, err := s.repo.GetMarks(ctx, userId, date)
	if err != nil {
		return ToggleResult{}, err
	}

	if marks.IsDone(itemId) {
		if err := s.repo.RemoveMark(ctx, userId, date, KindDone, itemId); err != nil {
			return ToggleResult{}, err
		}
		return s.result(ctx, userId, date, itemId, 0)
	}

	if err := s.markDoneAndAward(ctx, userId, date, itemId, xp, 0); err != nil {
		return ToggleResult{}, err
	}
	return s.result(ctx, userId, date, itemId, xp)
}

func (s *ServiceImpl) ToggleReminder(ctx context.Context, date time.Time, itemId string) (ToggleResult, error) {
	p, err := profile.Current(ctx)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	unlock := s.lock(p.Id, date)
	defer unlock()

	if p.Notifications != profile.PermissionGranted {
		log.Debugf("reminder for item %s not armed, notification permission is %s", itemId, p.Notifications)
		result, err := s.result(ctx, p.Id, date, itemId, 0)
		result.PermissionRequired = true
		return result, err
	}

	marks, err := s.repo.GetMarks(ctx, p.Id, date)
	if err != nil {
		return ToggleResult{}, err
	}
	if marks.HasReminder(itemId) {
		err = s.repo.RemoveMark(ctx, p.Id, date, KindReminder, itemId)
	} else {
		err = s.repo.AddMark(ctx, p.Id, date, KindReminder, itemId)
	}
	if err != nil {
		return ToggleResult{}, err
	}
	return s.result(ctx, p.Id, date, itemId, 0)
}

func (s *ServiceImpl) CompleteWithFocus(ctx context.Context, date time.Time, itemId string, xp int, minutes int) (ToggleResult, error) {
	if xp < 0 || minutes < 0 {
		return ToggleResult{}, stats.ErrNegativeAward
	}
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	unlock := s.lock(userId, date)
	defer unlock()

	marks, err := s.repo.GetMarks(ctx, userId, date)
	if err != nil {
		return ToggleResult{}, err
	}

	if marks.IsDone(itemId) {
		if _, err := s.awarder.AwardXP(ctx, xp, minutes); err != nil {
			return ToggleResult{}, err
		}
		s.publishCompleted(ctx, userId, date, itemId, xp, minutes)
	} else if err := s.markDoneAndAward(ctx, userId, date, itemId, xp, minutes); err != nil {
		return ToggleResult{}, err
	}
	return s.result(ctx, userId, date, itemId, xp)
}

// markDoneAndAward adds the done mark and awards XP, dropping the mark again when the
// award fails.
func (s *ServiceImpl) markDoneAndAward(ctx context.Context, userId int, date time.Time, itemId string, xp int, minutes int) error {
	if err := s.repo.AddMark(ctx, userId, date, KindDone, itemId); err != nil {
		return err
	}
	if _, err := s.awarder.AwardXP(ctx, xp, minutes); err != nil {
		if rmErr := s.repo.RemoveMark(ctx, userId, date, KindDone, itemId); rmErr != nil {
			log.Errorf("failed to roll back done mark for item %s: %v", itemId, rmErr)
		}
		return err
	}
	s.publishCompleted(ctx, userId, date, itemId, xp, minutes)
	return nil
}

func (s *ServiceImpl) publishCompleted(ctx context.Context, userId int, date time.Time, itemId string, xp int, minutes int) {
	s.eventBus.Emit(ctx, event_bus.TaskCompletedEvent, event_bus.TaskCompleted{
		UserId:  userId,
		Date:    utils.DateKey(date).Format(utils.DateLayout),
		ItemId:  itemId,
		XP:      xp,
		Minutes: minutes,
	})
}

func (s *ServiceImpl) result(ctx context.Context, userId int, date time.Time, itemId string, awarded int) (ToggleResult, error) {
	marks, err := s.repo.GetMarks(ctx, userId, date)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{
		Marks:     marks,
		Done:      marks.IsDone(itemId),
		Reminder:  marks.HasReminder(itemId),
		XPAwarded: awarded,
	}, nil
}

func (s *ServiceImpl) pruneOrphans(ctx context.Context, generated event_bus.PlanGenerated) (int, error) {
	date, err := time.Parse(utils.DateLayout, generated.Date)
	if err != nil {
		return 0, fmt.Errorf("invalid plan date %q: %w", generated.Date, err)
	}
	unlock := s.lock(generated.UserId, date)
	defer unlock()
	return s.repo.PruneMarks(ctx, generated.UserId, date, generated.ItemIds)
}
