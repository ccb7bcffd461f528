package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/frankotendo/geolevelup/internal/event_bus"
	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/tracker"
	log "github.com/sirupsen/logrus"
)

const DefaultInterval = time.Minute

type ProfileLister interface {
	List(ctx context.Context) ([]profile.Profile, error)
}

// PlanReader yields the plan the user sees for a day, stored or fallback.
type PlanReader interface {
	StoredOrFallback(ctx context.Context, date time.Time) (plan.DailyPlan, error)
}

type MarksReader interface {
	GetMarks(ctx context.Context, date time.Time) (tracker.Marks, error)
}

// Scheduler scans armed reminders once per interval and fires each item whose start,
// minus the lead time, falls on the current minute.
type Scheduler struct {
	profiles ProfileLister
	plans    PlanReader
	marks    MarksReader
	eventBus *event_bus.EventBus
	clock    utils.Clock
	lead     time.Duration
	interval time.Duration

	mu     sync.Mutex
	fired  map[string]time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(profiles ProfileLister, plans PlanReader, marks MarksReader, eventBus *event_bus.EventBus,
	clock utils.Clock, leadMinutes int) *Scheduler {
	return &Scheduler{
		profiles: profiles,
		plans:    plans,
		marks:    marks,
		eventBus: eventBus,
		clock:    clock,
		lead:     time.Duration(leadMinutes) * time.Minute,
		interval: DefaultInterval,
		fired:    make(map[string]time.Time),
	}
}

// Start launches the scan loop. Calling it on a running scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(loopCtx, s.done)
	log.Infof("Reminder scheduler started (interval %s, lead %s)", s.interval, s.lead)
}

// Stop ends the scan loop and waits for it. Stopping a stopped scheduler does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info("Reminder scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan checks every profile with granted notifications once and returns what fired.
func (s *Scheduler) Scan(ctx context.Context) []event_bus.ReminderFired {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		log.Errorf("reminder scan could not list profiles: %v", err)
		return nil
	}
	now := s.clock.Now()
	s.forgetBefore(now.Add(-24 * time.Hour))

	var fired []event_bus.ReminderFired
	for _, p := range profiles {
		if p.Notifications != profile.PermissionGranted {
			continue
		}
		fired = append(fired, s.scanProfile(ctx, p, now)...)
	}
	return fired
}

func (s *Scheduler) scanProfile(ctx context.Context, p profile.Profile, now time.Time) []event_bus.ReminderFired {
	loc := p.Location()
	today := utils.StartOfDay(now, loc)
	userCtx := profile.WithProfile(ctx, p)

	marks, err := s.marks.GetMarks(userCtx, today)
	if err != nil {
		log.Errorf("reminder scan could not read marks of user %d: %v", p.Id, err)
		return nil
	}
	if len(marks.Reminders) == 0 {
		return nil
	}
	dailyPlan, err := s.plans.StoredOrFallback(userCtx, today)
	if err != nil {
		log.Errorf("reminder scan could not read plan of user %d: %v", p.Id, err)
		return nil
	}

	minute := now.In(loc).Truncate(time.Minute)
	var fired []event_bus.ReminderFired
	for _, item := range dailyPlan.Schedule {
		if !marks.HasReminder(item.Id) {
			continue
		}
		start, ok := plan.ItemStart(item, today, loc)
		if !ok || !start.Add(-s.lead).Equal(minute) {
			continue
		}
		key := fmt.Sprintf("%d/%s/%s/%s", p.Id, today.Format(utils.DateLayout), item.Id, minute.Format("15:04"))
		if !s.markFired(key, now) {
			continue
		}

		event := event_bus.ReminderFired{
			UserId:   p.Id,
			Date:     today.Format(utils.DateLayout),
			ItemId:   item.Id,
			Activity: item.Activity,
			Title:    fmt.Sprintf("Upcoming: %s", item.Activity),
			Body:     fmt.Sprintf("Starting in %d minutes: %s", int(s.lead/time.Minute), item.Description),
			FiredAt:  now,
		}
		log.Infof("Reminder for user %d: %s (%s)", p.Id, event.Title, item.Time)
		s.eventBus.Emit(userCtx, event_bus.ReminderFiredEvent, event)
		fired = append(fired, event)
	}
	return fired
}

func (s *Scheduler) markFired(key string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fired[key]; ok {
		return false
	}
	s.fired[key] = now
	return true
}

func (s *Scheduler) forgetBefore(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, at := range s.fired {
		if at.Before(cutoff) {
			delete(s.fired, key)
		}
	}
}
