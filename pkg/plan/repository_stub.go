package plan

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
)

// RepositoryStub keeps plans in memory. HoldGet, when set, is waited on before GetPlan
// reads so tests can keep a load in flight.
type RepositoryStub struct {
	mu      sync.RWMutex
	plans   map[string]DailyPlan
	gets    atomic.Int32
	HoldGet chan struct{}
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{plans: make(map[string]DailyPlan)}
}

func stubKey(userId int, date time.Time) string {
	return fmt.Sprintf("%d/%s", userId, utils.DateKey(date).Format(utils.DateLayout))
}

func (r *RepositoryStub) GetPlan(ctx context.Context, userId int, date time.Time) (DailyPlan, error) {
	r.gets.Add(1)
	if r.HoldGet != nil {
		<-r.HoldGet
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[stubKey(userId, date)]
	if !ok {
		return DailyPlan{}, ErrPlanNotFound
	}
	return p, nil
}

func (r *RepositoryStub) StorePlan(ctx context.Context, userId int, date time.Time, plan DailyPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[stubKey(userId, date)] = plan
	return nil
}

func (r *RepositoryStub) DeletePlan(ctx context.Context, userId int, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.plans, stubKey(userId, date))
	return nil
}

func (r *RepositoryStub) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plans)
}

func (r *RepositoryStub) Gets() int {
	return int(r.gets.Load())
}
