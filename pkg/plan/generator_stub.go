package plan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frankotendo/geolevelup/pkg/profile"
)

// GeneratorStub returns a configurable plan and counts calls. Release, when set, is
// waited on before answering so tests can hold a generation in flight.
type GeneratorStub struct {
	mu      sync.Mutex
	plan    DailyPlan
	err     error
	calls   atomic.Int32
	Release chan struct{}
}

func NewGeneratorStub(plan DailyPlan) *GeneratorStub {
	return &GeneratorStub{plan: plan}
}

func (g *GeneratorStub) GenerateDailyPlan(ctx context.Context, p profile.Profile, date time.Time) (DailyPlan, error) {
	g.calls.Add(1)
	if g.Release != nil {
		<-g.Release
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.plan, g.err
}

func (g *GeneratorStub) SetPlan(plan DailyPlan) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.plan = plan
	g.err = nil
}

func (g *GeneratorStub) SetError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *GeneratorStub) Calls() int {
	return int(g.calls.Load())
}
