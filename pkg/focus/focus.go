package focus

import "time"

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

const (
	baseXP      = 50
	xpPerMinute = 2
)

// XPFor is the reward of a session: a base amount plus a bonus per full minute.
func XPFor(elapsed time.Duration) int {
	return baseXP + xpPerMinute*int(elapsed/time.Minute)
}

type session struct {
	date         time.Time
	itemId       string
	state        State
	accumulated  time.Duration
	runningSince time.Time
}

// elapsed counts running time only; paused spans are excluded.
func (s *session) elapsed(now time.Time) time.Duration {
	if s.state == StateRunning {
		return s.accumulated + now.Sub(s.runningSince)
	}
	return s.accumulated
}

type Status struct {
	State          State
	Date           time.Time
	ItemId         string
	ElapsedSeconds int
}

type EndResult struct {
	ItemId         string
	ElapsedSeconds int
	Minutes        int
	XP             int
	Done           bool
}
