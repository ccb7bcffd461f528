package tracker

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
)

type RepositoryStub struct {
	mu    sync.RWMutex
	marks map[string]map[MarkKind][]string
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{marks: make(map[string]map[MarkKind][]string)}
}

func stubKey(userId int, date time.Time) string {
	return fmt.Sprintf("%d/%s", userId, utils.DateKey(date).Format(utils.DateLayout))
}

func (r *RepositoryStub) GetMarks(ctx context.Context, userId int, date time.Time) (Marks, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	day := r.marks[stubKey(userId, date)]
	done := slices.Clone(day[KindDone])
	reminders := slices.Clone(day[KindReminder])
	slices.Sort(done)
	slices.Sort(reminders)
	return Marks{Done: nonNil(done), Reminders: nonNil(reminders)}, nil
}

func (r *RepositoryStub) AddMark(ctx context.Context, userId int, date time.Time, kind MarkKind, itemId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stubKey(userId, date)
	if r.marks[key] == nil {
		r.marks[key] = make(map[MarkKind][]string)
	}
	if !slices.Contains(r.marks[key][kind], itemId) {
		r.marks[key][kind] = append(r.marks[key][kind], itemId)
	}
	return nil
}

func (r *RepositoryStub) RemoveMark(ctx context.Context, userId int, date time.Time, kind MarkKind, itemId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stubKey(userId, date)
	if r.marks[key] == nil {
		return nil
	}
	r.marks[key][kind] = slices.DeleteFunc(r.marks[key][kind], func(id string) bool { return id == itemId })
	return nil
}

func (r *RepositoryStub) PruneMarks(ctx context.Context, userId int, date time.Time, keep []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pruned := 0
	for kind, ids := range r.marks[stubKey(userId, date)] {
		kept := slices.DeleteFunc(ids, func(id string) bool { return !slices.Contains(keep, id) })
		pruned += len(ids) - len(kept)
		r.marks[stubKey(userId, date)][kind] = kept
	}
	return pruned, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
