package stats

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu       sync.RWMutex
	stats    map[int]UserStats
	getErr   error
	storeErr error
	stores   int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{stats: make(map[int]UserStats)}
}

func (r *RepositoryStub) GetStats(ctx context.Context, userId int) (UserStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.getErr != nil {
		return UserStats{}, r.getErr
	}
	s, ok := r.stats[userId]
	if !ok {
		return UserStats{}, ErrStatsNotFound
	}
	return s, nil
}

func (r *RepositoryStub) StoreStats(ctx context.Context, userId int, s UserStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.storeErr != nil {
		return r.storeErr
	}
	r.stats[userId] = s
	r.stores++
	return nil
}

func (r *RepositoryStub) DeleteStats(ctx context.Context, userId int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stats, userId)
	return nil
}

// Helper methods for test setup

func (r *RepositoryStub) Set(userId int, s UserStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats[userId] = s
}

func (r *RepositoryStub) SetGetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getErr = err
}

func (r *RepositoryStub) SetStoreError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeErr = err
}

func (r *RepositoryStub) StoreCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stores
}
