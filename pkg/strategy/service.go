package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/frankotendo/geolevelup/pkg/profile"
	log "github.com/sirupsen/logrus"
)

type Generator interface {
	GenerateStrategies(ctx context.Context, p profile.Profile) ([]Path, error)
}

// Service keeps the last generated strategy list of each user in memory only.
type Service interface {
	Generate(ctx context.Context) ([]Path, error)
	Current(ctx context.Context) ([]Path, error)
}

type ServiceImpl struct {
	generator Generator
	mu        sync.RWMutex
	paths     map[int][]Path
}

func NewService(generator Generator) *ServiceImpl {
	return &ServiceImpl{
		generator: generator,
		paths:     make(map[int][]Path),
	}
}

// Generate asks the generator for new paths. A failed generation yields an empty list
// rather than an error.
func (s *ServiceImpl) Generate(ctx context.Context) ([]Path, error) {
	p, err := profile.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}

	paths, err := s.generator.GenerateStrategies(ctx, p)
	if err != nil {
		log.Warnf("strategy generation for user %d failed: %v", p.Id, err)
		paths = []Path{}
	}
	if paths == nil {
		paths = []Path{}
	}

	s.mu.Lock()
	s.paths[p.Id] = paths
	s.mu.Unlock()
	return paths, nil
}

func (s *ServiceImpl) Current(ctx context.Context) ([]Path, error) {
	userId, err := profile.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths, ok := s.paths[userId]
	if !ok {
		return []Path{}, nil
	}
	return paths, nil
}
