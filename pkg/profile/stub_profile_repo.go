package profile

import (
	"context"
	"sort"
	"sync"
)

type StubProfileRepository struct {
	mu     sync.RWMutex
	nextId int
	data   map[int]Profile
}

func NewStubProfileRepository() *StubProfileRepository {
	return &StubProfileRepository{nextId: 0, data: map[int]Profile{}}
}

func (s *StubProfileRepository) CreateProfile(ctx context.Context, p Profile) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId++
	p.Id = s.nextId
	if p.Notifications == "" {
		p.Notifications = PermissionDefault
	}
	s.data[s.nextId] = p
	return s.nextId, nil
}

func (s *StubProfileRepository) GetProfile(ctx context.Context, id int) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	return p, nil
}

func (s *StubProfileRepository) GetProfileByUid(ctx context.Context, uid string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.data {
		if p.Uid == uid {
			return p, nil
		}
	}
	return Profile{}, ErrProfileNotFound
}

func (s *StubProfileRepository) UpdateProfile(ctx context.Context, id int, p Profile) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data[id]
	if !ok {
		return Profile{}, ErrProfileNotFound
	}
	p.Id = existing.Id
	p.Uid = existing.Uid
	p.Notifications = existing.Notifications
	s.data[id] = p
	return p, nil
}

func (s *StubProfileRepository) UpdateNotificationPermission(ctx context.Context, id int, permission NotificationPermission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data[id]
	if !ok {
		return ErrProfileNotFound
	}
	existing.Notifications = permission
	s.data[id] = existing
	return nil
}

func (s *StubProfileRepository) DeleteProfile(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *StubProfileRepository) GetAllProfiles(ctx context.Context) ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make([]Profile, 0, len(s.data))
	for _, p := range s.data {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Id < profiles[j].Id })
	return profiles, nil
}
