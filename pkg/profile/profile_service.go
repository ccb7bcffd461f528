package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrProfileDataInvalid = errors.New("invalid profile data")

type Service interface {
	GetCurrent(ctx context.Context) (Profile, error)
	GetByUid(ctx context.Context, uid string) (Profile, error)
	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
	SetNotificationPermission(ctx context.Context, permission NotificationPermission) error
	Delete(ctx context.Context, uid string) error
	List(ctx context.Context) ([]Profile, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

// GetCurrent reloads the profile stored in the context so that changes made earlier in
// the same request (permission updates) are visible.
func (s *ServiceImpl) GetCurrent(ctx context.Context) (Profile, error) {
	id, err := CurrentId(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	return s.repo.GetProfile(ctx, id)
}

func (s *ServiceImpl) GetByUid(ctx context.Context, uid string) (Profile, error) {
	return s.repo.GetProfileByUid(ctx, uid)
}

func (s *ServiceImpl) Create(ctx context.Context, p Profile) (Profile, error) {
	if err := validate(p); err != nil {
		return Profile{}, err
	}
	if p.Uid == "" {
		p.Uid = uuid.NewString()
	}
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	p.Notifications = PermissionDefault
	id, err := s.repo.CreateProfile(ctx, p)
	if err != nil {
		return Profile{}, err
	}
	p.Id = id
	return p, nil
}

func (s *ServiceImpl) Update(ctx context.Context, p Profile) (Profile, error) {
	id, err := CurrentId(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get current profile: %w", err)
	}
	if err := validate(p); err != nil {
		return Profile{}, err
	}
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}
	return s.repo.UpdateProfile(ctx, id, p)
}

func (s *ServiceImpl) SetNotificationPermission(ctx context.Context, permission NotificationPermission) error {
	id, err := CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current profile: %w", err)
	}
	if !permission.IsValid() {
		return fmt.Errorf("%w: unknown notification permission %q", ErrProfileDataInvalid, permission)
	}
	return s.repo.UpdateNotificationPermission(ctx, id, permission)
}

func (s *ServiceImpl) Delete(ctx context.Context, uid string) error {
	p, err := s.repo.GetProfileByUid(ctx, uid)
	if err != nil {
		return err
	}
	return s.repo.DeleteProfile(ctx, p.Id)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Profile, error) {
	return s.repo.GetAllProfiles(ctx)
}

func validate(p Profile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrProfileDataInvalid)
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrProfileDataInvalid, p.Timezone)
		}
	}
	return nil
}
