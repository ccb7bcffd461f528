package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrProfileNotFound = errors.New("profile not found")

type Repo interface {
	CreateProfile(ctx context.Context, p Profile) (int, error)
	GetProfile(ctx context.Context, id int) (Profile, error)
	GetProfileByUid(ctx context.Context, uid string) (Profile, error)
	UpdateProfile(ctx context.Context, id int, p Profile) (Profile, error)
	UpdateNotificationPermission(ctx context.Context, id int, permission NotificationPermission) error
	DeleteProfile(ctx context.Context, id int) error
	GetAllProfiles(ctx context.Context) ([]Profile, error)
}

type RepoImpl struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *RepoImpl {
	return &RepoImpl{db: db}
}

const selectColumns = `id, uid, name, major, hobbies, business_name, sports, weekend_sports, goals,
				school_schedule, timezone, notification_permission`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	err := row.Scan(
		&p.Id,
		&p.Uid,
		&p.Name,
		&p.Major,
		&p.Hobbies,
		&p.BusinessName,
		&p.Sports,
		&p.WeekendSports,
		&p.Goals,
		&p.SchoolSchedule,
		&p.Timezone,
		&p.Notifications,
	)
	return p, err
}

func (r *RepoImpl) CreateProfile(ctx context.Context, p Profile) (int, error) {
	if p.Notifications == "" {
		p.Notifications = PermissionDefault
	}
	query := `INSERT INTO profile (uid, name, major, hobbies, business_name, sports, weekend_sports, goals,
				school_schedule, timezone, notification_permission)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		p.Uid,
		p.Name,
		p.Major,
		nonNil(p.Hobbies),
		p.BusinessName,
		nonNil(p.Sports),
		p.WeekendSports,
		nonNil(p.Goals),
		p.SchoolSchedule,
		p.Timezone,
		p.Notifications,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create profile: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *RepoImpl) GetProfile(ctx context.Context, id int) (Profile, error) {
	query := `SELECT ` + selectColumns + ` FROM profile WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("profile with id %d not found", id)
		return Profile{}, ErrProfileNotFound
	} else if err != nil {
		log.Errorf("failed to get profile: %v", err)
		return Profile{}, err
	}
	return p, nil
}

func (r *RepoImpl) GetProfileByUid(ctx context.Context, uid string) (Profile, error) {
	query := `SELECT ` + selectColumns + ` FROM profile WHERE uid = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Infof("profile with uid %s not found", uid)
		return Profile{}, ErrProfileNotFound
	} else if err != nil {
		log.Errorf("failed to get profile: %v", err)
		return Profile{}, err
	}
	return p, nil
}

func (r *RepoImpl) UpdateProfile(ctx context.Context, id int, p Profile) (Profile, error) {
	query := `UPDATE profile SET name = $1, major = $2, hobbies = $3, business_name = $4, sports = $5,
				weekend_sports = $6, goals = $7, school_schedule = $8, timezone = $9
				WHERE id = $10 RETURNING ` + selectColumns
	updated, err := scanProfile(r.db.QueryRow(ctx, query,
		p.Name,
		p.Major,
		nonNil(p.Hobbies),
		p.BusinessName,
		nonNil(p.Sports),
		p.WeekendSports,
		nonNil(p.Goals),
		p.SchoolSchedule,
		p.Timezone,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrProfileNotFound
	} else if err != nil {
		log.Errorf("failed to update profile: %v", err)
		return Profile{}, err
	}
	return updated, nil
}

func (r *RepoImpl) UpdateNotificationPermission(ctx context.Context, id int, permission NotificationPermission) error {
	tag, err := r.db.Exec(ctx, `UPDATE profile SET notification_permission = $1 WHERE id = $2`, permission, id)
	if err != nil {
		return fmt.Errorf("could not update notification permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *RepoImpl) DeleteProfile(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM profile WHERE id = $1`, id)
	if err != nil {
		log.Errorf("failed to delete profile: %v", err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetAllProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM profile ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
