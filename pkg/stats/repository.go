package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrStatsNotFound = errors.New("stats not found")

type Repository interface {
	GetStats(ctx context.Context, userId int) (UserStats, error)
	StoreStats(ctx context.Context, userId int, stats UserStats) error
	DeleteStats(ctx context.Context, userId int) error
}

type repositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetStats(ctx context.Context, userId int) (UserStats, error) {
	query := `SELECT level, current_xp, next_level_xp, streak_days, last_active_date,
				total_tasks_completed, total_focus_minutes
			  FROM user_stats WHERE user_id = $1`
	var s UserStats
	err := r.db.QueryRow(ctx, query, userId).Scan(
		&s.Level,
		&s.CurrentXP,
		&s.NextLevelXP,
		&s.StreakDays,
		&s.LastActiveDate,
		&s.TotalTasksCompleted,
		&s.TotalFocusMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserStats{}, ErrStatsNotFound
		}
		return UserStats{}, fmt.Errorf("could not read stats: %w", err)
	}
	return s, nil
}

func (r *repositoryImpl) StoreStats(ctx context.Context, userId int, s UserStats) error {
	query := `INSERT INTO user_stats (user_id, level, current_xp, next_level_xp, streak_days, last_active_date,
				total_tasks_completed, total_focus_minutes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (user_id) DO UPDATE SET
				level = EXCLUDED.level,
				current_xp = EXCLUDED.current_xp,
				next_level_xp = EXCLUDED.next_level_xp,
				streak_days = EXCLUDED.streak_days,
				last_active_date = EXCLUDED.last_active_date,
				total_tasks_completed = EXCLUDED.total_tasks_completed,
				total_focus_minutes = EXCLUDED.total_focus_minutes`
	_, err := r.db.Exec(ctx, query,
		userId,
		s.Level,
		s.CurrentXP,
		s.NextLevelXP,
		s.StreakDays,
		s.LastActiveDate,
		s.TotalTasksCompleted,
		s.TotalFocusMinutes,
	)
	if err != nil {
		return fmt.Errorf("could not store stats: %w", err)
	}
	return nil
}

func (r *repositoryImpl) DeleteStats(ctx context.Context, userId int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM user_stats WHERE user_id = $1`, userId)
	if err != nil {
		return fmt.Errorf("could not delete stats: %w", err)
	}
	return nil
}
