package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPlanNotFound = errors.New("plan not found")

type Repository interface {
	GetPlan(ctx context.Context, userId int, date time.Time) (DailyPlan, error)
	StorePlan(ctx context.Context, userId int, date time.Time, plan DailyPlan) error
	DeletePlan(ctx context.Context, userId int, date time.Time) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetPlan(ctx context.Context, userId int, date time.Time) (DailyPlan, error) {
	query := `SELECT body FROM daily_plan WHERE user_id = $1 AND plan_date = $2`
	var p DailyPlan
	err := r.db.QueryRow(ctx, query, userId, utils.DateKey(date)).Scan(&p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DailyPlan{}, ErrPlanNotFound
		}
		return DailyPlan{}, fmt.Errorf("could not read plan: %w", err)
	}
	return p, nil
}

// StorePlan replaces whatever plan is stored for the day.
func (r *RepositoryImpl) StorePlan(ctx context.Context, userId int, date time.Time, plan DailyPlan) error {
	query := `INSERT INTO daily_plan (user_id, plan_date, body, generated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id, plan_date) DO UPDATE SET
				body = EXCLUDED.body,
				generated_at = EXCLUDED.generated_at`
	_, err := r.db.Exec(ctx, query, userId, utils.DateKey(date), plan, plan.GeneratedAt)
	if err != nil {
		return fmt.Errorf("could not store plan: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) DeletePlan(ctx context.Context, userId int, date time.Time) error {
	_, err := r.db.Exec(ctx, `DELETE FROM daily_plan WHERE user_id = $1 AND plan_date = $2`, userId, utils.DateKey(date))
	if err != nil {
		return fmt.Errorf("could not delete plan: %w", err)
	}
	return nil
}
