package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/frankotendo/geolevelup/internal/utils"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetMarks(ctx context.Context, userId int, date time.Time) (Marks, error)
	AddMark(ctx context.Context, userId int, date time.Time, kind MarkKind, itemId string) error
	RemoveMark(ctx context.Context, userId int, date time.Time, kind MarkKind, itemId string) error
	// PruneMarks removes every mark of the day whose item id is not in keep.
	PruneMarks(ctx context.Context, userId int, date time.Time, keep []string) (int, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetMarks(ctx context.Context, userId int, date time.Time) (Marks, error) {
	query := `SELECT kind, item_id FROM day_item_mark WHERE user_id = $1 AND plan_date = $2 ORDER BY kind, item_id`
	rows, err := r.db.Query(ctx, query, userId, utils.DateKey(date))
	if err != nil {
		return Marks{}, fmt.Errorf("could not read marks: %w", err)
	}
	defer rows.Close()

	marks := Marks{Done: []string{}, Reminders: []string{}}
	for rows.Next() {
		var kind MarkKind
		var itemId string
		if err := rows.Scan(&kind, &itemId); err != nil {
			return Marks{}, fmt.Errorf("could not scan mark: %w", err)
		}
		switch kind {
		case KindDone:
			marks.Done = append(marks.Done, itemId)
		case KindReminder:
			marks.Reminders = append(marks.Reminders, itemId)
		}
	}
	if err := rows.Err(); err != nil {
		return Marks{}, fmt.Errorf("could not read marks: %w", err)
	}
	return marks, nil
}

func (r *RepositoryImpl) AddMark(ctx context.Context, userId int, date time.Time, kind MarkKind, itemId string) error {
	query := `INSERT INTO day_item_mark (user_id, plan_date, kind, item_id) VALUES ($1, $2, $3, $4)
			  ON CONFLICT DO NOTHING`
	if _, err := r.db.Exec(ctx, query, userId, utils.DateKey(date), string(kind), itemId); err != nil {
		return fmt.Errorf("could not add mark: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) RemoveMark(ctx context.Context, userId int, date time.Time, kind MarkKind, itemId string) error {
	query := `DELETE FROM day_item_mark WHERE user_id = $1 AND plan_date = $2 AND kind = $3 AND item_id = $4`
	if _, err := r.db.Exec(ctx, query, userId, utils.DateKey(date), string(kind), itemId); err != nil {
		return fmt.Errorf("could not remove mark: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) PruneMarks(ctx context.Context, userId int, date time.Time, keep []string) (int, error) {
	if keep == nil {
		keep = []string{}
	}
	query := `DELETE FROM day_item_mark WHERE user_id = $1 AND plan_date = $2 AND NOT (item_id = ANY($3))`
	tag, err := r.db.Exec(ctx, query, userId, utils.DateKey(date), keep)
	if err != nil {
		return 0, fmt.Errorf("could not prune marks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
