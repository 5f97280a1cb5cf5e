package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/briefboard/briefboard-server/internal/model"
)

// ActivityRepository appends and aggregates activity events. Events are never
// updated or deleted.
type ActivityRepository interface {
	Create(ctx context.Context, params model.CreateActivityEventParams) (*model.ActivityEvent, error)
	CountByDay(ctx context.Context, since time.Time) ([]model.ActivityDayCount, error)
	CountByType(ctx context.Context) ([]model.ActivityTypeCount, error)
	WithTx(tx *sqlx.Tx) ActivityRepository
}

type activityRepo struct {
	db sqlxDB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) WithTx(tx *sqlx.Tx) ActivityRepository {
	return &activityRepo{db: tx}
}

func (r *activityRepo) Create(ctx context.Context, params model.CreateActivityEventParams) (*model.ActivityEvent, error) {
	var event model.ActivityEvent
	err := r.db.GetContext(ctx, &event, `
		INSERT INTO activity_events (actor_id, event_type, metadata)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.ActorID, params.EventType, params.Metadata)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *activityRepo) CountByDay(ctx context.Context, since time.Time) ([]model.ActivityDayCount, error) {
	var counts []model.ActivityDayCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT DATE(created_at) AS day, COUNT(*) AS count
		FROM activity_events
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day
	`, since)
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *activityRepo) CountByType(ctx context.Context) ([]model.ActivityTypeCount, error) {
	var counts []model.ActivityTypeCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT event_type, COUNT(*) AS count
		FROM activity_events
		GROUP BY event_type
		ORDER BY event_type
	`)
	if err != nil {
		return nil, err
	}
	return counts, nil
}
