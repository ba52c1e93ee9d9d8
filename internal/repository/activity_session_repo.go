package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/metrics"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/models"
)

type ActivitySessionRepo struct {
	pool *pgxpool.Pool
}

func NewActivitySessionRepo(pool *pgxpool.Pool) *ActivitySessionRepo {
	return &ActivitySessionRepo{pool: pool}
}

func (r *ActivitySessionRepo) Insert(ctx context.Context, s *models.ActivitySession) error {
	defer metrics.ObserveDB("activity_sessions.insert")()

	query := `
		INSERT INTO activity_sessions (user_id, page_name)
		VALUES ($1, $2)
		RETURNING id, session_start, last_event_at
	`

	return r.pool.QueryRow(ctx, query, s.UserID, s.PageName).Scan(
		&s.ID,
		&s.SessionStart,
		&s.LastEventAt,
	)
}

// Touch records that the owning tab is still emitting visibility events.
func (r *ActivitySessionRepo) Touch(ctx context.Context, sessionID uuid.UUID) error {
	defer metrics.ObserveDB("activity_sessions.touch")()

	_, err := r.pool.Exec(ctx, `
		UPDATE activity_sessions
		SET last_event_at = NOW()
		WHERE id = $1
		  AND session_end IS NULL
	`, sessionID)
	return err
}

// Close writes the final duration exactly once. A second close finds
// session_end already set and affects no rows, so racing duplicate closes
// stay idempotent at the persistence layer.
func (r *ActivitySessionRepo) Close(ctx context.Context, sessionID uuid.UUID, end time.Time, durationSeconds int) error {
	defer metrics.ObserveDB("activity_sessions.close")()

	_, err := r.pool.Exec(ctx, `
		UPDATE activity_sessions
		SET session_end = $2,
			duration_seconds = $3,
			last_event_at = $2
		WHERE id = $1
		  AND session_end IS NULL
	`, sessionID, end, durationSeconds)
	return err
}
