package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/metrics"
	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/models"
)

type DeletionRepo struct {
	pool *pgxpool.Pool
}

func NewDeletionRepo(pool *pgxpool.Pool) *DeletionRepo {
	return &DeletionRepo{pool: pool}
}

// GetActiveByUser returns the user's pending (not yet restored) deletion
// record, or nil when none exists.
func (r *DeletionRepo) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.PendingDeletion, error) {
	defer metrics.ObserveDB("pending_deletions.get_active")()

	d := &models.PendingDeletion{}
	query := `SELECT id, user_id, email, full_name, user_type, requested_at, permanent_deletion_date, restored_at
		FROM pending_deletions
		WHERE user_id = $1 AND restored_at IS NULL`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&d.ID, &d.UserID, &d.Email, &d.FullName, &d.UserType,
		&d.RequestedAt, &d.PermanentDeletionDate, &d.RestoredAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DeletionRepo) Insert(ctx context.Context, d *models.PendingDeletion) error {
	defer metrics.ObserveDB("pending_deletions.insert")()

	// The partial unique index on (user_id) WHERE restored_at IS NULL backs
	// the one-active-row invariant if two requests race past the existence
	// check.
	query := `
		INSERT INTO pending_deletions (id, user_id, email, full_name, user_type, permanent_deletion_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING requested_at
	`

	d.ID = uuid.New()
	return r.pool.QueryRow(ctx, query,
		d.ID, d.UserID, d.Email, d.FullName, d.UserType, d.PermanentDeletionDate,
	).Scan(&d.RequestedAt)
}

// Restore marks the user's pending deletion as restored. The state check and
// the mutation are one conditional UPDATE so a restore cannot interleave with
// the purge sweep; zero rows affected means there was nothing to restore or
// the window has already expired.
func (r *DeletionRepo) Restore(ctx context.Context, userID uuid.UUID, now time.Time) (*models.PendingDeletion, error) {
	defer metrics.ObserveDB("pending_deletions.restore")()

	d := &models.PendingDeletion{}
	query := `
		UPDATE pending_deletions
		SET restored_at = $2
		WHERE user_id = $1
		  AND restored_at IS NULL
		  AND permanent_deletion_date > $2
		RETURNING id, user_id, email, full_name, user_type, requested_at, permanent_deletion_date, restored_at
	`

	err := r.pool.QueryRow(ctx, query, userID, now).Scan(
		&d.ID, &d.UserID, &d.Email, &d.FullName, &d.UserType,
		&d.RequestedAt, &d.PermanentDeletionDate, &d.RestoredAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// SweepExpired purges accounts whose grace window has closed: for each
// expired unrestored record it deletes the user's rows from the owned tables
// (dependents first), then the identity row, then the deletion record itself.
// Returns the number of accounts purged.
func (r *DeletionRepo) SweepExpired(ctx context.Context, now time.Time, ownedTables []string) (int, error) {
	defer metrics.ObserveDB("pending_deletions.sweep")()

	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM pending_deletions
		WHERE restored_at IS NULL
		  AND permanent_deletion_date <= $1
	`, now)
	if err != nil {
		return 0, err
	}

	var userIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if scanErr := rows.Scan(&id); scanErr != nil {
			rows.Close()
			return 0, scanErr
		}
		userIDs = append(userIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	purged := 0
	for _, userID := range userIDs {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return purged, err
		}

		if err := func() error {
			for _, table := range ownedTables {
				stmt := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", pgx.Identifier{table}.Sanitize())
				if _, err := tx.Exec(ctx, stmt, userID); err != nil {
					return fmt.Errorf("failed to purge %s: %w", table, err)
				}
			}
			if _, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", userID); err != nil {
				return fmt.Errorf("failed to purge user: %w", err)
			}
			if _, err := tx.Exec(ctx, "DELETE FROM pending_deletions WHERE user_id = $1", userID); err != nil {
				return fmt.Errorf("failed to purge deletion record: %w", err)
			}
			return nil
		}(); err != nil {
			tx.Rollback(ctx)
			return purged, err
		}

		if err := tx.Commit(ctx); err != nil {
			return purged, err
		}
		purged++
	}

	return purged, nil
}
