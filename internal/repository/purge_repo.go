package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inphroneofficial/Inphrone-Application-sub005/internal/metrics"
)

// PurgeRepo deletes whole tables for environment resets. Table names come
// from configuration, never from request input, and are still quoted through
// pgx before being interpolated.
type PurgeRepo struct {
	pool *pgxpool.Pool
}

func NewPurgeRepo(pool *pgxpool.Pool) *PurgeRepo {
	return &PurgeRepo{pool: pool}
}

func (r *PurgeRepo) DeleteAll(ctx context.Context, table string) (int64, error) {
	defer metrics.ObserveDB("purge.delete_all")()

	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", pgx.Identifier{table}.Sanitize()))
	if err != nil {
		return 0, fmt.Errorf("failed to purge table %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}
