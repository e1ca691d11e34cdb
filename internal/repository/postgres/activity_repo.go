package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/probudget/probudget-backend/internal/domain"
)

// ActivityRepository implements domain.ActivityRepository using PostgreSQL.
// The table is append-only and carries no foreign keys.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Append(ctx context.Context, action, description string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_log (id, logged_at, action, description) VALUES ($1, $2, $3, $4)`,
		uuid.New(), time.Now().UTC(), action, description,
	)
	if err != nil {
		return storageErr("append activity", err)
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context) ([]*domain.ActivityLogEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, logged_at, action, description FROM activity_log ORDER BY logged_at DESC, id DESC`)
	if err != nil {
		return nil, storageErr("list activity", err)
	}
	defer rows.Close()

	var entries []*domain.ActivityLogEntry
	for rows.Next() {
		e := &domain.ActivityLogEntry{}
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Action, &e.Description); err != nil {
			return nil, storageErr("scan activity", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list activity", err)
	}
	return entries, nil
}
