package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/probudget/probudget-backend/internal/domain"
)

// resolveLabel maps a label name to its id, creating the label on first use.
// It runs inside the caller's transaction, so repeated resolution of the
// same name within one atomic batch cannot create duplicates. Matching is
// case-insensitive.
func resolveLabel(ctx context.Context, tx pgx.Tx, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `SELECT id FROM labels WHERE lower(name) = lower($1)`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, storageErr("select label", err)
	}

	id = uuid.New()
	if _, err := tx.Exec(ctx, `INSERT INTO labels (id, name) VALUES ($1, $2)`, id, name); err != nil {
		return uuid.Nil, storageErr("insert label", err)
	}
	return id, nil
}

// LabelRepository implements domain.LabelRepository using PostgreSQL.
type LabelRepository struct {
	pool *pgxpool.Pool
}

func NewLabelRepository(pool *pgxpool.Pool) *LabelRepository {
	return &LabelRepository{pool: pool}
}

// List returns all known labels ordered by name.
func (r *LabelRepository) List(ctx context.Context) ([]*domain.Label, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM labels ORDER BY name`)
	if err != nil {
		return nil, storageErr("list labels", err)
	}
	defer rows.Close()

	var labels []*domain.Label
	for rows.Next() {
		l := &domain.Label{}
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return nil, storageErr("scan label", err)
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list labels", err)
	}
	return labels, nil
}
