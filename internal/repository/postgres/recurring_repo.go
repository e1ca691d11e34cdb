package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/probudget/probudget-backend/internal/domain"
)

// RecurringRepository implements domain.RecurringRepository using PostgreSQL.
type RecurringRepository struct {
	pool *pgxpool.Pool
}

func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

func (r *RecurringRepository) Create(ctx context.Context, ob *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	out := *ob
	out.ID = uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO recurrings (id, description, amount, kind, category, start_date, day_of_month)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		out.ID, out.Description, out.Amount, string(out.Kind), out.Category, out.StartDate, out.DayOfMonth,
	)
	if err != nil {
		return nil, storageErr("insert recurring", err)
	}
	if err := linkRecurringLabels(ctx, tx, out.ID, out.Labels); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}
	return &out, nil
}

func (r *RecurringRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecurringObligation, error) {
	obs, err := r.queryRecurrings(ctx, `WHERE r.id = $1`, []any{id})
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, fmt.Errorf("%w: recurring obligation %s", domain.ErrNotFound, id)
	}
	return obs[0], nil
}

func (r *RecurringRepository) List(ctx context.Context) ([]*domain.RecurringObligation, error) {
	return r.queryRecurrings(ctx, "", nil)
}

// Update replaces all fields of an obligation, including the full label set.
func (r *RecurringRepository) Update(ctx context.Context, ob *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE recurrings
		SET description = $2, amount = $3, kind = $4, category = $5, start_date = $6, day_of_month = $7
		WHERE id = $1`,
		ob.ID, ob.Description, ob.Amount, string(ob.Kind), ob.Category, ob.StartDate, ob.DayOfMonth,
	)
	if err != nil {
		return nil, storageErr("update recurring", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: recurring obligation %s", domain.ErrNotFound, ob.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recurring_labels WHERE recurring_id = $1`, ob.ID); err != nil {
		return nil, storageErr("clear recurring labels", err)
	}
	if err := linkRecurringLabels(ctx, tx, ob.ID, ob.Labels); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}
	out := *ob
	return &out, nil
}

// Delete removes the obligation only. Materialized entries keep their
// dangling recurring_id, matching the tolerated-orphan lifecycle.
func (r *RecurringRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recurrings WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete recurring", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recurring obligation %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *RecurringRepository) queryRecurrings(ctx context.Context, where string, args []any) ([]*domain.RecurringObligation, error) {
	query := `
		SELECT r.id, r.description, r.amount, r.kind, r.category, r.start_date, r.day_of_month,
		       COALESCE(array_agg(l.name ORDER BY l.name) FILTER (WHERE l.name IS NOT NULL), '{}')
		FROM recurrings r
		LEFT JOIN recurring_labels rl ON rl.recurring_id = r.id
		LEFT JOIN labels l ON l.id = rl.label_id
		` + where + `
		GROUP BY r.id
		ORDER BY r.start_date DESC, r.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query recurrings", err)
	}
	defer rows.Close()

	var obs []*domain.RecurringObligation
	for rows.Next() {
		ob := &domain.RecurringObligation{}
		var kind string
		var startDate pgtype.Date
		if err := rows.Scan(&ob.ID, &ob.Description, &ob.Amount, &kind, &ob.Category, &startDate, &ob.DayOfMonth, &ob.Labels); err != nil {
			return nil, storageErr("scan recurring", err)
		}
		ob.Kind = domain.EntryKind(kind)
		ob.StartDate = startDate.Time
		obs = append(obs, ob)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query recurrings", err)
	}
	return obs, nil
}

func linkRecurringLabels(ctx context.Context, tx pgx.Tx, recurringID uuid.UUID, labels []string) error {
	for _, name := range labels {
		labelID, err := resolveLabel(ctx, tx, name)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO recurring_labels (recurring_id, label_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			recurringID, labelID,
		)
		if err != nil {
			return storageErr("link recurring label", err)
		}
	}
	return nil
}
