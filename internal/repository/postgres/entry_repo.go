package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/probudget/probudget-backend/internal/domain"
)

// EntryRepository implements domain.EntryRepository using PostgreSQL.
type EntryRepository struct {
	pool *pgxpool.Pool
}

func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Insert persists one entry and its label associations atomically.
func (r *EntryRepository) Insert(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	created, err := insertEntryTx(ctx, tx, entry)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}
	return created, nil
}

// InsertBatch persists all entries in one transaction. Either every entry
// and every label association exists afterward, or none do.
func (r *EntryRepository) InsertBatch(ctx context.Context, entries []*domain.LedgerEntry) ([]*domain.LedgerEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	created := make([]*domain.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		e, err := insertEntryTx(ctx, tx, entry)
		if err != nil {
			return nil, err
		}
		created = append(created, e)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}
	return created, nil
}

// Update replaces all mutable fields of an existing entry. Label
// associations are cleared and re-created wholesale.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE entries
		SET description = $2, amount = $3, entry_date = $4, kind = $5, category = $6, quantity = $7
		WHERE id = $1`,
		entry.ID, entry.Description, entry.Amount, entry.Date, string(entry.Kind), entry.Category, entry.Quantity,
	)
	if err != nil {
		return nil, storageErr("update entry", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, entry.ID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM entry_labels WHERE entry_id = $1`, entry.ID); err != nil {
		return nil, storageErr("clear entry labels", err)
	}
	if err := linkLabels(ctx, tx, entry.ID, entry.Labels); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}
	out := *entry
	return &out, nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	entries, err := r.queryEntries(ctx, `WHERE e.id = $1`, []any{id})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: entry %s", domain.ErrNotFound, id)
	}
	return entries[0], nil
}

// Delete removes the entry; its label associations go with it via cascade.
func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete entry", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", domain.ErrNotFound, id)
	}
	return nil
}

// Query returns entries ordered by date descending then id descending, with
// label names aggregated per entry.
func (r *EntryRepository) Query(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	where := ""
	args := []any{}
	add := func(clause string, value any) {
		args = append(args, value)
		if where == "" {
			where = "WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}

	if filter.Kind != nil {
		add("e.kind = $%d", string(*filter.Kind))
	}
	if filter.Category != nil {
		add("e.category = $%d", *filter.Category)
	}
	if filter.From != nil {
		add("e.entry_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("e.entry_date <= $%d", *filter.To)
	}
	if filter.RecurringID != nil {
		add("e.recurring_id = $%d", *filter.RecurringID)
	}

	return r.queryEntries(ctx, where, args)
}

func (r *EntryRepository) queryEntries(ctx context.Context, where string, args []any) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT e.id, e.description, e.amount, e.entry_date, e.kind, e.category, e.quantity, e.recurring_id,
		       COALESCE(array_agg(l.name ORDER BY l.name) FILTER (WHERE l.name IS NOT NULL), '{}')
		FROM entries e
		LEFT JOIN entry_labels el ON el.entry_id = e.id
		LEFT JOIN labels l ON l.id = el.label_id
		` + where + `
		GROUP BY e.id
		ORDER BY e.entry_date DESC, e.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("query entries", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		e := &domain.LedgerEntry{}
		var kind string
		var date pgtype.Date
		var recurringID pgtype.UUID
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &date, &kind, &e.Category, &e.Quantity, &recurringID, &e.Labels); err != nil {
			return nil, storageErr("scan entry", err)
		}
		e.Date = date.Time
		e.Kind = domain.EntryKind(kind)
		if recurringID.Valid {
			id := uuid.UUID(recurringID.Bytes)
			e.RecurringID = &id
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query entries", err)
	}
	return entries, nil
}

// MaxDateForRecurring returns the latest materialized entry date for an
// obligation, or nil if it has never been materialized.
func (r *EntryRepository) MaxDateForRecurring(ctx context.Context, recurringID uuid.UUID) (*time.Time, error) {
	var max pgtype.Date
	err := r.pool.QueryRow(ctx,
		`SELECT MAX(entry_date) FROM entries WHERE recurring_id = $1`, recurringID,
	).Scan(&max)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, storageErr("max entry date", err)
	}
	if !max.Valid {
		return nil, nil
	}
	t := max.Time
	return &t, nil
}

func (r *EntryRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries WHERE category = $1`, category).Scan(&count)
	if err != nil {
		return 0, storageErr("count entries", err)
	}
	return count, nil
}

// insertEntryTx writes one entry row plus its label links within tx. The id
// is generated here.
func insertEntryTx(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	out := *entry
	out.ID = uuid.New()
	if out.Quantity < 1 {
		out.Quantity = 1
	}

	var recurringID pgtype.UUID
	if out.RecurringID != nil {
		recurringID = pgtype.UUID{Bytes: *out.RecurringID, Valid: true}
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO entries (id, description, amount, entry_date, kind, category, quantity, recurring_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		out.ID, out.Description, out.Amount, out.Date, string(out.Kind), out.Category, out.Quantity, recurringID,
	)
	if err != nil {
		return nil, storageErr("insert entry", err)
	}

	if err := linkLabels(ctx, tx, out.ID, out.Labels); err != nil {
		return nil, err
	}
	return &out, nil
}

func linkLabels(ctx context.Context, tx pgx.Tx, entryID uuid.UUID, labels []string) error {
	for _, name := range labels {
		labelID, err := resolveLabel(ctx, tx, name)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO entry_labels (entry_id, label_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			entryID, labelID,
		)
		if err != nil {
			return storageErr("link label", err)
		}
	}
	return nil
}
