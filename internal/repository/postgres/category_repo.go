package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/probudget/probudget-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	out := *category
	out.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO categories (id, name, kind, is_default, affects_budget) VALUES ($1, $2, $3, $4, $5)`,
		out.ID, out.Name, string(out.Kind), out.IsDefault, out.AffectsBudget,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrCategoryExists
		}
		return nil, storageErr("insert category", err)
	}
	return &out, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c := &domain.Category{}
	var kind string
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, kind, is_default, affects_budget FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &kind, &c.IsDefault, &c.AffectsBudget)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
		}
		return nil, storageErr("select category", err)
	}
	c.Kind = domain.EntryKind(kind)
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, kind, is_default, affects_budget FROM categories ORDER BY name`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c := &domain.Category{}
		var kind string
		if err := rows.Scan(&c.ID, &c.Name, &kind, &c.IsDefault, &c.AffectsBudget); err != nil {
			return nil, storageErr("scan category", err)
		}
		c.Kind = domain.EntryKind(kind)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return categories, nil
}

// Rename changes the category name and cascades it into entries and budgets
// in one transaction, so references never point at a stale name.
func (r *CategoryRepository) Rename(ctx context.Context, id uuid.UUID, newName string) (*domain.Category, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	c := &domain.Category{}
	var kind, oldName string
	err = tx.QueryRow(ctx,
		`SELECT id, name, kind, is_default, affects_budget FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &oldName, &kind, &c.IsDefault, &c.AffectsBudget)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
		}
		return nil, storageErr("select category", err)
	}
	c.Kind = domain.EntryKind(kind)
	c.Name = newName

	if _, err := tx.Exec(ctx, `UPDATE categories SET name = $2 WHERE id = $1`, id, newName); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrCategoryExists
		}
		return nil, storageErr("rename category", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE entries SET category = $2 WHERE category = $1`, oldName, newName); err != nil {
		return nil, storageErr("cascade rename to entries", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE budgets SET category = $2 WHERE category = $1`, oldName, newName); err != nil {
		return nil, storageErr("cascade rename to budgets", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageErr("commit", err)
	}
	return c, nil
}

func (r *CategoryRepository) SetAffectsBudget(ctx context.Context, id uuid.UUID, affects bool) (*domain.Category, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET affects_budget = $2 WHERE id = $1`, id, affects)
	if err != nil {
		return nil, storageErr("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
	}
	return r.GetByID(ctx, id)
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, storageErr("count categories", err)
	}
	return count, nil
}
