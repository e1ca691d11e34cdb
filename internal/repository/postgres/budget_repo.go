package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/probudget/probudget-backend/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// BudgetRepository implements domain.BudgetRepository using PostgreSQL. The
// overall budget is stored under the reserved key domain.OverallBudgetKey.
type BudgetRepository struct {
	pool *pgxpool.Pool
}

func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Upsert updates the amount in place when a row exists for the exact
// (scope, month, year) key, and inserts otherwise.
func (r *BudgetRepository) Upsert(ctx context.Context, scope domain.BudgetScope, amount int64, month, year int) (*domain.MonthlyBudget, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	key := scope.Key()
	budget := &domain.MonthlyBudget{Scope: scope, Amount: amount, Month: month, Year: year}

	var existingID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM budgets WHERE category = $1 AND month = $2 AND year = $3`,
		key, month, year,
	).Scan(&existingID)

	created := false
	switch {
	case err == nil:
		budget.ID = existingID
		if _, err := tx.Exec(ctx, `UPDATE budgets SET amount = $2 WHERE id = $1`, existingID, amount); err != nil {
			return nil, false, storageErr("update budget", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		created = true
		budget.ID = uuid.New()
		_, err := tx.Exec(ctx,
			`INSERT INTO budgets (id, category, amount, month, year) VALUES ($1, $2, $3, $4, $5)`,
			budget.ID, key, amount, month, year,
		)
		if err != nil {
			return nil, false, storageErr("insert budget", err)
		}
	default:
		return nil, false, storageErr("select budget", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, storageErr("commit", err)
	}
	return budget, created, nil
}

// Insert adds a new budget row without upsert semantics; a duplicate
// (scope, month, year) key surfaces as ErrBudgetExists.
func (r *BudgetRepository) Insert(ctx context.Context, budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	out := *budget
	out.ID = uuid.New()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO budgets (id, category, amount, month, year) VALUES ($1, $2, $3, $4, $5)`,
		out.ID, out.Scope.Key(), out.Amount, out.Month, out.Year,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrBudgetExists
		}
		return nil, storageErr("insert budget", err)
	}
	return &out, nil
}

func (r *BudgetRepository) List(ctx context.Context) ([]*domain.MonthlyBudget, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, category, amount, month, year FROM budgets ORDER BY year, month, category`)
	if err != nil {
		return nil, storageErr("list budgets", err)
	}
	defer rows.Close()

	var budgets []*domain.MonthlyBudget
	for rows.Next() {
		b := &domain.MonthlyBudget{}
		var key string
		if err := rows.Scan(&b.ID, &key, &b.Amount, &b.Month, &b.Year); err != nil {
			return nil, storageErr("scan budget", err)
		}
		b.Scope = domain.ScopeFromKey(key)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list budgets", err)
	}
	return budgets, nil
}

func (r *BudgetRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM budgets WHERE category = $1`, category).Scan(&count)
	if err != nil {
		return 0, storageErr("count budgets", err)
	}
	return count, nil
}

// SavingRepository implements domain.SavingRepository using PostgreSQL.
type SavingRepository struct {
	pool *pgxpool.Pool
}

func NewSavingRepository(pool *pgxpool.Pool) *SavingRepository {
	return &SavingRepository{pool: pool}
}

// Upsert updates the amount in place when a row exists for (month, year),
// and inserts otherwise.
func (r *SavingRepository) Upsert(ctx context.Context, amount int64, month, year int) (*domain.MonthlySaving, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, storageErr("begin", err)
	}
	defer tx.Rollback(ctx)

	saving := &domain.MonthlySaving{Amount: amount, Month: month, Year: year}

	var existingID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM savings WHERE month = $1 AND year = $2`, month, year,
	).Scan(&existingID)

	created := false
	switch {
	case err == nil:
		saving.ID = existingID
		if _, err := tx.Exec(ctx, `UPDATE savings SET amount = $2 WHERE id = $1`, existingID, amount); err != nil {
			return nil, false, storageErr("update saving", err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		created = true
		saving.ID = uuid.New()
		_, err := tx.Exec(ctx,
			`INSERT INTO savings (id, amount, month, year) VALUES ($1, $2, $3, $4)`,
			saving.ID, amount, month, year,
		)
		if err != nil {
			return nil, false, storageErr("insert saving", err)
		}
	default:
		return nil, false, storageErr("select saving", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, storageErr("commit", err)
	}
	return saving, created, nil
}

func (r *SavingRepository) List(ctx context.Context) ([]*domain.MonthlySaving, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, amount, month, year FROM savings ORDER BY year, month`)
	if err != nil {
		return nil, storageErr("list savings", err)
	}
	defer rows.Close()

	var savings []*domain.MonthlySaving
	for rows.Next() {
		s := &domain.MonthlySaving{}
		if err := rows.Scan(&s.ID, &s.Amount, &s.Month, &s.Year); err != nil {
			return nil, storageErr("scan saving", err)
		}
		savings = append(savings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list savings", err)
	}
	return savings, nil
}
