package domain

import (
	"context"

	"github.com/google/uuid"
)

// OverallBudgetKey is the reserved storage key for a month's overall budget.
// It never collides with a user category because category names starting
// with '#' are rejected at creation.
const OverallBudgetKey = "##OVERALL_BUDGET##"

// BudgetScope identifies what a monthly budget applies to: the whole month,
// or a single category. The zero value is not valid; use OverallScope or
// CategoryScope.
type BudgetScope struct {
	overall  bool
	category string
}

func OverallScope() BudgetScope {
	return BudgetScope{overall: true}
}

func CategoryScope(name string) BudgetScope {
	return BudgetScope{category: name}
}

// ScopeFromKey maps a stored budget key back to a scope.
func ScopeFromKey(key string) BudgetScope {
	if key == OverallBudgetKey {
		return OverallScope()
	}
	return CategoryScope(key)
}

func (s BudgetScope) IsOverall() bool { return s.overall }

// Category returns the category name; ok is false for the overall scope.
func (s BudgetScope) Category() (name string, ok bool) {
	if s.overall {
		return "", false
	}
	return s.category, true
}

// Key returns the storage representation of the scope.
func (s BudgetScope) Key() string {
	if s.overall {
		return OverallBudgetKey
	}
	return s.category
}

// MonthlyBudget is an amount ceiling for a (scope, month, year) triple,
// unique per key. Amount is in minor currency units.
type MonthlyBudget struct {
	ID     uuid.UUID `json:"id"`
	Scope  BudgetScope
	Amount int64 `json:"amount"`
	Month  int   `json:"month"`
	Year   int   `json:"year"`
}

type BudgetRepository interface {
	// Upsert updates the amount in place when a row exists for the exact
	// (scope, month, year) key, and inserts otherwise. created reports which
	// branch was taken.
	Upsert(ctx context.Context, scope BudgetScope, amount int64, month, year int) (budget *MonthlyBudget, created bool, err error)
	// Insert adds a new row and fails with ErrBudgetExists on a duplicate key.
	Insert(ctx context.Context, budget *MonthlyBudget) (*MonthlyBudget, error)
	List(ctx context.Context) ([]*MonthlyBudget, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
}

// MonthlySaving is the signed net savings for a (month, year) pair, unique
// per key. Negative means a net loss.
type MonthlySaving struct {
	ID     uuid.UUID `json:"id"`
	Amount int64     `json:"amount"`
	Month  int       `json:"month"`
	Year   int       `json:"year"`
}

type SavingRepository interface {
	Upsert(ctx context.Context, amount int64, month, year int) (saving *MonthlySaving, created bool, err error)
	List(ctx context.Context) ([]*MonthlySaving, error)
}
