package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/money"
)

// BudgetService handles monthly budget business logic. Budgets are keyed by
// (scope, month, year) and upserted, never duplicated.
type BudgetService struct {
	budgetRepo domain.BudgetRepository
	activity   *ActivityService
}

func NewBudgetService(budgetRepo domain.BudgetRepository, activity *ActivityService) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo, activity: activity}
}

// monthLabel renders a (month, year) key for audit messages, e.g. "January 2024".
func monthLabel(month, year int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

func validMonth(month int) bool {
	return month >= 1 && month <= 12
}

// UpsertOverallBudget sets or replaces the whole-month ceiling.
func (s *BudgetService) UpsertOverallBudget(ctx context.Context, amount int64, month, year int) (*domain.MonthlyBudget, error) {
	if !validMonth(month) {
		return nil, domain.ErrInvalidMonth
	}

	budget, created, err := s.budgetRepo.Upsert(ctx, domain.OverallScope(), amount, month, year)
	if err != nil {
		return nil, err
	}

	when := monthLabel(month, year)
	if created {
		s.activity.Append(ctx, domain.ActionCreate,
			fmt.Sprintf("Set overall budget for %s to $%s.", when, money.Format(amount)))
	} else {
		s.activity.Append(ctx, domain.ActionUpdate,
			fmt.Sprintf("Updated overall budget for %s to $%s.", when, money.Format(amount)))
	}
	return budget, nil
}

// UpsertCategoryBudget sets or replaces the ceiling for one category.
func (s *BudgetService) UpsertCategoryBudget(ctx context.Context, category string, amount int64, month, year int) (*domain.MonthlyBudget, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.ErrCategoryRequired
	}
	if !validMonth(month) {
		return nil, domain.ErrInvalidMonth
	}

	budget, created, err := s.budgetRepo.Upsert(ctx, domain.CategoryScope(category), amount, month, year)
	if err != nil {
		return nil, err
	}

	if created {
		s.activity.Append(ctx, domain.ActionCreate,
			fmt.Sprintf("Set budget for %s to $%s.", category, money.Format(amount)))
	} else {
		s.activity.Append(ctx, domain.ActionUpdate,
			fmt.Sprintf("Updated budget for %s to $%s.", category, money.Format(amount)))
	}
	return budget, nil
}

// ListBudgets returns every stored budget row; callers separate the overall
// budget from per-category budgets via the scope.
func (s *BudgetService) ListBudgets(ctx context.Context) ([]*domain.MonthlyBudget, error) {
	return s.budgetRepo.List(ctx)
}

// SavingService handles monthly savings, keyed by (month, year). Amounts
// are signed; negative means a net loss.
type SavingService struct {
	savingRepo domain.SavingRepository
	activity   *ActivityService
}

func NewSavingService(savingRepo domain.SavingRepository, activity *ActivityService) *SavingService {
	return &SavingService{savingRepo: savingRepo, activity: activity}
}

// UpsertSaving sets or replaces the savings amount for one month.
func (s *SavingService) UpsertSaving(ctx context.Context, amount int64, month, year int) (*domain.MonthlySaving, error) {
	if !validMonth(month) {
		return nil, domain.ErrInvalidMonth
	}

	saving, created, err := s.savingRepo.Upsert(ctx, amount, month, year)
	if err != nil {
		return nil, err
	}

	when := monthLabel(month, year)
	if created {
		s.activity.Append(ctx, domain.ActionCreate,
			fmt.Sprintf("Set savings for %s to $%s.", when, money.Format(amount)))
	} else {
		s.activity.Append(ctx, domain.ActionUpdate,
			fmt.Sprintf("Updated savings for %s to $%s.", when, money.Format(amount)))
	}
	return saving, nil
}

func (s *SavingService) ListSavings(ctx context.Context) ([]*domain.MonthlySaving, error) {
	return s.savingRepo.List(ctx)
}
