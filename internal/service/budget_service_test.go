package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/testutil"
)

func newTestBudget() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockActivityRepository) {
	budgetRepo := testutil.NewMockBudgetRepository()
	activityRepo := testutil.NewMockActivityRepository()
	return NewBudgetService(budgetRepo, NewActivityService(activityRepo)), budgetRepo, activityRepo
}

func TestUpsertOverallBudget_CreateThenUpdate(t *testing.T) {
	budgetService, budgetRepo, activityRepo := newTestBudget()

	budget, err := budgetService.UpsertOverallBudget(context.Background(), 250000, 3, 2024)
	require.NoError(t, err)
	assert.True(t, budget.Scope.IsOverall())
	assert.Equal(t, int64(250000), budget.Amount)

	// Same key replaces the amount instead of adding a row
	budget, err = budgetService.UpsertOverallBudget(context.Background(), 300000, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), budget.Amount)
	assert.Len(t, budgetRepo.Budgets, 1)

	require.Len(t, activityRepo.Logged, 2)
	assert.Equal(t, domain.ActionCreate, activityRepo.Logged[0].Action)
	assert.Equal(t, "Set overall budget for March 2024 to $2500.00.", activityRepo.Logged[0].Description)
	assert.Equal(t, domain.ActionUpdate, activityRepo.Logged[1].Action)
	assert.Equal(t, "Updated overall budget for March 2024 to $3000.00.", activityRepo.Logged[1].Description)
}

func TestUpsertCategoryBudget_DistinctKeysCoexist(t *testing.T) {
	budgetService, budgetRepo, _ := newTestBudget()

	_, err := budgetService.UpsertCategoryBudget(context.Background(), "Groceries", 50000, 3, 2024)
	require.NoError(t, err)
	_, err = budgetService.UpsertCategoryBudget(context.Background(), "Groceries", 50000, 4, 2024)
	require.NoError(t, err)
	_, err = budgetService.UpsertCategoryBudget(context.Background(), "Transport", 20000, 3, 2024)
	require.NoError(t, err)
	_, err = budgetService.UpsertOverallBudget(context.Background(), 250000, 3, 2024)
	require.NoError(t, err)

	// Four distinct (scope, month, year) keys
	assert.Len(t, budgetRepo.Budgets, 4)
}

func TestUpsertCategoryBudget_Validation(t *testing.T) {
	budgetService, _, _ := newTestBudget()

	_, err := budgetService.UpsertCategoryBudget(context.Background(), "  ", 50000, 3, 2024)
	assert.ErrorIs(t, err, domain.ErrCategoryRequired)

	_, err = budgetService.UpsertCategoryBudget(context.Background(), "Groceries", 50000, 13, 2024)
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = budgetService.UpsertOverallBudget(context.Background(), 50000, 0, 2024)
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}

func TestUpsertSaving_CreateThenUpdate(t *testing.T) {
	savingRepo := testutil.NewMockSavingRepository()
	activityRepo := testutil.NewMockActivityRepository()
	savingService := NewSavingService(savingRepo, NewActivityService(activityRepo))

	saving, err := savingService.UpsertSaving(context.Background(), 80000, 1, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(80000), saving.Amount)

	// Negative savings are allowed: a losing month
	saving, err = savingService.UpsertSaving(context.Background(), -12050, 1, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(-12050), saving.Amount)
	assert.Len(t, savingRepo.Savings, 1)

	require.Len(t, activityRepo.Logged, 2)
	assert.Equal(t, "Set savings for January 2024 to $800.00.", activityRepo.Logged[0].Description)
	assert.Equal(t, "Updated savings for January 2024 to $-120.50.", activityRepo.Logged[1].Description)
}

func TestUpsertSaving_InvalidMonth(t *testing.T) {
	savingService := NewSavingService(testutil.NewMockSavingRepository(), NewActivityService(testutil.NewMockActivityRepository()))

	_, err := savingService.UpsertSaving(context.Background(), 80000, 14, 2024)
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}
