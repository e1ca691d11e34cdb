package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/testutil"
)

type categoryFixture struct {
	service      *CategoryService
	categoryRepo *testutil.MockCategoryRepository
	entryRepo    *testutil.MockEntryRepository
	budgetRepo   *testutil.MockBudgetRepository
	activityRepo *testutil.MockActivityRepository
}

func newTestCategory() categoryFixture {
	categoryRepo := testutil.NewMockCategoryRepository()
	entryRepo := testutil.NewMockEntryRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	activityRepo := testutil.NewMockActivityRepository()
	return categoryFixture{
		service:      NewCategoryService(categoryRepo, entryRepo, budgetRepo, NewActivityService(activityRepo)),
		categoryRepo: categoryRepo,
		entryRepo:    entryRepo,
		budgetRepo:   budgetRepo,
		activityRepo: activityRepo,
	}
}

func TestCreateCategory_Success(t *testing.T) {
	f := newTestCategory()

	category, err := f.service.CreateCategory(context.Background(), "  Books ", domain.EntryKindExpense)
	require.NoError(t, err)
	assert.Equal(t, "Books", category.Name)
	assert.False(t, category.IsDefault)
	assert.True(t, category.AffectsBudget)

	require.Len(t, f.activityRepo.Logged, 1)
	assert.Equal(t, `Created new expense category: "Books".`, f.activityRepo.Logged[0].Description)
}

func TestCreateCategory_Validation(t *testing.T) {
	f := newTestCategory()

	_, err := f.service.CreateCategory(context.Background(), "", domain.EntryKindExpense)
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	// '#' prefix is reserved for the overall-budget key
	_, err = f.service.CreateCategory(context.Background(), "##OVERALL_BUDGET##", domain.EntryKindExpense)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.CreateCategory(context.Background(), "#tagged", domain.EntryKindExpense)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.CreateCategory(context.Background(), "Books", "transfer")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	f := newTestCategory()

	_, err := f.service.CreateCategory(context.Background(), "Books", domain.EntryKindExpense)
	require.NoError(t, err)

	_, err = f.service.CreateCategory(context.Background(), "Books", domain.EntryKindExpense)
	assert.ErrorIs(t, err, domain.ErrCategoryExists)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Same name under the other kind is a different bucket
	_, err = f.service.CreateCategory(context.Background(), "Books", domain.EntryKindIncome)
	assert.NoError(t, err)
}

func TestRenameCategory(t *testing.T) {
	f := newTestCategory()

	category, err := f.service.CreateCategory(context.Background(), "Books", domain.EntryKindExpense)
	require.NoError(t, err)

	renamed, err := f.service.RenameCategory(context.Background(), category.ID, "Reading")
	require.NoError(t, err)
	assert.Equal(t, "Reading", renamed.Name)

	last := f.activityRepo.Logged[len(f.activityRepo.Logged)-1]
	assert.Equal(t, `Updated category "Books" to "Reading".`, last.Description)
}

func TestRenameCategory_NotFound(t *testing.T) {
	f := newTestCategory()

	_, err := f.service.RenameCategory(context.Background(), uuid.New(), "Reading")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCategory_InUseByEntries(t *testing.T) {
	f := newTestCategory()

	category, err := f.service.CreateCategory(context.Background(), "Books", domain.EntryKindExpense)
	require.NoError(t, err)

	_, err = f.entryRepo.Insert(context.Background(), &domain.LedgerEntry{
		Description: "Novel",
		Amount:      -2500,
		Date:        time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Kind:        domain.EntryKindExpense,
		Category:    "Books",
		Quantity:    1,
	})
	require.NoError(t, err)

	err = f.service.DeleteCategory(context.Background(), category.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	assert.Len(t, f.categoryRepo.Categories, 1, "category survives a refused delete")
}

func TestDeleteCategory_InUseByBudgets(t *testing.T) {
	f := newTestCategory()

	category, err := f.service.CreateCategory(context.Background(), "Books", domain.EntryKindExpense)
	require.NoError(t, err)

	_, _, err = f.budgetRepo.Upsert(context.Background(), domain.CategoryScope("Books"), 10000, 3, 2024)
	require.NoError(t, err)

	err = f.service.DeleteCategory(context.Background(), category.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
}

func TestDeleteCategory_Unreferenced(t *testing.T) {
	f := newTestCategory()

	category, err := f.service.CreateCategory(context.Background(), "Books", domain.EntryKindExpense)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteCategory(context.Background(), category.ID))
	assert.Empty(t, f.categoryRepo.Categories)

	last := f.activityRepo.Logged[len(f.activityRepo.Logged)-1]
	assert.Equal(t, domain.ActionDelete, last.Action)
	assert.Equal(t, `Deleted category "Books".`, last.Description)
}

func TestSeedDefaults(t *testing.T) {
	f := newTestCategory()

	require.NoError(t, f.service.SeedDefaults(context.Background()))

	categories, err := f.service.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 12)
	for _, c := range categories {
		assert.True(t, c.IsDefault)
		assert.True(t, c.AffectsBudget)
	}

	// A populated table makes seeding a no-op
	require.NoError(t, f.service.SeedDefaults(context.Background()))
	categories, err = f.service.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 12)
}
