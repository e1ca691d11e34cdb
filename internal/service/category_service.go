package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/probudget/probudget-backend/internal/domain"
)

// Default categories seeded on first boot.
var (
	defaultExpenseCategories = []string{
		"Groceries", "Utilities", "Transport", "Entertainment",
		"Health", "Dining Out", "Shopping", "Other",
	}
	defaultIncomeCategories = []string{"Salary", "Stocks", "Gifts", "Other"}
)

// CategoryService handles category business logic, including the in-use
// check that guards deletion. The check queries for references instead of
// relying on storage-level foreign keys, keeping the behavior portable.
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	entryRepo    domain.EntryRepository
	budgetRepo   domain.BudgetRepository
	activity     *ActivityService
}

func NewCategoryService(
	categoryRepo domain.CategoryRepository,
	entryRepo domain.EntryRepository,
	budgetRepo domain.BudgetRepository,
	activity *ActivityService,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		entryRepo:    entryRepo,
		budgetRepo:   budgetRepo,
		activity:     activity,
	}
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	// Names starting with '#' are reserved so user categories can never
	// collide with the overall-budget storage key.
	if strings.HasPrefix(name, "#") {
		return "", fmt.Errorf("%w: category names must not start with '#'", domain.ErrValidation)
	}
	return name, nil
}

// CreateCategory creates a user category. User categories are never
// default-flagged and count toward budgets unless toggled off later.
func (s *CategoryService) CreateCategory(ctx context.Context, name string, kind domain.EntryKind) (*domain.Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, domain.ErrInvalidKind
	}

	created, err := s.categoryRepo.Create(ctx, &domain.Category{
		Name:          name,
		Kind:          kind,
		IsDefault:     false,
		AffectsBudget: true,
	})
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActionCreate,
		fmt.Sprintf("Created new %s category: %q.", created.Kind, created.Name))
	return created, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// RenameCategory renames a category and cascades into entries and budgets.
func (s *CategoryService) RenameCategory(ctx context.Context, id uuid.UUID, newName string) (*domain.Category, error) {
	newName, err := validateCategoryName(newName)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName := existing.Name

	renamed, err := s.categoryRepo.Rename(ctx, id, newName)
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActionUpdate,
		fmt.Sprintf("Updated category %q to %q.", oldName, renamed.Name))
	return renamed, nil
}

// SetAffectsBudget toggles whether the category counts toward budget totals.
func (s *CategoryService) SetAffectsBudget(ctx context.Context, id uuid.UUID, affects bool) (*domain.Category, error) {
	return s.categoryRepo.SetAffectsBudget(ctx, id, affects)
}

// DeleteCategory removes a category unless any ledger entry or budget still
// references it, in which case it reports ErrCategoryInUse.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	entryRefs, err := s.entryRepo.CountByCategory(ctx, category.Name)
	if err != nil {
		return err
	}
	budgetRefs, err := s.budgetRepo.CountByCategory(ctx, category.Name)
	if err != nil {
		return err
	}
	if entryRefs > 0 || budgetRefs > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Append(ctx, domain.ActionDelete, fmt.Sprintf("Deleted category %q.", category.Name))
	return nil
}

// SeedDefaults inserts the default category set when the table is empty.
// Called once at startup; a non-empty table makes it a no-op.
func (s *CategoryService) SeedDefaults(ctx context.Context) error {
	count, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Info().Msg("Seeding default categories")
	for _, name := range defaultExpenseCategories {
		if err := s.seedOne(ctx, name, domain.EntryKindExpense); err != nil {
			return err
		}
	}
	for _, name := range defaultIncomeCategories {
		if err := s.seedOne(ctx, name, domain.EntryKindIncome); err != nil {
			return err
		}
	}
	return nil
}

func (s *CategoryService) seedOne(ctx context.Context, name string, kind domain.EntryKind) error {
	_, err := s.categoryRepo.Create(ctx, &domain.Category{
		Name:          name,
		Kind:          kind,
		IsDefault:     true,
		AffectsBudget: true,
	})
	if err != nil {
		return fmt.Errorf("seed category %q: %w", name, err)
	}
	return nil
}
