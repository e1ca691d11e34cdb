package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/probudget/probudget-backend/internal/domain"
)

// MockEntryRepository is a map-backed implementation of domain.EntryRepository
type MockEntryRepository struct {
	Entries map[uuid.UUID]*domain.LedgerEntry
	// Labels is the shared label registry, keyed by lowercased name. Every
	// insert and update resolves names through it, so two entries carrying
	// the same label observe the same ID.
	Labels map[string]uuid.UUID

	// InsertFn, when set, is consulted before each single insert; returning
	// an error aborts that insert.
	InsertFn func(entry *domain.LedgerEntry) error
	// BatchErr, when set, fails InsertBatch without committing anything.
	BatchErr error
}

// NewMockEntryRepository creates a new MockEntryRepository
func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		Entries: make(map[uuid.UUID]*domain.LedgerEntry),
		Labels:  make(map[string]uuid.UUID),
	}
}

func (m *MockEntryRepository) resolveLabels(names []string) {
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := m.Labels[key]; !ok {
			m.Labels[key] = uuid.New()
		}
	}
}

// Insert stores a single entry
func (m *MockEntryRepository) Insert(_ context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if m.InsertFn != nil {
		if err := m.InsertFn(entry); err != nil {
			return nil, err
		}
	}
	stored := *entry
	stored.ID = uuid.New()
	m.resolveLabels(stored.Labels)
	m.Entries[stored.ID] = &stored
	return &stored, nil
}

// InsertBatch stores all entries or none
func (m *MockEntryRepository) InsertBatch(ctx context.Context, entries []*domain.LedgerEntry) ([]*domain.LedgerEntry, error) {
	if m.BatchErr != nil {
		return nil, m.BatchErr
	}
	out := make([]*domain.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		stored, err := m.Insert(ctx, entry)
		if err != nil {
			// Roll back what this call added.
			for _, s := range out {
				delete(m.Entries, s.ID)
			}
			return nil, err
		}
		out = append(out, stored)
	}
	return out, nil
}

// Update replaces an existing entry
func (m *MockEntryRepository) Update(_ context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if _, ok := m.Entries[entry.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	stored := *entry
	m.resolveLabels(stored.Labels)
	m.Entries[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves an entry by ID
func (m *MockEntryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	if entry, ok := m.Entries[id]; ok {
		copied := *entry
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

// Delete removes an entry by ID
func (m *MockEntryRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.Entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Entries, id)
	return nil
}

// Query returns entries matching the filter, newest first
func (m *MockEntryRepository) Query(_ context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	var out []*domain.LedgerEntry
	for _, entry := range m.Entries {
		if filter.Kind != nil && entry.Kind != *filter.Kind {
			continue
		}
		if filter.Category != nil && entry.Category != *filter.Category {
			continue
		}
		if filter.From != nil && entry.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && entry.Date.After(*filter.To) {
			continue
		}
		if filter.RecurringID != nil {
			if entry.RecurringID == nil || *entry.RecurringID != *filter.RecurringID {
				continue
			}
		}
		copied := *entry
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

// MaxDateForRecurring returns the latest materialized date for an obligation
func (m *MockEntryRepository) MaxDateForRecurring(_ context.Context, recurringID uuid.UUID) (*time.Time, error) {
	var max *time.Time
	for _, entry := range m.Entries {
		if entry.RecurringID == nil || *entry.RecurringID != recurringID {
			continue
		}
		if max == nil || entry.Date.After(*max) {
			d := entry.Date
			max = &d
		}
	}
	return max, nil
}

// CountByCategory counts entries in a category
func (m *MockEntryRepository) CountByCategory(_ context.Context, category string) (int64, error) {
	var n int64
	for _, entry := range m.Entries {
		if entry.Category == category {
			n++
		}
	}
	return n, nil
}

// MockBudgetRepository is a map-backed implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[string]*domain.MonthlyBudget
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{Budgets: make(map[string]*domain.MonthlyBudget)}
}

func budgetKey(scopeKey string, month, year int) string {
	return scopeKey + "|" + time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// Upsert inserts or updates the budget for a (scope, month, year) key
func (m *MockBudgetRepository) Upsert(_ context.Context, scope domain.BudgetScope, amount int64, month, year int) (*domain.MonthlyBudget, bool, error) {
	key := budgetKey(scope.Key(), month, year)
	if existing, ok := m.Budgets[key]; ok {
		existing.Amount = amount
		copied := *existing
		return &copied, false, nil
	}
	budget := &domain.MonthlyBudget{
		ID:     uuid.New(),
		Scope:  scope,
		Amount: amount,
		Month:  month,
		Year:   year,
	}
	m.Budgets[key] = budget
	copied := *budget
	return &copied, true, nil
}

// Insert adds a budget, failing on a duplicate key
func (m *MockBudgetRepository) Insert(_ context.Context, budget *domain.MonthlyBudget) (*domain.MonthlyBudget, error) {
	key := budgetKey(budget.Scope.Key(), budget.Month, budget.Year)
	if _, ok := m.Budgets[key]; ok {
		return nil, domain.ErrBudgetExists
	}
	stored := *budget
	stored.ID = uuid.New()
	m.Budgets[key] = &stored
	copied := stored
	return &copied, nil
}

// List returns all budgets
func (m *MockBudgetRepository) List(_ context.Context) ([]*domain.MonthlyBudget, error) {
	out := make([]*domain.MonthlyBudget, 0, len(m.Budgets))
	for _, b := range m.Budgets {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

// CountByCategory counts budgets scoped to a category
func (m *MockBudgetRepository) CountByCategory(_ context.Context, category string) (int64, error) {
	var n int64
	for _, b := range m.Budgets {
		if name, ok := b.Scope.Category(); ok && name == category {
			n++
		}
	}
	return n, nil
}

// MockSavingRepository is a map-backed implementation of domain.SavingRepository
type MockSavingRepository struct {
	Savings map[string]*domain.MonthlySaving
}

// NewMockSavingRepository creates a new MockSavingRepository
func NewMockSavingRepository() *MockSavingRepository {
	return &MockSavingRepository{Savings: make(map[string]*domain.MonthlySaving)}
}

// Upsert inserts or updates the saving for a (month, year) key
func (m *MockSavingRepository) Upsert(_ context.Context, amount int64, month, year int) (*domain.MonthlySaving, bool, error) {
	key := budgetKey("", month, year)
	if existing, ok := m.Savings[key]; ok {
		existing.Amount = amount
		copied := *existing
		return &copied, false, nil
	}
	saving := &domain.MonthlySaving{
		ID:     uuid.New(),
		Amount: amount,
		Month:  month,
		Year:   year,
	}
	m.Savings[key] = saving
	copied := *saving
	return &copied, true, nil
}

// List returns all savings
func (m *MockSavingRepository) List(_ context.Context) ([]*domain.MonthlySaving, error) {
	out := make([]*domain.MonthlySaving, 0, len(m.Savings))
	for _, s := range m.Savings {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

// MockCategoryRepository is a map-backed implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[uuid.UUID]*domain.Category)}
}

// Create adds a category, failing on a duplicate (name, kind)
func (m *MockCategoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.Name == category.Name && c.Kind == category.Kind {
			return nil, domain.ErrCategoryExists
		}
	}
	stored := *category
	stored.ID = uuid.New()
	m.Categories[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	if c, ok := m.Categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

// List returns all categories
func (m *MockCategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.Categories))
	for _, c := range m.Categories {
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Rename changes a category's name
func (m *MockCategoryRepository) Rename(_ context.Context, id uuid.UUID, newName string) (*domain.Category, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Name = newName
	copied := *c
	return &copied, nil
}

// SetAffectsBudget flips the budget-exclusion flag
func (m *MockCategoryRepository) SetAffectsBudget(_ context.Context, id uuid.UUID, affects bool) (*domain.Category, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.AffectsBudget = affects
	copied := *c
	return &copied, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.Categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Categories, id)
	return nil
}

// Count returns the number of categories
func (m *MockCategoryRepository) Count(_ context.Context) (int64, error) {
	return int64(len(m.Categories)), nil
}

// MockRecurringRepository is a map-backed implementation of domain.RecurringRepository
type MockRecurringRepository struct {
	Obligations map[uuid.UUID]*domain.RecurringObligation
	ListErr     error
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{Obligations: make(map[uuid.UUID]*domain.RecurringObligation)}
}

// Create adds an obligation
func (m *MockRecurringRepository) Create(_ context.Context, ob *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	stored := *ob
	stored.ID = uuid.New()
	m.Obligations[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

// GetByID retrieves an obligation by ID
func (m *MockRecurringRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.RecurringObligation, error) {
	if ob, ok := m.Obligations[id]; ok {
		copied := *ob
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

// List returns all obligations
func (m *MockRecurringRepository) List(_ context.Context) ([]*domain.RecurringObligation, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]*domain.RecurringObligation, 0, len(m.Obligations))
	for _, ob := range m.Obligations {
		copied := *ob
		out = append(out, &copied)
	}
	return out, nil
}

// Update replaces an obligation
func (m *MockRecurringRepository) Update(_ context.Context, ob *domain.RecurringObligation) (*domain.RecurringObligation, error) {
	if _, ok := m.Obligations[ob.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	stored := *ob
	m.Obligations[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

// Delete removes an obligation
func (m *MockRecurringRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.Obligations[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.Obligations, id)
	return nil
}

// MockActivityRepository is a slice-backed implementation of domain.ActivityRepository
type MockActivityRepository struct {
	Logged    []*domain.ActivityLogEntry
	AppendErr error
}

// NewMockActivityRepository creates a new MockActivityRepository
func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

// Append records an audit entry
func (m *MockActivityRepository) Append(_ context.Context, action, description string) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Logged = append(m.Logged, &domain.ActivityLogEntry{
		ID:          uuid.New(),
		Timestamp:   time.Now().UTC(),
		Action:      action,
		Description: description,
	})
	return nil
}

// List returns logged entries newest first
func (m *MockActivityRepository) List(_ context.Context) ([]*domain.ActivityLogEntry, error) {
	out := make([]*domain.ActivityLogEntry, len(m.Logged))
	for i, e := range m.Logged {
		copied := *e
		out[len(m.Logged)-1-i] = &copied
	}
	return out, nil
}
