package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/testutil"
)

func newTestMaterializer() (*Materializer, *testutil.MockRecurringRepository, *testutil.MockEntryRepository) {
	recurringRepo := testutil.NewMockRecurringRepository()
	entryRepo := testutil.NewMockEntryRepository()
	activity := NewActivityService(testutil.NewMockActivityRepository())
	ledger := NewLedgerService(entryRepo, activity)
	return NewMaterializer(recurringRepo, entryRepo, ledger), recurringRepo, entryRepo
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func entryDates(entryRepo *testutil.MockEntryRepository) []time.Time {
	var dates []time.Time
	for _, e := range entryRepo.Entries {
		dates = append(dates, e.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func TestMaterializeDue_GeneratesAllElapsedMonths(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	ob, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Rent",
		Amount:      -120000,
		Kind:        domain.EntryKindExpense,
		Category:    "Utilities",
		StartDate:   date(2024, time.January, 15),
		DayOfMonth:  15,
	})
	require.NoError(t, err)

	n, err := m.MaterializeDue(context.Background(), ob, date(2024, time.April, 20))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	want := []time.Time{
		date(2024, time.January, 15),
		date(2024, time.February, 15),
		date(2024, time.March, 15),
		date(2024, time.April, 15),
	}
	assert.Equal(t, want, entryDates(entryRepo))

	for _, e := range entryRepo.Entries {
		assert.Equal(t, "Rent", e.Description)
		assert.Equal(t, int64(-120000), e.Amount)
		require.NotNil(t, e.RecurringID)
		assert.Equal(t, ob.ID, *e.RecurringID)
	}
}

func TestMaterializeDue_Idempotent(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	ob, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Rent",
		Amount:      -120000,
		Kind:        domain.EntryKindExpense,
		Category:    "Utilities",
		StartDate:   date(2024, time.January, 15),
		DayOfMonth:  15,
	})
	require.NoError(t, err)

	asOf := date(2024, time.April, 20)
	n, err := m.MaterializeDue(context.Background(), ob, asOf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Repeated runs with the same asOf add nothing
	for i := 0; i < 3; i++ {
		n, err = m.MaterializeDue(context.Background(), ob, asOf)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
	assert.Len(t, entryRepo.Entries, 4)
}

func TestMaterializeDue_DayOfMonthDoesNotDrift(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	// A day-31 obligation clamps in short months but must return to 31
	ob, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Salary",
		Amount:      350000,
		Kind:        domain.EntryKindIncome,
		Category:    "Salary",
		StartDate:   date(2024, time.January, 31),
		DayOfMonth:  31,
	})
	require.NoError(t, err)

	n, err := m.MaterializeDue(context.Background(), ob, date(2024, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	want := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29), // leap year clamp
		date(2024, time.March, 31),
		date(2024, time.April, 30),
		date(2024, time.May, 31),
		date(2024, time.June, 30),
	}
	assert.Equal(t, want, entryDates(entryRepo))
}

func TestMaterializeDue_NothingDueBeforeStart(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	ob, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Gym",
		Amount:      -4500,
		Kind:        domain.EntryKindExpense,
		Category:    "Health",
		StartDate:   date(2024, time.May, 10),
		DayOfMonth:  10,
	})
	require.NoError(t, err)

	n, err := m.MaterializeDue(context.Background(), ob, date(2024, time.April, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, entryRepo.Entries)

	// asOf just before the first due day also yields nothing
	n, err = m.MaterializeDue(context.Background(), ob, date(2024, time.May, 9))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMaterializeDue_ResumesAfterFailure(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	ob, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Rent",
		Amount:      -120000,
		Kind:        domain.EntryKindExpense,
		Category:    "Utilities",
		StartDate:   date(2024, time.January, 15),
		DayOfMonth:  15,
	})
	require.NoError(t, err)

	// Fail the third insert
	calls := 0
	entryRepo.InsertFn = func(entry *domain.LedgerEntry) error {
		calls++
		if calls == 3 {
			return domain.ErrStorage
		}
		return nil
	}

	n, err := m.MaterializeDue(context.Background(), ob, date(2024, time.April, 20))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStorage))
	assert.Equal(t, 2, n)
	assert.Len(t, entryRepo.Entries, 2)

	// The next run picks up from the last persisted month, no duplicates
	entryRepo.InsertFn = nil
	n, err = m.MaterializeDue(context.Background(), ob, date(2024, time.April, 20))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, entryRepo.Entries, 4)

	want := []time.Time{
		date(2024, time.January, 15),
		date(2024, time.February, 15),
		date(2024, time.March, 15),
		date(2024, time.April, 15),
	}
	assert.Equal(t, want, entryDates(entryRepo))
}

func TestMaterializeDue_ResumeAfterShortMonthKeepsDay(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	ob, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Salary",
		Amount:      350000,
		Kind:        domain.EntryKindIncome,
		Category:    "Salary",
		StartDate:   date(2024, time.January, 31),
		DayOfMonth:  31,
	})
	require.NoError(t, err)

	// Interrupt right after the clamped February entry
	calls := 0
	entryRepo.InsertFn = func(entry *domain.LedgerEntry) error {
		calls++
		if calls == 3 {
			return domain.ErrStorage
		}
		return nil
	}

	n, err := m.MaterializeDue(context.Background(), ob, date(2024, time.April, 30))
	require.Error(t, err)
	assert.Equal(t, 2, n)

	// Resuming from the Feb 29 cursor must not inherit day 29
	entryRepo.InsertFn = nil
	n, err = m.MaterializeDue(context.Background(), ob, date(2024, time.April, 30))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 31),
		date(2024, time.April, 30),
	}
	assert.Equal(t, want, entryDates(entryRepo))

	// Repeat runs stay settled
	for i := 0; i < 5; i++ {
		n, err = m.MaterializeDue(context.Background(), ob, date(2024, time.April, 30))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	}
}

func TestMaterializeAll_ObligationsFailIndependently(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	_, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Rent",
		Amount:      -120000,
		Kind:        domain.EntryKindExpense,
		Category:    "Utilities",
		StartDate:   date(2024, time.March, 1),
		DayOfMonth:  1,
	})
	require.NoError(t, err)

	// Broken obligation: empty category fails entry validation
	_, err = recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Broken",
		Amount:      -100,
		Kind:        domain.EntryKindExpense,
		Category:    "",
		StartDate:   date(2024, time.March, 1),
		DayOfMonth:  1,
	})
	require.NoError(t, err)

	total := m.MaterializeAll(context.Background(), date(2024, time.April, 20))
	assert.Equal(t, 2, total) // Rent for March and April

	for _, e := range entryRepo.Entries {
		assert.Equal(t, "Rent", e.Description)
	}
}

func TestMaterializeDue_MidMonthUpdateKeepsCursor(t *testing.T) {
	m, recurringRepo, entryRepo := newTestMaterializer()

	ob, err := recurringRepo.Create(context.Background(), &domain.RecurringObligation{
		Description: "Insurance",
		Amount:      -8000,
		Kind:        domain.EntryKindExpense,
		Category:    "Health",
		StartDate:   date(2024, time.January, 20),
		DayOfMonth:  20,
	})
	require.NoError(t, err)

	n, err := m.MaterializeDue(context.Background(), ob, date(2024, time.February, 25))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Moving the due day earlier does not regenerate already-covered months
	ob.DayOfMonth = 5
	n, err = m.MaterializeDue(context.Background(), ob, date(2024, time.March, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, entryRepo.Entries, 3)
}
