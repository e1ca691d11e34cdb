package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/testutil"
)

func newTestLedger() (*LedgerService, *testutil.MockEntryRepository, *testutil.MockActivityRepository) {
	entryRepo := testutil.NewMockEntryRepository()
	activityRepo := testutil.NewMockActivityRepository()
	return NewLedgerService(entryRepo, NewActivityService(activityRepo)), entryRepo, activityRepo
}

func validInput() CreateEntryInput {
	return CreateEntryInput{
		Description: "Coffee",
		Amount:      -450,
		Date:        date(2024, time.March, 3),
		Kind:        domain.EntryKindExpense,
		Category:    "Dining Out",
	}
}

func TestCreateEntry_Success(t *testing.T) {
	ledger, entryRepo, activityRepo := newTestLedger()

	entry, err := ledger.CreateEntry(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Coffee", entry.Description)
	assert.Equal(t, int64(-450), entry.Amount)
	assert.Equal(t, int32(1), entry.Quantity, "quantity defaults to 1")
	assert.Len(t, entryRepo.Entries, 1)

	require.Len(t, activityRepo.Logged, 1)
	assert.Equal(t, domain.ActionCreate, activityRepo.Logged[0].Action)
	assert.Equal(t, `Added transaction: "Coffee".`, activityRepo.Logged[0].Description)
}

func TestCreateEntry_Validation(t *testing.T) {
	ledger, entryRepo, _ := newTestLedger()

	tests := []struct {
		name    string
		mutate  func(*CreateEntryInput)
		wantErr error
	}{
		{"empty description", func(in *CreateEntryInput) { in.Description = "  " }, domain.ErrDescriptionRequired},
		{"zero amount", func(in *CreateEntryInput) { in.Amount = 0 }, domain.ErrInvalidAmount},
		{"zero date", func(in *CreateEntryInput) { in.Date = time.Time{} }, domain.ErrDateRequired},
		{"bad kind", func(in *CreateEntryInput) { in.Kind = "transfer" }, domain.ErrInvalidKind},
		{"empty category", func(in *CreateEntryInput) { in.Category = "" }, domain.ErrCategoryRequired},
		{"negative quantity", func(in *CreateEntryInput) { in.Quantity = -2 }, domain.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := ledger.CreateEntry(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, entryRepo.Entries, "no entry persists on validation failure")
}

func TestCreateEntry_NormalizesLabels(t *testing.T) {
	ledger, _, _ := newTestLedger()

	in := validInput()
	in.Labels = []string{" groceries ", "Groceries", "weekly", "", "GROCERIES"}

	entry, err := ledger.CreateEntry(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Groceries", "Weekly"}, entry.Labels)
}

func TestCreateEntry_TruncatesDateToMidnight(t *testing.T) {
	ledger, _, _ := newTestLedger()

	in := validInput()
	in.Date = time.Date(2024, time.March, 3, 17, 45, 12, 0, time.UTC)

	entry, err := ledger.CreateEntry(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 3), entry.Date)
}

func TestCreateEntry_AuditFailureDoesNotSurface(t *testing.T) {
	ledger, entryRepo, activityRepo := newTestLedger()
	activityRepo.AppendErr = errors.New("audit store down")

	entry, err := ledger.CreateEntry(context.Background(), validInput())
	require.NoError(t, err, "audit failures never surface")
	assert.NotNil(t, entry)
	assert.Len(t, entryRepo.Entries, 1)
}

func TestCreateEntries_Batch(t *testing.T) {
	ledger, entryRepo, activityRepo := newTestLedger()

	inputs := []CreateEntryInput{validInput(), validInput(), validInput()}
	created, err := ledger.CreateEntries(context.Background(), inputs)
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Len(t, entryRepo.Entries, 3)

	require.Len(t, activityRepo.Logged, 1, "a batch gets one audit record")
	assert.Equal(t, "Imported 3 transactions.", activityRepo.Logged[0].Description)
}

func TestCreateEntries_InvalidItemFailsWholeBatch(t *testing.T) {
	ledger, entryRepo, _ := newTestLedger()

	bad := validInput()
	bad.Description = ""
	inputs := []CreateEntryInput{validInput(), bad, validInput()}

	_, err := ledger.CreateEntries(context.Background(), inputs)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, entryRepo.Entries, "nothing persists when any item is invalid")
}

func TestCreateEntries_StorageFailureIsAtomic(t *testing.T) {
	ledger, entryRepo, _ := newTestLedger()
	entryRepo.BatchErr = domain.ErrStorage

	_, err := ledger.CreateEntries(context.Background(), []CreateEntryInput{validInput(), validInput()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Empty(t, entryRepo.Entries, "partial batch is never observable")
}

func TestUpdateEntry_PreservesRecurringLink(t *testing.T) {
	ledger, entryRepo, activityRepo := newTestLedger()

	recurringID := uuid.New()
	in := validInput()
	in.RecurringID = &recurringID
	created, err := ledger.CreateEntry(context.Background(), in)
	require.NoError(t, err)

	update := validInput()
	update.Description = "Espresso"
	updated, err := ledger.UpdateEntry(context.Background(), created.ID, update)
	require.NoError(t, err)

	assert.Len(t, entryRepo.Entries, 1, "update replaces in place")
	assert.Equal(t, "Espresso", updated.Description)
	require.NotNil(t, updated.RecurringID, "updates keep the materialization link")
	assert.Equal(t, recurringID, *updated.RecurringID)

	last := activityRepo.Logged[len(activityRepo.Logged)-1]
	assert.Equal(t, domain.ActionUpdate, last.Action)
	assert.Equal(t, `Updated transaction: "Espresso".`, last.Description)
}

func TestUpdateEntry_NotFound(t *testing.T) {
	ledger, _, _ := newTestLedger()

	_, err := ledger.UpdateEntry(context.Background(), uuid.New(), validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteEntry_AuditsOriginalDescription(t *testing.T) {
	ledger, entryRepo, activityRepo := newTestLedger()

	created, err := ledger.CreateEntry(context.Background(), validInput())
	require.NoError(t, err)

	require.NoError(t, ledger.DeleteEntry(context.Background(), created.ID))
	assert.Empty(t, entryRepo.Entries)

	last := activityRepo.Logged[len(activityRepo.Logged)-1]
	assert.Equal(t, domain.ActionDelete, last.Action)
	assert.Equal(t, `Deleted transaction: "Coffee".`, last.Description)
}

func TestDeleteEntry_NotFound(t *testing.T) {
	ledger, _, _ := newTestLedger()

	err := ledger.DeleteEntry(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListEntries_OrderedByDateThenID(t *testing.T) {
	ledger, _, _ := newTestLedger()

	older := validInput()
	older.Date = date(2024, time.February, 1)
	_, err := ledger.CreateEntry(context.Background(), older)
	require.NoError(t, err)

	// Three entries sharing one date exercise the tie-break
	for i := 0; i < 3; i++ {
		_, err := ledger.CreateEntry(context.Background(), validInput())
		require.NoError(t, err)
	}

	entries, err := ledger.ListEntries(context.Background(), domain.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if prev.Date.Equal(cur.Date) {
			assert.Greater(t, prev.ID.String(), cur.ID.String(), "same-date entries ordered by id descending")
		} else {
			assert.True(t, prev.Date.After(cur.Date), "entries ordered by date descending")
		}
	}
	assert.Equal(t, date(2024, time.February, 1), entries[3].Date, "oldest entry comes last")
}

func TestLabelRegistry_SharedAcrossEntries(t *testing.T) {
	ledger, entryRepo, _ := newTestLedger()

	first := validInput()
	first.Labels = []string{"Vacation"}
	_, err := ledger.CreateEntry(context.Background(), first)
	require.NoError(t, err)

	second := validInput()
	second.Labels = []string{"vacation"}
	_, err = ledger.CreateEntry(context.Background(), second)
	require.NoError(t, err)

	assert.Len(t, entryRepo.Labels, 1, "same label name maps to one label row")
}
