package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EntryKind string

const (
	EntryKindIncome  EntryKind = "income"
	EntryKindExpense EntryKind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	return k == EntryKindIncome || k == EntryKindExpense
}

// LedgerEntry is one recorded financial event. Amount is in minor currency
// units (cents); its sign is independent of Kind, which carries the
// income/expense semantics on its own.
type LedgerEntry struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount"`
	Date        time.Time  `json:"date"`
	Kind        EntryKind  `json:"kind"`
	Category    string     `json:"category"`
	Quantity    int32      `json:"quantity"`
	Labels      []string   `json:"labels"`
	RecurringID *uuid.UUID `json:"recurringId,omitempty"`
}

// EntryFilter narrows Query results. Nil fields are ignored.
type EntryFilter struct {
	Kind        *EntryKind
	Category    *string
	From        *time.Time
	To          *time.Time
	RecurringID *uuid.UUID
}

// EntryRepository is the ledger store. Every mutation is atomic: it either
// applies the entry row, all label associations and nothing else, or leaves
// the store unchanged.
type EntryRepository interface {
	Insert(ctx context.Context, entry *LedgerEntry) (*LedgerEntry, error)
	// InsertBatch persists all entries in one atomic unit; partial success
	// is never observable.
	InsertBatch(ctx context.Context, entries []*LedgerEntry) ([]*LedgerEntry, error)
	// Update replaces all mutable fields of an existing entry, including the
	// full label set.
	Update(ctx context.Context, entry *LedgerEntry) (*LedgerEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Query returns entries ordered by date descending then id descending,
	// with labels aggregated per entry.
	Query(ctx context.Context, filter EntryFilter) ([]*LedgerEntry, error)
	// MaxDateForRecurring returns the latest entry date materialized from the
	// given obligation, or nil if none exists.
	MaxDateForRecurring(ctx context.Context, recurringID uuid.UUID) (*time.Time, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
}
