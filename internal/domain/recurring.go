package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecurringObligation is a template that generates one ledger entry per
// elapsed month. DayOfMonth always equals the calendar day of StartDate as
// of the last create or update; short months clamp at materialization time,
// never here.
type RecurringObligation struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Kind        EntryKind `json:"kind"`
	Category    string    `json:"category"`
	StartDate   time.Time `json:"startDate"`
	DayOfMonth  int       `json:"dayOfMonth"`
	Labels      []string  `json:"labels"`
}

type RecurringRepository interface {
	Create(ctx context.Context, ob *RecurringObligation) (*RecurringObligation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RecurringObligation, error)
	List(ctx context.Context) ([]*RecurringObligation, error)
	// Update replaces all fields including the full label set.
	Update(ctx context.Context, ob *RecurringObligation) (*RecurringObligation, error)
	// Delete removes the obligation. Entries already materialized from it
	// keep their dangling back-reference.
	Delete(ctx context.Context, id uuid.UUID) error
}
