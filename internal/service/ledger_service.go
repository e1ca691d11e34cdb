package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/util"
)

// LedgerService handles ledger entry business logic: validation, label
// normalization and audit logging around the atomic entry repository.
type LedgerService struct {
	entryRepo domain.EntryRepository
	activity  *ActivityService
}

func NewLedgerService(entryRepo domain.EntryRepository, activity *ActivityService) *LedgerService {
	return &LedgerService{entryRepo: entryRepo, activity: activity}
}

// CreateEntryInput holds the input for creating a ledger entry. Amount is in
// minor currency units; RecurringID is set only for materialized entries.
type CreateEntryInput struct {
	Description string
	Amount      int64
	Date        time.Time
	Kind        domain.EntryKind
	Category    string
	Quantity    int32
	Labels      []string
	RecurringID *uuid.UUID
}

func (in *CreateEntryInput) toEntry() (*domain.LedgerEntry, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if in.Amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if in.Date.IsZero() {
		return nil, domain.ErrDateRequired
	}
	if !in.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, domain.ErrCategoryRequired
	}
	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	return &domain.LedgerEntry{
		Description: description,
		Amount:      in.Amount,
		Date:        util.Midnight(in.Date),
		Kind:        in.Kind,
		Category:    strings.TrimSpace(in.Category),
		Quantity:    quantity,
		Labels:      normalizeLabels(in.Labels),
		RecurringID: in.RecurringID,
	}, nil
}

// CreateEntry validates and persists one entry atomically, then appends an
// audit record.
func (s *LedgerService) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.LedgerEntry, error) {
	entry, err := input.toEntry()
	if err != nil {
		return nil, err
	}

	created, err := s.entryRepo.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActionCreate, fmt.Sprintf("Added transaction: %q.", created.Description))
	return created, nil
}

// CreateEntries persists a batch of entries in one atomic unit. Validation
// runs up front for the whole batch, so a malformed item fails the call
// before anything is written.
func (s *LedgerService) CreateEntries(ctx context.Context, inputs []CreateEntryInput) ([]*domain.LedgerEntry, error) {
	entries := make([]*domain.LedgerEntry, 0, len(inputs))
	for _, input := range inputs {
		entry, err := input.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	created, err := s.entryRepo.InsertBatch(ctx, entries)
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActionCreate, fmt.Sprintf("Imported %d transactions.", len(created)))
	return created, nil
}

// UpdateEntry replaces all mutable fields of an existing entry, including
// the full label set.
func (s *LedgerService) UpdateEntry(ctx context.Context, id uuid.UUID, input CreateEntryInput) (*domain.LedgerEntry, error) {
	entry, err := input.toEntry()
	if err != nil {
		return nil, err
	}
	existing, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	entry.ID = id
	entry.RecurringID = existing.RecurringID

	updated, err := s.entryRepo.Update(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActionUpdate, fmt.Sprintf("Updated transaction: %q.", updated.Description))
	return updated, nil
}

// DeleteEntry removes an entry and its label associations. The description
// is captured first so the audit record survives the deletion.
func (s *LedgerService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	existing, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.entryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Append(ctx, domain.ActionDelete, fmt.Sprintf("Deleted transaction: %q.", existing.Description))
	return nil
}

// ListEntries returns entries matching the filter, newest first.
func (s *LedgerService) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.LedgerEntry, error) {
	return s.entryRepo.Query(ctx, filter)
}
