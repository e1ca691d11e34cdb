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

// RecurringService handles recurring obligation business logic. The
// materializer never touches obligations; all mutation happens here.
type RecurringService struct {
	recurringRepo domain.RecurringRepository
	activity      *ActivityService
}

func NewRecurringService(recurringRepo domain.RecurringRepository, activity *ActivityService) *RecurringService {
	return &RecurringService{recurringRepo: recurringRepo, activity: activity}
}

// RecurringInput holds the input for creating or updating an obligation.
// DayOfMonth is not accepted from callers: it is always derived from
// StartDate, which keeps the two consistent by construction.
type RecurringInput struct {
	Description string
	Amount      int64
	Kind        domain.EntryKind
	Category    string
	StartDate   time.Time
	Labels      []string
}

func (in *RecurringInput) toObligation() (*domain.RecurringObligation, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if in.Amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !in.Kind.Valid() {
		return nil, domain.ErrInvalidKind
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, domain.ErrCategoryRequired
	}
	if in.StartDate.IsZero() {
		return nil, domain.ErrStartDateRequired
	}

	start := util.Midnight(in.StartDate)
	return &domain.RecurringObligation{
		Description: description,
		Amount:      in.Amount,
		Kind:        in.Kind,
		Category:    strings.TrimSpace(in.Category),
		StartDate:   start,
		DayOfMonth:  start.Day(),
		Labels:      normalizeLabels(in.Labels),
	}, nil
}

func (s *RecurringService) CreateRecurring(ctx context.Context, input RecurringInput) (*domain.RecurringObligation, error) {
	ob, err := input.toObligation()
	if err != nil {
		return nil, err
	}

	created, err := s.recurringRepo.Create(ctx, ob)
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActionCreate,
		fmt.Sprintf("Created recurring transaction: %q.", created.Description))
	return created, nil
}

func (s *RecurringService) ListRecurring(ctx context.Context) ([]*domain.RecurringObligation, error) {
	return s.recurringRepo.List(ctx)
}

// UpdateRecurring replaces all fields of an obligation; DayOfMonth is
// re-derived from the new StartDate.
func (s *RecurringService) UpdateRecurring(ctx context.Context, id uuid.UUID, input RecurringInput) (*domain.RecurringObligation, error) {
	ob, err := input.toObligation()
	if err != nil {
		return nil, err
	}
	if _, err := s.recurringRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	ob.ID = id

	updated, err := s.recurringRepo.Update(ctx, ob)
	if err != nil {
		return nil, err
	}

	s.activity.Append(ctx, domain.ActionUpdate,
		fmt.Sprintf("Updated recurring transaction: %q.", updated.Description))
	return updated, nil
}

// DeleteRecurring removes the obligation. Entries already materialized from
// it are untouched.
func (s *RecurringService) DeleteRecurring(ctx context.Context, id uuid.UUID) error {
	existing, err := s.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.recurringRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Append(ctx, domain.ActionDelete,
		fmt.Sprintf("Deleted recurring transaction: %q.", existing.Description))
	return nil
}
