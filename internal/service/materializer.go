package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/probudget/probudget-backend/internal/domain"
	"github.com/probudget/probudget-backend/internal/util"
)

// Materializer turns recurring obligations into concrete ledger entries. It
// keeps no cursor state of its own: every run re-derives the lower bound
// from what is already persisted, which is what makes repeated runs
// idempotent.
type Materializer struct {
	recurringRepo domain.RecurringRepository
	entryRepo     domain.EntryRepository
	ledger        *LedgerService

	// Serializes runs within this process. Two concurrent runs for the same
	// obligation would observe the same last-materialized date and insert
	// duplicates.
	mu sync.Mutex
}

func NewMaterializer(recurringRepo domain.RecurringRepository, entryRepo domain.EntryRepository, ledger *LedgerService) *Materializer {
	return &Materializer{
		recurringRepo: recurringRepo,
		entryRepo:     entryRepo,
		ledger:        ledger,
	}
}

// MaterializeAll walks every obligation and inserts the entries due up to
// asOf. Obligations are processed independently: one failing is logged and
// does not block the rest. Returns the total number of entries created.
func (m *Materializer) MaterializeAll(ctx context.Context, asOf time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	obligations, err := m.recurringRepo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list recurring obligations")
		return 0
	}

	total := 0
	for _, ob := range obligations {
		n, err := m.materializeDue(ctx, ob, asOf)
		total += n
		if err != nil {
			log.Error().Err(err).Str("obligation", ob.Description).
				Msg("Failed to materialize recurring obligation")
		}
	}
	if total > 0 {
		log.Info().Int("generated", total).Msg("Materialized recurring entries")
	}
	return total
}

// MaterializeDue inserts the ledger entries due for one obligation up to
// asOf. Safe to call repeatedly with the same asOf.
func (m *Materializer) MaterializeDue(ctx context.Context, ob *domain.RecurringObligation, asOf time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.materializeDue(ctx, ob, asOf)
}

func (m *Materializer) materializeDue(ctx context.Context, ob *domain.RecurringObligation, asOf time.Time) (int, error) {
	asOf = util.Midnight(asOf)

	last, err := m.entryRepo.MaxDateForRecurring(ctx, ob.ID)
	if err != nil {
		return 0, err
	}

	// The cursor is a (year, month) pair: the first candidate month is the
	// obligation's start month, or the month after the last materialized
	// entry. Advancing by whole months, rather than by the clamped due
	// date, keeps a day-31 obligation from drifting down to day 28 after
	// passing through a short month.
	var year int
	var month time.Month
	if last == nil {
		year, month = ob.StartDate.Year(), ob.StartDate.Month()
	} else {
		year, month = util.NextMonth(last.Year(), last.Month())
	}

	inserted := 0
	for !time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).After(asOf) {
		due := util.ClampedDate(year, month, ob.DayOfMonth)
		if !due.After(asOf) && (last == nil || due.After(*last)) {
			_, err := m.ledger.CreateEntry(ctx, CreateEntryInput{
				Description: ob.Description,
				Amount:      ob.Amount,
				Date:        due,
				Kind:        ob.Kind,
				Category:    ob.Category,
				Quantity:    1,
				Labels:      ob.Labels,
				RecurringID: &ob.ID,
			})
			if err != nil {
				// Stop rather than skip ahead: the next run resumes from the
				// last persisted date.
				return inserted, fmt.Errorf("materialize %q for %s: %w",
					ob.Description, due.Format("2006-01-02"), err)
			}
			inserted++
		}
		year, month = util.NextMonth(year, month)
	}
	return inserted, nil
}
