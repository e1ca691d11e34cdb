package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/probudget/probudget-backend/internal/domain"
)

// ActivityService fronts the append-only activity log. Appends are
// best-effort: a failed log write is reported to the operational log and
// never to the caller, so it can never fail the mutation that produced it.
type ActivityService struct {
	activityRepo domain.ActivityRepository
}

func NewActivityService(activityRepo domain.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Append records one audit entry. A failed write is logged and dropped.
func (s *ActivityService) Append(ctx context.Context, action, description string) {
	if err := s.activityRepo.Append(ctx, action, description); err != nil {
		log.Error().Err(err).Str("action", action).Str("description", description).
			Msg("Failed to append activity log entry")
	}
}

// List returns the activity log newest first.
func (s *ActivityService) List(ctx context.Context) ([]*domain.ActivityLogEntry, error) {
	return s.activityRepo.List(ctx)
}
