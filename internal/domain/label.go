package domain

import (
	"context"

	"github.com/google/uuid"
)

// Label is a free-text tag shared across ledger entries and recurring
// obligations. Names are unique case-insensitively. Labels are created on
// first use and never deleted automatically; orphans are tolerated.
type Label struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type LabelRepository interface {
	List(ctx context.Context) ([]*Label, error)
}
