package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Activity log action kinds.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ActivityLogEntry is one append-only audit record. It carries no foreign
// keys and is used for display only.
type ActivityLogEntry struct {
	ID          uuid.UUID `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
}

type ActivityRepository interface {
	Append(ctx context.Context, action, description string) error
	// List returns entries newest first.
	List(ctx context.Context) ([]*ActivityLogEntry, error)
}
