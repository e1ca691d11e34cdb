package domain

import (
	"context"

	"github.com/google/uuid"
)

// Category names an income or expense bucket. Name is unique within a kind.
// Default categories are seeded at first boot. AffectsBudget excludes a
// category from budget totals when false.
type Category struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Kind          EntryKind `json:"kind"`
	IsDefault     bool      `json:"isDefault"`
	AffectsBudget bool      `json:"affectsBudget"`
}

type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	// Rename changes the category name and cascades the rename into entries
	// and budgets in the same atomic unit.
	Rename(ctx context.Context, id uuid.UUID, newName string) (*Category, error)
	SetAffectsBudget(ctx context.Context, id uuid.UUID, affects bool) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
