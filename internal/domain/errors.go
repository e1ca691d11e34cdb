package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a repository or service wraps one of
// the four base errors so callers can classify with errors.Is.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("invalid input")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage failure")
)

// Field-level validation errors.
var (
	ErrDescriptionRequired = fmt.Errorf("%w: description is required", ErrValidation)
	ErrCategoryRequired    = fmt.Errorf("%w: category is required", ErrValidation)
	ErrDateRequired        = fmt.Errorf("%w: date is required", ErrValidation)
	ErrInvalidKind         = fmt.Errorf("%w: kind must be income or expense", ErrValidation)
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be non-zero", ErrValidation)
	ErrInvalidQuantity     = fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	ErrInvalidMonth        = fmt.Errorf("%w: month must be between 1 and 12", ErrValidation)
	ErrNameRequired        = fmt.Errorf("%w: name is required", ErrValidation)
	ErrStartDateRequired   = fmt.Errorf("%w: start date is required", ErrValidation)
)

// Conflict errors.
var (
	ErrCategoryInUse  = fmt.Errorf("%w: category is referenced by entries or budgets", ErrConflict)
	ErrCategoryExists = fmt.Errorf("%w: category already exists", ErrConflict)
	ErrBudgetExists   = fmt.Errorf("%w: budget already exists for that month", ErrConflict)
)
