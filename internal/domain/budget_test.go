package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudgetScope_Overall(t *testing.T) {
	scope := OverallScope()
	assert.True(t, scope.IsOverall())
	assert.Equal(t, OverallBudgetKey, scope.Key())

	_, ok := scope.Category()
	assert.False(t, ok)
}

func TestBudgetScope_Category(t *testing.T) {
	scope := CategoryScope("Groceries")
	assert.False(t, scope.IsOverall())
	assert.Equal(t, "Groceries", scope.Key())

	name, ok := scope.Category()
	assert.True(t, ok)
	assert.Equal(t, "Groceries", name)
}

func TestScopeFromKey_RoundTrip(t *testing.T) {
	for _, scope := range []BudgetScope{OverallScope(), CategoryScope("Transport"), CategoryScope("Dining Out")} {
		assert.Equal(t, scope, ScopeFromKey(scope.Key()))
	}
}

func TestEntryKind_Valid(t *testing.T) {
	assert.True(t, EntryKindIncome.Valid())
	assert.True(t, EntryKindExpense.Valid())
	assert.False(t, EntryKind("transfer").Valid())
	assert.False(t, EntryKind("").Valid())
}
