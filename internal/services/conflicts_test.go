package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/models"
)

func parsedItem(id, name, category string) *models.ParsedMenuItem {
	return &models.ParsedMenuItem{
		ID:         id,
		UserAction: models.UserActionKeep,
		Fields: map[string]*models.Field{
			models.FieldName:     {Value: models.TextValue(name), IsValid: true},
			models.FieldCategory: {Value: models.TextValue(category), IsValid: true},
		},
	}
}

func existingItem(id int, name, category string, version int) *models.ExistingItem {
	return &models.ExistingItem{ID: id, MenuID: 1, Name: name, Category: category, Version: version}
}

func TestResolveConflictsNoMatch(t *testing.T) {
	results := ResolveConflicts(
		[]*models.ParsedMenuItem{parsedItem("a", "Truffle Fries", "Starters")},
		[]*models.ExistingItem{existingItem(1, "Margherita Pizza", "Mains", 1)},
	)

	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, models.ConflictNoConflict, results[0].Resolution.Status)
	assert.Nil(t, results[0].Resolution.ExistingItemID)
}

func TestResolveConflictsSingleCandidate(t *testing.T) {
	results := ResolveConflicts(
		[]*models.ParsedMenuItem{parsedItem("a", "  margherita   PIZZA ", "Mains")},
		[]*models.ExistingItem{existingItem(42, "Margherita Pizza", "Mains", 3)},
	)

	require.Len(t, results, 1)
	res := results[0].Resolution
	assert.Equal(t, models.ConflictUpdateCandidate, res.Status)
	require.NotNil(t, res.ExistingItemID)
	assert.Equal(t, 42, *res.ExistingItemID)
	require.NotNil(t, res.ExistingItemVersion)
	assert.Equal(t, 3, *res.ExistingItemVersion)
}

func TestResolveConflictsCategoryTieBreak(t *testing.T) {
	existing := []*models.ExistingItem{
		existingItem(1, "House Red", "Wine List", 1),
		existingItem(2, "House Red", "Happy Hour", 1),
	}

	results := ResolveConflicts(
		[]*models.ParsedMenuItem{parsedItem("a", "House Red", "wine list")},
		existing,
	)

	require.Len(t, results, 1)
	res := results[0].Resolution
	assert.Equal(t, models.ConflictUpdateCandidate, res.Status)
	require.NotNil(t, res.ExistingItemID)
	assert.Equal(t, 1, *res.ExistingItemID)
}

func TestResolveConflictsMultipleCandidates(t *testing.T) {
	existing := []*models.ExistingItem{
		existingItem(9, "House Red", "Wine List", 1),
		existingItem(3, "House Red", "Wine List", 2),
	}

	results := ResolveConflicts(
		[]*models.ParsedMenuItem{parsedItem("a", "House Red", "Wine List")},
		existing,
	)

	require.Len(t, results, 1)
	res := results[0].Resolution
	assert.Equal(t, models.ConflictMultipleCandidates, res.Status)
	assert.Nil(t, res.ExistingItemID)
	assert.Equal(t, []int{3, 9}, res.CandidateItemIDs)
	assert.NotEmpty(t, res.Message)
}

func TestResolveConflictsNamelessItemIsolated(t *testing.T) {
	items := []*models.ParsedMenuItem{
		parsedItem("bad", "   ", "Mains"),
		parsedItem("good", "Margherita Pizza", "Mains"),
	}
	existing := []*models.ExistingItem{existingItem(1, "Margherita Pizza", "Mains", 1)}

	results := ResolveConflicts(items, existing)

	require.Len(t, results, 2)
	assert.Equal(t, models.ConflictProcessingError, results[0].Resolution.Status)
	assert.NotEmpty(t, results[0].Resolution.Message)
	assert.Equal(t, models.ConflictUpdateCandidate, results[1].Resolution.Status)
}

func TestResolveConflictsDeterministic(t *testing.T) {
	items := []*models.ParsedMenuItem{
		parsedItem("a", "House Red", "Wine List"),
		parsedItem("b", "Truffle Fries", "Starters"),
		parsedItem("c", "Margherita Pizza", "Mains"),
	}
	existing := []*models.ExistingItem{
		existingItem(1, "House Red", "Wine List", 1),
		existingItem(2, "House Red", "Happy Hour", 1),
		existingItem(3, "Margherita Pizza", "Mains", 4),
	}

	first := ResolveConflicts(items, existing)
	second := ResolveConflicts(items, existing)
	assert.Equal(t, first, second)
}
