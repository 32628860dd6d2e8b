package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/models"
)

func testItem() *models.ParsedMenuItem {
	items := BuildPreviewItems([]models.ExtractedItem{{
		Name:     "Caesar Salad",
		Category: "starters",
		ItemType: models.ItemTypeFood,
	}})
	return items[0]
}

func TestStatusDerivation(t *testing.T) {
	item := testItem()
	assert.Equal(t, models.ItemStatusNew, item.Status)

	// Valid edit moves the item to edited.
	ApplyFieldEdit(item, models.FieldName, models.TextValue("Caesar Salad Deluxe"))
	assert.Equal(t, models.ItemStatusEdited, item.Status)

	// One invalid field dominates regardless of other valid fields.
	ApplyFieldEdit(item, models.FieldPrice, models.NumericValue("-1"))
	assert.Equal(t, models.ItemStatusClientValidation, item.Status)
	assert.False(t, item.Fields[models.FieldPrice].IsValid)
	assert.NotEmpty(t, item.Fields[models.FieldPrice].ErrorMessage)

	// Fixing the invalid field reverts to edited.
	ApplyFieldEdit(item, models.FieldPrice, models.NumericValue("11.00"))
	assert.Equal(t, models.ItemStatusEdited, item.Status)
}

func TestUserActionToggleRestoresIntent(t *testing.T) {
	item := testItem()
	item.ImportAction = models.ImportActionCreate

	SetUserAction(item, models.UserActionIgnore)
	assert.Equal(t, models.ItemStatusIgnored, item.Status)
	// Stored intent survives the ignore.
	assert.Equal(t, models.ImportActionCreate, item.ImportAction)
	assert.False(t, EligibleForImport(item))

	SetUserAction(item, models.UserActionKeep)
	assert.Equal(t, models.ImportActionCreate, item.ImportAction)
	assert.True(t, EligibleForImport(item))
}

func TestKeepDerivesActionFromConflict(t *testing.T) {
	existingID := 42
	version := 3

	item := testItem()
	ApplyConflictResolution(item, models.ConflictResolution{
		Status:              models.ConflictUpdateCandidate,
		ExistingItemID:      &existingID,
		ExistingItemVersion: &version,
	})

	assert.Equal(t, models.ImportActionUpdate, item.ImportAction)
	require.NotNil(t, item.ExistingItemID)
	assert.Equal(t, existingID, *item.ExistingItemID)
	require.NotNil(t, item.ExistingItemVersion)
	assert.Equal(t, version, *item.ExistingItemVersion)
}

func TestConflictCheckDoesNotOverrideExplicitChoice(t *testing.T) {
	item := testItem()
	item.ImportAction = models.ImportActionSkip

	ApplyConflictResolution(item, models.ConflictResolution{Status: models.ConflictNoConflict})
	assert.Equal(t, models.ImportActionSkip, item.ImportAction, "explicit user choice is preserved")
}

func TestDeriveDefaultAction(t *testing.T) {
	id := 7

	tests := []struct {
		name string
		cr   *models.ConflictResolution
		want models.ImportAction
		ok   bool
	}{
		{"nil resolution", nil, "", false},
		{"no conflict", &models.ConflictResolution{Status: models.ConflictNoConflict}, models.ImportActionCreate, true},
		{"update candidate with id", &models.ConflictResolution{Status: models.ConflictUpdateCandidate, ExistingItemID: &id}, models.ImportActionUpdate, true},
		{"update candidate without id", &models.ConflictResolution{Status: models.ConflictUpdateCandidate}, "", false},
		{"multiple candidates", &models.ConflictResolution{Status: models.ConflictMultipleCandidates}, "", false},
		{"processing error", &models.ConflictResolution{Status: models.ConflictProcessingError}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DeriveDefaultAction(tt.cr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConflictProcessingErrorStatus(t *testing.T) {
	item := testItem()
	ApplyConflictResolution(item, models.ConflictResolution{
		Status:  models.ConflictProcessingError,
		Message: "malformed item",
	})
	assert.Equal(t, models.ItemStatusError, item.Status)
	assert.Equal(t, models.ImportAction(""), item.ImportAction)
}

func TestFilterEligible(t *testing.T) {
	keepCreate := testItem()
	keepCreate.ImportAction = models.ImportActionCreate

	ignoredCreate := testItem()
	ignoredCreate.ImportAction = models.ImportActionCreate
	SetUserAction(ignoredCreate, models.UserActionIgnore)

	keepSkip := testItem()
	keepSkip.ImportAction = models.ImportActionSkip

	keepUnset := testItem()

	eligible := FilterEligible([]*models.ParsedMenuItem{keepCreate, ignoredCreate, keepSkip, keepUnset})
	require.Len(t, eligible, 1)
	assert.Equal(t, keepCreate.ID, eligible[0].ID)
}

func TestServingOptionRows(t *testing.T) {
	items := BuildPreviewItems([]models.ExtractedItem{{
		Name:     "Barolo",
		Category: "wine list",
		ItemType: models.ItemTypeWine,
		WineServing: []models.ExtractedServing{
			{Size: "Glass", Price: "14"},
		},
	}})
	item := items[0]
	require.Equal(t, models.ItemStatusNew, item.Status)

	// New row starts empty: invalid size, item drops to validation error.
	added := AddServingOption(item)
	assert.Equal(t, models.ItemStatusClientValidation, item.Status)

	// Sibling row keeps its own state.
	opts := item.FieldValueOrZero(models.FieldWineServingOptions).Options
	require.Len(t, opts, 2)
	assert.True(t, opts[0].IsValidSize)
	assert.True(t, opts[0].IsValidPrice)

	// Filling in the row restores validity.
	require.True(t, UpdateServingOption(item, added.ID, "Bottle", "52"))
	assert.NotEqual(t, models.ItemStatusClientValidation, item.Status)

	// Breaking then removing the row drops its errors with it.
	require.True(t, UpdateServingOption(item, added.ID, "Bottle", "not-a-price"))
	assert.Equal(t, models.ItemStatusClientValidation, item.Status)
	require.True(t, RemoveServingOption(item, added.ID))
	assert.NotEqual(t, models.ItemStatusClientValidation, item.Status)

	assert.False(t, UpdateServingOption(item, "missing", "x", "y"))
	assert.False(t, RemoveServingOption(item, "missing"))
}

func TestServingOptionEditPreservesOriginal(t *testing.T) {
	items := BuildPreviewItems([]models.ExtractedItem{{
		Name:     "Barolo",
		Category: "wine list",
		ItemType: models.ItemTypeWine,
		WineServing: []models.ExtractedServing{
			{Size: "Glass", Price: "14"},
			{Size: "Bottle", Price: "52"},
		},
	}})
	item := items[0]

	field := item.Fields[models.FieldWineServingOptions]
	glassID := field.Value.Options[0].ID

	// Editing an extraction-provided row must not rewrite the recorded
	// original, and the edit must register on the item status.
	require.True(t, UpdateServingOption(item, glassID, "Glass", "99"))

	require.NotNil(t, field.OriginalValue)
	require.Len(t, field.OriginalValue.Options, 2)
	assert.Equal(t, "14", field.OriginalValue.Options[0].Price)
	assert.Equal(t, "99", field.Value.Options[0].Price)
	assert.True(t, field.Edited())
	assert.Equal(t, models.ItemStatusEdited, item.Status)

	// Removing a row leaves the original row set intact too.
	require.True(t, RemoveServingOption(item, glassID))
	require.Len(t, field.OriginalValue.Options, 2)
	assert.Equal(t, "Glass", field.OriginalValue.Options[0].Size)
	require.Len(t, field.Value.Options, 1)
	assert.Equal(t, "Bottle", field.Value.Options[0].Size)
}
