package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/models"
)

func TestBuildMenuItemParams(t *testing.T) {
	price := 24.0
	items := BuildPreviewItems([]models.ExtractedItem{{
		Name:         " Steak Frites ",
		Description:  "With herb butter",
		Price:        &price,
		Category:     "mains",
		Ingredients:  []string{"beef", "potato"},
		DietaryFlags: []string{"gluten-free"},
	}})

	params, err := BuildMenuItemParams(items[0])
	require.NoError(t, err)
	assert.Equal(t, "Steak Frites", params.Name)
	assert.Equal(t, "Mains", params.Category)
	assert.Equal(t, models.ItemTypeFood, params.ItemType)
	require.NotNil(t, params.Price)
	assert.Equal(t, 24.0, *params.Price)
	require.NotNil(t, params.Description)
	assert.Equal(t, "With herb butter", *params.Description)
	assert.Equal(t, []string{"beef", "potato"}, params.Ingredients)
}

func TestBuildMenuItemParamsWine(t *testing.T) {
	items := BuildPreviewItems([]models.ExtractedItem{{
		Name:         "Barolo",
		Category:     "wine list",
		ItemType:     models.ItemTypeWine,
		WineProducer: "G. Conterno",
		WineVintage:  "2017",
		WineRegion:   "Piedmont",
		WineGrape:    "Nebbiolo",
		WineServing: []models.ExtractedServing{
			{Size: "Glass", Price: "16"},
			{Size: "Bottle", Price: ""},
		},
	}})

	params, err := BuildMenuItemParams(items[0])
	require.NoError(t, err)
	assert.Equal(t, models.ItemTypeWine, params.ItemType)
	require.NotNil(t, params.WineVintage)
	assert.Equal(t, 2017, *params.WineVintage)
	require.Len(t, params.WineServing, 2)
	assert.Equal(t, "Glass", params.WineServing[0].Size)
}

func TestBuildMenuItemParamsRejectsAtCommitTime(t *testing.T) {
	missingName := BuildPreviewItems([]models.ExtractedItem{{Name: "x"}})[0]
	ApplyFieldEdit(missingName, models.FieldName, models.TextValue("   "))
	_, err := BuildMenuItemParams(missingName)
	assert.ErrorIs(t, err, ErrNameRequired)

	badPrice := BuildPreviewItems([]models.ExtractedItem{{Name: "x"}})[0]
	badPrice.Fields[models.FieldPrice].Value = models.NumericValue("not a price")
	_, err = BuildMenuItemParams(badPrice)
	assert.Error(t, err)

	badVintage := BuildPreviewItems([]models.ExtractedItem{{
		Name: "x", ItemType: models.ItemTypeWine, WineVintage: "NV",
	}})[0]
	_, err = BuildMenuItemParams(badVintage)
	assert.Error(t, err)

	badServing := BuildPreviewItems([]models.ExtractedItem{{
		Name: "x", ItemType: models.ItemTypeWine,
		WineServing: []models.ExtractedServing{{Size: "", Price: "9"}},
	}})[0]
	_, err = BuildMenuItemParams(badServing)
	assert.Error(t, err)
}
