package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/models"
)

const sampleMenu = `Bistro Lumiere

Starters

Truffle Fries (v) .... 12.50
Hand cut, parmesan and herbs

Burrata (gf) ... $14

Mains

Margherita Pizza .... 18.00

Wine List

Chateau Margaux 2015 .... 24/110
`

func extract(t *testing.T, text string) *models.ExtractionResult {
	t.Helper()
	raw, err := NewRuleBasedClient().ExtractMenuText(context.Background(), text)
	require.NoError(t, err)

	result := &models.ExtractionResult{}
	require.NoError(t, json.Unmarshal([]byte(raw), result))
	return result
}

func TestRuleBasedClientParsesItems(t *testing.T) {
	result := extract(t, sampleMenu)
	require.Len(t, result.Items, 4)

	fries := result.Items[0]
	assert.Equal(t, "Truffle Fries", fries.Name)
	require.NotNil(t, fries.Price)
	assert.InDelta(t, 12.50, *fries.Price, 0.001)
	assert.Equal(t, "Starters", fries.Category)
	assert.Equal(t, models.ItemTypeFood, fries.ItemType)
	assert.Equal(t, []string{"vegetarian"}, fries.DietaryFlags)
	assert.Equal(t, "Hand cut, parmesan and herbs", fries.Description)

	burrata := result.Items[1]
	assert.Equal(t, "Burrata", burrata.Name)
	assert.Equal(t, []string{"gluten-free"}, burrata.DietaryFlags)

	pizza := result.Items[2]
	assert.Equal(t, "Margherita Pizza", pizza.Name)
	assert.Equal(t, "Mains", pizza.Category)
}

func TestRuleBasedClientWineList(t *testing.T) {
	result := extract(t, sampleMenu)
	wine := result.Items[3]

	assert.Equal(t, models.ItemTypeWine, wine.ItemType)
	assert.Equal(t, "Wine List", wine.Category)
	assert.Equal(t, "2015", wine.WineVintage)
	require.Len(t, wine.WineServing, 2)
	assert.Equal(t, models.ExtractedServing{Size: "glass", Price: "24"}, wine.WineServing[0])
	assert.Equal(t, models.ExtractedServing{Size: "bottle", Price: "110"}, wine.WineServing[1])
}

func TestRuleBasedClientEmptyDocument(t *testing.T) {
	result := extract(t, "   \n\n  ")
	assert.Empty(t, result.Items)
	assert.Empty(t, result.MenuName)
}

func TestRuleBasedClientConfidenceReported(t *testing.T) {
	result := extract(t, sampleMenu)
	for _, item := range result.Items {
		assert.Greater(t, item.Confidence[models.FieldName], 0.0)
		assert.Greater(t, item.Confidence[models.FieldPrice], 0.0)
	}
}
