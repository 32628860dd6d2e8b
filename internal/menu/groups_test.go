package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/models"
)

func previewFixture() []*models.ParsedMenuItem {
	return BuildPreviewItems([]models.ExtractedItem{
		{Name: "Steak Frites", Category: "mains"},
		{Name: "Caesar Salad", Category: "starters"},
		{Name: "Mystery Dish"},
		{Name: "Barolo", Category: "wine list", ItemType: models.ItemTypeWine},
	})
}

func TestGroupByCategoryOrdering(t *testing.T) {
	items := previewFixture()
	groups := GroupByCategory(items, []string{"desserts"})

	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}

	// Alphabetical, Uncategorized always last; tracked-but-empty
	// categories still appear.
	assert.Equal(t, []string{"Desserts", "Mains", "Starters", "Wine List", Uncategorized}, names)

	byName := map[string]int{}
	for _, g := range groups {
		byName[g.Name] = len(g.Items)
	}
	assert.Equal(t, 0, byName["Desserts"])
	assert.Equal(t, 1, byName["Mains"])
	assert.Equal(t, 1, byName[Uncategorized])
}

func TestRenameCategory(t *testing.T) {
	items := previewFixture()

	tracked, err := RenameCategory(items, nil, "mains", "Main Courses")
	require.NoError(t, err)
	assert.Contains(t, tracked, "Main Courses")

	groups := GroupByCategory(items, tracked)
	byName := map[string]int{}
	for _, g := range groups {
		byName[g.Name] = len(g.Items)
	}
	assert.Equal(t, 1, byName["Main Courses"])
	assert.NotContains(t, byName, "Mains")
}

func TestRenameCategoryCollision(t *testing.T) {
	items := previewFixture()

	// Renaming to a name that normalizes into a different existing
	// category is rejected, not merged.
	_, err := RenameCategory(items, nil, "mains", " STARTERS ")
	assert.ErrorIs(t, err, ErrCategoryCollision)

	// Renaming a category to itself (post-normalization) is a no-op.
	tracked, err := RenameCategory(items, nil, "starters", "Starters")
	require.NoError(t, err)
	assert.Nil(t, tracked)

	_, err = RenameCategory(items, nil, "mains", "   ")
	assert.ErrorIs(t, err, ErrCategoryEmptyName)

	_, err = RenameCategory(items, nil, "no such category", "Whatever")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestAddCategory(t *testing.T) {
	items := previewFixture()

	tracked, err := AddCategory(items, nil, "desserts")
	require.NoError(t, err)
	assert.Equal(t, []string{"Desserts"}, tracked)

	_, err = AddCategory(items, tracked, "DESSERTS")
	assert.ErrorIs(t, err, ErrCategoryCollision)

	_, err = AddCategory(items, tracked, "")
	assert.ErrorIs(t, err, ErrCategoryEmptyName)
}

func TestDeleteCategoryReassignsToUncategorized(t *testing.T) {
	items := previewFixture()

	tracked, err := DeleteCategory(items, nil, "mains")
	require.NoError(t, err)
	assert.NotContains(t, tracked, "Mains")

	byName := map[string]int{}
	for _, g := range GroupByCategory(items, tracked) {
		byName[g.Name] = len(g.Items)
	}
	assert.Equal(t, 2, byName[Uncategorized], "orphaned item joins the existing uncategorized one")

	_, err = DeleteCategory(items, tracked, Uncategorized)
	assert.ErrorIs(t, err, ErrCategoryProtected)
}

func TestReassignItem(t *testing.T) {
	items := previewFixture()

	err := ReassignItem(items[0], items, nil, "wine list")
	require.NoError(t, err)
	assert.Equal(t, "Wine List", items[0].FieldValueOrZero(models.FieldCategory).Text)
	assert.Equal(t, models.ItemStatusEdited, items[0].Status)

	err = ReassignItem(items[0], items, nil, "no such target")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
