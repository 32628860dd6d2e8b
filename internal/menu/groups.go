package menu

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/platewise/menuflow/internal/models"
)

var (
	ErrCategoryEmptyName = errors.New("category name cannot be empty")
	ErrCategoryCollision = errors.New("a category with that name already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryProtected = errors.New("the Uncategorized category cannot be deleted")
)

// CategoryGroup is one row of the grouped-by-category projection.
type CategoryGroup struct {
	Name  string                   `json:"name"`
	Items []*models.ParsedMenuItem `json:"items"`
}

// CategorySet returns the union of categories present on items and the
// explicitly tracked category names, always including Uncategorized.
// The flat item list stays the single source of truth; this is a
// derived projection.
func CategorySet(items []*models.ParsedMenuItem, tracked []string) []string {
	seen := map[string]bool{Uncategorized: true}
	for _, it := range items {
		seen[itemCategory(it)] = true
	}
	for _, c := range tracked {
		seen[NormalizeCategory(c)] = true
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sortCategories(out)
	return out
}

// GroupByCategory recomputes the category -> items projection.
// Categories are ordered alphabetically with Uncategorized always
// last; tracked-but-empty categories still appear.
func GroupByCategory(items []*models.ParsedMenuItem, tracked []string) []CategoryGroup {
	categories := CategorySet(items, tracked)

	byCategory := make(map[string][]*models.ParsedMenuItem, len(categories))
	for _, it := range items {
		c := itemCategory(it)
		byCategory[c] = append(byCategory[c], it)
	}

	groups := make([]CategoryGroup, 0, len(categories))
	for _, c := range categories {
		groups = append(groups, CategoryGroup{Name: c, Items: byCategory[c]})
	}
	return groups
}

// RenameCategory moves every item under oldName to newName and returns
// the updated tracked-category list. Renaming to a name that collapses
// (post-normalization) into a different existing category is rejected,
// never silently merged. Renaming a category to itself is a no-op.
func RenameCategory(items []*models.ParsedMenuItem, tracked []string, oldName, newName string) ([]string, error) {
	if strings.TrimSpace(newName) == "" {
		return tracked, ErrCategoryEmptyName
	}

	oldC := NormalizeCategory(oldName)
	newC := NormalizeCategory(newName)
	if oldC == newC {
		return tracked, nil
	}

	for _, c := range CategorySet(items, tracked) {
		if c == newC {
			return tracked, fmt.Errorf("%w: %s", ErrCategoryCollision, newC)
		}
	}

	found := false
	for _, c := range CategorySet(items, tracked) {
		if c == oldC {
			found = true
			break
		}
	}
	if !found {
		return tracked, fmt.Errorf("%w: %s", ErrCategoryNotFound, oldC)
	}

	for _, it := range items {
		if itemCategory(it) == oldC {
			ApplyFieldEdit(it, models.FieldCategory, models.TextValue(newC))
		}
	}

	out := []string{newC}
	for _, c := range tracked {
		if n := NormalizeCategory(c); n != oldC && n != newC {
			out = append(out, n)
		}
	}
	sortCategories(out)
	return out, nil
}

// AddCategory registers a user-created category. Collisions with an
// existing category (post-normalization) are rejected.
func AddCategory(items []*models.ParsedMenuItem, tracked []string, name string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return tracked, ErrCategoryEmptyName
	}
	c := NormalizeCategory(name)
	for _, existing := range CategorySet(items, tracked) {
		if existing == c {
			return tracked, fmt.Errorf("%w: %s", ErrCategoryCollision, c)
		}
	}
	out := append(append([]string{}, tracked...), c)
	sortCategories(out)
	return out, nil
}

// DeleteCategory removes a category, reassigning any contained items to
// Uncategorized. Deleting Uncategorized itself is disallowed.
func DeleteCategory(items []*models.ParsedMenuItem, tracked []string, name string) ([]string, error) {
	c := NormalizeCategory(name)
	if c == Uncategorized {
		return tracked, ErrCategoryProtected
	}

	for _, it := range items {
		if itemCategory(it) == c {
			ApplyFieldEdit(it, models.FieldCategory, models.TextValue(Uncategorized))
		}
	}

	var out []string
	for _, t := range tracked {
		if NormalizeCategory(t) != c {
			out = append(out, NormalizeCategory(t))
		}
	}
	sortCategories(out)
	return out, nil
}

// ReassignItem moves one item to another category (the drag-and-drop
// path). The target must already exist in the category set.
func ReassignItem(item *models.ParsedMenuItem, items []*models.ParsedMenuItem, tracked []string, target string) error {
	c := NormalizeCategory(target)
	for _, existing := range CategorySet(items, tracked) {
		if existing == c {
			ApplyFieldEdit(item, models.FieldCategory, models.TextValue(c))
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCategoryNotFound, c)
}

func itemCategory(it *models.ParsedMenuItem) string {
	return NormalizeCategory(it.FieldValueOrZero(models.FieldCategory).Text)
}

// sortCategories orders alphabetically with Uncategorized pinned last.
func sortCategories(categories []string) {
	sort.Slice(categories, func(i, j int) bool {
		if categories[i] == Uncategorized {
			return false
		}
		if categories[j] == Uncategorized {
			return true
		}
		return categories[i] < categories[j]
	})
}
