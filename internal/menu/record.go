package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/platewise/menuflow/internal/models"
)

var ErrNameRequired = errors.New("item name is required")

// BuildMenuItemParams flattens a parsed item's field map into the
// persisted column shape. This is the commit-time gate: a missing name
// or an unparseable numeric field is an error here even if the client
// never validated the field.
func BuildMenuItemParams(item *models.ParsedMenuItem) (*models.MenuItemParams, error) {
	name := strings.TrimSpace(item.FieldValueOrZero(models.FieldName).Text)
	if name == "" {
		return nil, ErrNameRequired
	}

	itemType := item.FieldValueOrZero(models.FieldItemType).Text
	if itemType == "" {
		itemType = models.ItemTypeFood
	}

	params := &models.MenuItemParams{
		Name:         name,
		Category:     NormalizeCategory(item.FieldValueOrZero(models.FieldCategory).Text),
		ItemType:     itemType,
		Ingredients:  item.FieldValueOrZero(models.FieldIngredients).List,
		DietaryFlags: item.FieldValueOrZero(models.FieldDietaryFlags).List,
	}

	if desc := strings.TrimSpace(item.FieldValueOrZero(models.FieldDescription).Text); desc != "" {
		params.Description = &desc
	}

	price, err := parseOptionalFloat(item.FieldValueOrZero(models.FieldPrice).Text)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	if price != nil && *price < 0 {
		return nil, errors.New("price cannot be negative")
	}
	params.Price = price

	if itemType == models.ItemTypeWine {
		if v := strings.TrimSpace(item.FieldValueOrZero(models.FieldWineProducer).Text); v != "" {
			params.WineProducer = &v
		}
		if v := strings.TrimSpace(item.FieldValueOrZero(models.FieldWineRegion).Text); v != "" {
			params.WineRegion = &v
		}
		if v := strings.TrimSpace(item.FieldValueOrZero(models.FieldWineGrapeVariety).Text); v != "" {
			params.WineGrapeVariety = &v
		}
		if v := strings.TrimSpace(item.FieldValueOrZero(models.FieldWineVintage).Text); v != "" {
			year, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("invalid vintage: %w", err)
			}
			params.WineVintage = &year
		}
		for _, opt := range item.FieldValueOrZero(models.FieldWineServingOptions).Options {
			if strings.TrimSpace(opt.Size) == "" {
				return nil, errors.New("serving option size is required")
			}
			if _, err := parseOptionalFloat(opt.Price); err != nil {
				return nil, fmt.Errorf("invalid serving option price: %w", err)
			}
			params.WineServing = append(params.WineServing, opt)
		}
	}

	return params, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
