package menu

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/platewise/menuflow/internal/models"
)

// BuildPreviewItems turns raw extraction candidates into reviewable
// parsed items: stable ids, normalized categories, per-field confidence
// carried over, every field validated once so status starts correct.
func BuildPreviewItems(extracted []models.ExtractedItem) []*models.ParsedMenuItem {
	items := make([]*models.ParsedMenuItem, 0, len(extracted))
	for _, e := range extracted {
		items = append(items, buildPreviewItem(e))
	}
	return items
}

func buildPreviewItem(e models.ExtractedItem) *models.ParsedMenuItem {
	itemType := e.ItemType
	if itemType == "" {
		itemType = models.ItemTypeFood
	}

	fields := map[string]*models.Field{
		models.FieldName:         newField(models.TextValue(e.Name), e.Confidence[models.FieldName]),
		models.FieldDescription:  newField(models.TextValue(e.Description), e.Confidence[models.FieldDescription]),
		models.FieldPrice:        newField(models.NumericValue(priceString(e.Price)), e.Confidence[models.FieldPrice]),
		models.FieldCategory:     newField(models.TextValue(NormalizeCategory(e.Category)), e.Confidence[models.FieldCategory]),
		models.FieldItemType:     newField(models.TextValue(itemType), e.Confidence[models.FieldItemType]),
		models.FieldIngredients:  newField(models.ListValue(e.Ingredients), e.Confidence[models.FieldIngredients]),
		models.FieldDietaryFlags: newField(models.ListValue(e.DietaryFlags), e.Confidence[models.FieldDietaryFlags]),
	}

	if itemType == models.ItemTypeWine {
		fields[models.FieldWineProducer] = newField(models.TextValue(e.WineProducer), e.Confidence[models.FieldWineProducer])
		fields[models.FieldWineVintage] = newField(models.NumericValue(e.WineVintage), e.Confidence[models.FieldWineVintage])
		fields[models.FieldWineRegion] = newField(models.TextValue(e.WineRegion), e.Confidence[models.FieldWineRegion])
		fields[models.FieldWineGrapeVariety] = newField(models.TextValue(e.WineGrape), e.Confidence[models.FieldWineGrapeVariety])
		fields[models.FieldWineServingOptions] = newField(models.OptionsValue(buildServingOptions(e.WineServing)), e.Confidence[models.FieldWineServingOptions])
	}

	item := &models.ParsedMenuItem{
		ID:         uuid.NewString(),
		Fields:     fields,
		UserAction: models.UserActionKeep,
	}

	for name, f := range fields {
		res := ValidateField(name, f.Value)
		f.IsValid = res.IsValid
		f.ErrorMessage = res.ErrorMessage
	}
	syncServingValidity(item)
	RecomputeStatus(item)
	return item
}

func newField(v models.FieldValue, confidence float64) *models.Field {
	// OriginalValue must not alias Value's slices: later in-place row
	// edits would rewrite the extracted original and hide the edit.
	orig := v.Clone()
	f := &models.Field{
		Value:         v,
		OriginalValue: &orig,
		IsValid:       true,
	}
	if confidence > 0 {
		c := confidence
		f.Confidence = &c
	}
	return f
}

func buildServingOptions(raw []models.ExtractedServing) []models.ServingOption {
	opts := make([]models.ServingOption, 0, len(raw))
	for _, r := range raw {
		opts = append(opts, models.ServingOption{
			ID:           uuid.NewString(),
			Size:         r.Size,
			Price:        r.Price,
			IsValidSize:  ValidateServingSize(r.Size).IsValid,
			IsValidPrice: ValidateServingPrice(r.Price).IsValid,
		})
	}
	return opts
}

func priceString(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
