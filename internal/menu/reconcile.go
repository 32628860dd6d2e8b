package menu

import (
	"github.com/google/uuid"

	"github.com/platewise/menuflow/internal/models"
)

// ApplyFieldEdit sets a new value on one field, validates it, and
// recomputes the item's derived status. The field is created if the
// extraction did not produce it.
func ApplyFieldEdit(item *models.ParsedMenuItem, name string, value models.FieldValue) {
	f, ok := item.Fields[name]
	if !ok {
		f = &models.Field{}
		if item.Fields == nil {
			item.Fields = map[string]*models.Field{}
		}
		item.Fields[name] = f
	}
	if f.OriginalValue == nil {
		orig := f.Value.Clone()
		f.OriginalValue = &orig
	}
	f.Value = value

	res := ValidateField(name, value)
	f.IsValid = res.IsValid
	f.ErrorMessage = res.ErrorMessage

	RecomputeStatus(item)
}

// RecomputeStatus derives the item status from field validity, the
// user action, the conflict state, and edit history. Any invalid field
// wins; statuses are never set independently of this derivation.
func RecomputeStatus(item *models.ParsedMenuItem) {
	for _, f := range item.Fields {
		if !f.IsValid {
			item.Status = models.ItemStatusClientValidation
			return
		}
	}

	if item.UserAction == models.UserActionIgnore {
		item.Status = models.ItemStatusIgnored
		return
	}

	if item.ConflictResolution != nil && item.ConflictResolution.Status == models.ConflictProcessingError {
		item.Status = models.ItemStatusError
		return
	}

	for _, f := range item.Fields {
		if f.Edited() {
			item.Status = models.ItemStatusEdited
			return
		}
	}

	item.Status = models.ItemStatusNew
}

// SetUserAction toggles keep/ignore. Switching to ignore leaves the
// stored import action intact so re-enabling keep can restore prior
// intent; switching to keep derives a default action from the conflict
// state when none was explicitly chosen.
func SetUserAction(item *models.ParsedMenuItem, action models.UserAction) {
	item.UserAction = action

	if action == models.UserActionKeep && item.ImportAction == "" {
		if derived, ok := DeriveDefaultAction(item.ConflictResolution); ok {
			item.ImportAction = derived
			if derived == models.ImportActionUpdate && item.ExistingItemID == nil {
				item.ExistingItemID = item.ConflictResolution.ExistingItemID
				item.ExistingItemVersion = item.ConflictResolution.ExistingItemVersion
			}
		}
	}

	RecomputeStatus(item)
}

// DeriveDefaultAction maps a conflict resolution to the default import
// action: no conflict means create, a single update candidate means
// update. Ambiguous or errored resolutions leave the choice to the
// user.
func DeriveDefaultAction(cr *models.ConflictResolution) (models.ImportAction, bool) {
	if cr == nil {
		return "", false
	}
	switch cr.Status {
	case models.ConflictNoConflict:
		return models.ImportActionCreate, true
	case models.ConflictUpdateCandidate:
		if cr.ExistingItemID != nil {
			return models.ImportActionUpdate, true
		}
	}
	return "", false
}

// ApplyConflictResolution overwrites the item's conflict state from a
// conflict-check round. The import action and target item are filled
// only when the user has not already chosen them.
func ApplyConflictResolution(item *models.ParsedMenuItem, res models.ConflictResolution) {
	item.ConflictResolution = &res

	if item.ImportAction == "" {
		if derived, ok := DeriveDefaultAction(&res); ok {
			item.ImportAction = derived
		}
	}
	if item.ExistingItemID == nil && res.Status == models.ConflictUpdateCandidate {
		item.ExistingItemID = res.ExistingItemID
		item.ExistingItemVersion = res.ExistingItemVersion
	}

	RecomputeStatus(item)
}

// EligibleForImport reports whether finalize should commit the item.
// Commit re-filters on this: an ignored item is never imported, no
// matter what its stored import action says.
func EligibleForImport(item *models.ParsedMenuItem) bool {
	if item.UserAction != models.UserActionKeep {
		return false
	}
	return item.ImportAction == models.ImportActionCreate || item.ImportAction == models.ImportActionUpdate
}

// FilterEligible returns the items finalize may commit.
func FilterEligible(items []*models.ParsedMenuItem) []*models.ParsedMenuItem {
	var out []*models.ParsedMenuItem
	for _, it := range items {
		if EligibleForImport(it) {
			out = append(out, it)
		}
	}
	return out
}

// AddServingOption appends an empty serving-option row to a wine item
// and revalidates the field.
func AddServingOption(item *models.ParsedMenuItem) models.ServingOption {
	opt := models.ServingOption{
		ID:           uuid.NewString(),
		IsValidSize:  false, // empty size is invalid until filled in
		IsValidPrice: true,
	}
	opts := append(item.FieldValueOrZero(models.FieldWineServingOptions).Options, opt)
	ApplyFieldEdit(item, models.FieldWineServingOptions, models.OptionsValue(opts))
	syncServingValidity(item)
	return opt
}

// UpdateServingOption edits one serving-option row, tracking validity
// per row without touching siblings.
func UpdateServingOption(item *models.ParsedMenuItem, optionID, size, price string) bool {
	// Build a fresh slice: the current one may be shared with the
	// field's OriginalValue.
	opts := item.FieldValueOrZero(models.FieldWineServingOptions).Options
	out := make([]models.ServingOption, len(opts))
	found := false
	for i, o := range opts {
		if o.ID == optionID {
			o.Size = size
			o.Price = price
			o.IsValidSize = ValidateServingSize(size).IsValid
			o.IsValidPrice = ValidateServingPrice(price).IsValid
			found = true
		}
		out[i] = o
	}
	if found {
		ApplyFieldEdit(item, models.FieldWineServingOptions, models.OptionsValue(out))
		syncServingValidity(item)
	}
	return found
}

// RemoveServingOption deletes one row; its tracked errors disappear
// with it and sibling rows keep their own state.
func RemoveServingOption(item *models.ParsedMenuItem, optionID string) bool {
	opts := item.FieldValueOrZero(models.FieldWineServingOptions).Options
	out := make([]models.ServingOption, 0, len(opts))
	found := false
	for _, o := range opts {
		if o.ID == optionID {
			found = true
			continue
		}
		out = append(out, o)
	}
	if found {
		ApplyFieldEdit(item, models.FieldWineServingOptions, models.OptionsValue(out))
		syncServingValidity(item)
	}
	return found
}

// syncServingValidity folds per-row validity into the field's own
// validity so item status derivation sees serving-option errors.
func syncServingValidity(item *models.ParsedMenuItem) {
	f, ok := item.Fields[models.FieldWineServingOptions]
	if !ok {
		return
	}
	f.IsValid = true
	f.ErrorMessage = ""
	for _, o := range f.Value.Options {
		if !o.IsValidSize || !o.IsValidPrice {
			f.IsValid = false
			f.ErrorMessage = "one or more serving options are invalid"
			break
		}
	}
	RecomputeStatus(item)
}
