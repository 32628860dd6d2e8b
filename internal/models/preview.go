package models

import (
	"time"
)

// ItemStatus is the derived review status of a parsed menu item.
// It is recomputed on every edit, never set directly.
type ItemStatus string

const (
	ItemStatusNew              ItemStatus = "new"
	ItemStatusEdited           ItemStatus = "edited"
	ItemStatusError            ItemStatus = "error"
	ItemStatusIgnored          ItemStatus = "ignored"
	ItemStatusClientValidation ItemStatus = "error_client_validation"
)

// UserAction is the reviewer's decision to include an item in the import.
type UserAction string

const (
	UserActionKeep   UserAction = "keep"
	UserActionIgnore UserAction = "ignore"
)

// ImportAction is how an item is committed during finalize.
// The empty string means no action has been chosen or derived yet.
type ImportAction string

const (
	ImportActionCreate ImportAction = "create"
	ImportActionUpdate ImportAction = "update"
	ImportActionSkip   ImportAction = "skip"
)

// FieldKind tags the shape of a field value so validation can dispatch
// on the tag instead of inspecting the runtime value.
type FieldKind string

const (
	FieldKindText    FieldKind = "text"
	FieldKindNumeric FieldKind = "numeric"
	FieldKindList    FieldKind = "list"
	FieldKindOptions FieldKind = "options"
)

// Field names used as keys in ParsedMenuItem.Fields.
const (
	FieldName               = "name"
	FieldDescription        = "description"
	FieldPrice              = "price"
	FieldCategory           = "category"
	FieldItemType           = "itemType"
	FieldIngredients        = "ingredients"
	FieldDietaryFlags       = "dietaryFlags"
	FieldWineProducer       = "wineProducer"
	FieldWineVintage        = "wineVintage"
	FieldWineRegion         = "wineRegion"
	FieldWineGrapeVariety   = "wineGrapeVariety"
	FieldWineServingOptions = "wineServingOptions"
)

// Item types carried in the itemType field.
const (
	ItemTypeFood     = "food"
	ItemTypeBeverage = "beverage"
	ItemTypeWine     = "wine"
)

// ServingOption is one purchasable {size, price} variant of a wine item.
// Validity is tracked per row; removing a row never affects siblings.
type ServingOption struct {
	ID           string `json:"id"`
	Size         string `json:"size"`
	Price        string `json:"price"`
	IsValidSize  bool   `json:"is_valid_size"`
	IsValidPrice bool   `json:"is_valid_price"`
}

// FieldValue is a tagged variant: exactly one member is meaningful
// depending on Kind. Numeric fields keep the raw string the user typed;
// validation parses it.
type FieldValue struct {
	Kind    FieldKind       `json:"kind"`
	Text    string          `json:"text,omitempty"`
	List    []string        `json:"list,omitempty"`
	Options []ServingOption `json:"options,omitempty"`
}

// TextValue builds a text-kind field value.
func TextValue(s string) FieldValue {
	return FieldValue{Kind: FieldKindText, Text: s}
}

// NumericValue builds a numeric-kind field value from its raw string form.
func NumericValue(s string) FieldValue {
	return FieldValue{Kind: FieldKindNumeric, Text: s}
}

// ListValue builds a list-kind field value.
func ListValue(items []string) FieldValue {
	return FieldValue{Kind: FieldKindList, List: items}
}

// OptionsValue builds an options-kind field value.
func OptionsValue(opts []ServingOption) FieldValue {
	return FieldValue{Kind: FieldKindOptions, Options: opts}
}

// Clone returns a copy whose slices share no backing arrays with the
// receiver, so mutating one value never leaks into the other.
func (v FieldValue) Clone() FieldValue {
	out := v
	if v.List != nil {
		out.List = append([]string(nil), v.List...)
	}
	if v.Options != nil {
		out.Options = append([]ServingOption(nil), v.Options...)
	}
	return out
}

// Equal reports whether two field values carry the same content.
func (v FieldValue) Equal(o FieldValue) bool {
	if v.Kind != o.Kind || v.Text != o.Text {
		return false
	}
	if len(v.List) != len(o.List) || len(v.Options) != len(o.Options) {
		return false
	}
	for i := range v.List {
		if v.List[i] != o.List[i] {
			return false
		}
	}
	for i := range v.Options {
		if v.Options[i] != o.Options[i] {
			return false
		}
	}
	return true
}

// Field is one editable slot on a parsed item: the current value, the
// value as extracted, validation state, and extraction confidence.
type Field struct {
	Value         FieldValue  `json:"value"`
	OriginalValue *FieldValue `json:"original_value,omitempty"`
	IsValid       bool        `json:"is_valid"`
	ErrorMessage  string      `json:"error_message,omitempty"`
	Confidence    *float64    `json:"confidence,omitempty"`
}

// Edited reports whether the field's value differs from the extracted one.
func (f *Field) Edited() bool {
	return f.OriginalValue != nil && !f.Value.Equal(*f.OriginalValue)
}

// ParsedMenuItem is the unit of work moving through preview ->
// conflict-check -> finalize. The ID is generated when the preview is
// built and stays stable for the whole lifecycle.
type ParsedMenuItem struct {
	ID                  string              `json:"id"`
	Fields              map[string]*Field   `json:"fields"`
	Status              ItemStatus          `json:"status"`
	UserAction          UserAction          `json:"user_action"`
	ImportAction        ImportAction        `json:"import_action,omitempty"`
	ConflictResolution  *ConflictResolution `json:"conflict_resolution,omitempty"`
	ExistingItemID      *int                `json:"existing_item_id,omitempty"`
	ExistingItemVersion *int                `json:"existing_item_version,omitempty"`
}

// FieldValueOrZero returns the named field's value, or a zero value if
// the field is absent.
func (it *ParsedMenuItem) FieldValueOrZero(name string) FieldValue {
	if f, ok := it.Fields[name]; ok {
		return f.Value
	}
	return FieldValue{}
}

// PreviewStatus tracks document extraction progress on a stored preview.
type PreviewStatus string

const (
	PreviewStatusProcessing PreviewStatus = "processing"
	PreviewStatusReady      PreviewStatus = "ready"
	PreviewStatusFailed     PreviewStatus = "failed"
)

// MenuPreview is the durable, not-yet-persisted set of parsed items
// produced from one uploaded document.
type MenuPreview struct {
	ID           string            `json:"id"`
	RestaurantID int               `json:"restaurant_id"`
	DocumentName string            `json:"document_name"`
	StorageKey   string            `json:"storage_key,omitempty"`
	Status       PreviewStatus     `json:"status"`
	Items        []*ParsedMenuItem `json:"items"`
	Categories   []string          `json:"categories"`
	ErrorMessage string            `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
