package models

// ExtractedItem is one candidate menu item as returned by the
// extraction provider, before normalization or review. Confidence maps
// field names to per-field scores in [0,1]; absent keys mean the
// provider reported none.
type ExtractedItem struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Price        *float64           `json:"price,omitempty"`
	Category     string             `json:"category,omitempty"`
	ItemType     string             `json:"item_type,omitempty"`
	Ingredients  []string           `json:"ingredients,omitempty"`
	DietaryFlags []string           `json:"dietary_flags,omitempty"`
	WineProducer string             `json:"wine_producer,omitempty"`
	WineVintage  string             `json:"wine_vintage,omitempty"`
	WineRegion   string             `json:"wine_region,omitempty"`
	WineGrape    string             `json:"wine_grape_variety,omitempty"`
	WineServing  []ExtractedServing `json:"wine_serving_options,omitempty"`
	Confidence   map[string]float64 `json:"confidence,omitempty"`
}

// ExtractedServing is a raw {size, price} pair from extraction.
type ExtractedServing struct {
	Size  string `json:"size"`
	Price string `json:"price,omitempty"`
}

// ExtractionResult is the provider's full answer for one document.
type ExtractionResult struct {
	Items    []ExtractedItem `json:"items"`
	MenuName string          `json:"menu_name,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}
