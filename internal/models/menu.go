package models

import (
	"time"
)

// Menu is a named collection of items for one restaurant.
type Menu struct {
	ID             int       `json:"id"`
	RestaurantID   int       `json:"restaurant_id"`
	Name           string    `json:"name"`
	SourceDocument *string   `json:"source_document,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MenuWithItems includes the menu's items.
type MenuWithItems struct {
	Menu
	Items []*MenuItem `json:"items"`
}

// MenuItem is a persisted menu item: the ParsedMenuItem field map
// flattened into columns, plus ownership and a version counter used to
// detect concurrent edits at update time.
type MenuItem struct {
	ID               int             `json:"id"`
	MenuID           int             `json:"menu_id"`
	RestaurantID     int             `json:"restaurant_id"`
	Name             string          `json:"name"`
	Description      *string         `json:"description,omitempty"`
	Price            *float64        `json:"price,omitempty"`
	Category         string          `json:"category"`
	ItemType         string          `json:"item_type"`
	Ingredients      []string        `json:"ingredients"`
	DietaryFlags     []string        `json:"dietary_flags"`
	WineProducer     *string         `json:"wine_producer,omitempty"`
	WineVintage      *int            `json:"wine_vintage,omitempty"`
	WineRegion       *string         `json:"wine_region,omitempty"`
	WineGrapeVariety *string         `json:"wine_grape_variety,omitempty"`
	WineServing      []ServingOption `json:"wine_serving_options,omitempty"`
	Version          int             `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MenuItemParams carries the writable columns of a menu item for
// create and update operations.
type MenuItemParams struct {
	Name             string          `json:"name"`
	Description      *string         `json:"description,omitempty"`
	Price            *float64        `json:"price,omitempty"`
	Category         string          `json:"category"`
	ItemType         string          `json:"item_type"`
	Ingredients      []string        `json:"ingredients,omitempty"`
	DietaryFlags     []string        `json:"dietary_flags,omitempty"`
	WineProducer     *string         `json:"wine_producer,omitempty"`
	WineVintage      *int            `json:"wine_vintage,omitempty"`
	WineRegion       *string         `json:"wine_region,omitempty"`
	WineGrapeVariety *string         `json:"wine_grape_variety,omitempty"`
	WineServing      []ServingOption `json:"wine_serving_options,omitempty"`
}

// ExistingItem is the slice of a stored menu item the conflict resolver
// matches against: enough to compare names and categories without
// loading full rows.
type ExistingItem struct {
	ID       int    `json:"id"`
	MenuID   int    `json:"menu_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Version  int    `json:"version"`
}

// CreateMenuRequest is the body for creating a menu directly.
type CreateMenuRequest struct {
	Name string `json:"name"`
}
