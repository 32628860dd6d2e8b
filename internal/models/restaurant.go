package models

import (
	"time"
)

// Restaurant is the ownership scope for menus, previews, and staff.
type Restaurant struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int       `json:"owner_id"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRestaurantRequest is the request body for creating a restaurant
type CreateRestaurantRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}

// UpdateRestaurantRequest is the request body for updating a restaurant
type UpdateRestaurantRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}
