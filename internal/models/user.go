package models

import (
	"time"
)

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int        `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose in JSON
	Name         *string    `json:"name,omitempty"`
	Role         Role       `json:"role"`
	RestaurantID *int       `json:"restaurant_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// IsAdmin checks if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsOwner checks if the user has owner role or higher
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

// Invitation is a pending staff invitation scoped to one restaurant.
// The token is returned by the API; delivery is out of scope.
type Invitation struct {
	ID           int        `json:"id"`
	Token        string     `json:"token"`
	Email        string     `json:"email"`
	RestaurantID int        `json:"restaurant_id"`
	Role         Role       `json:"role"`
	ExpiresAt    time.Time  `json:"expires_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// RegisterRequest is the request body for owner registration
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

// LoginRequest is the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after successful login/register
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// InviteStaffRequest is the request body for inviting a staff member
type InviteStaffRequest struct {
	Email string `json:"email"`
	Role  Role   `json:"role,omitempty"`
}

// AcceptInviteRequest is the request body for accepting an invitation
type AcceptInviteRequest struct {
	Token    string  `json:"token"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}
