package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/middleware"
	"github.com/platewise/menuflow/internal/models"
)

const invitationTTL = 7 * 24 * time.Hour

// requireRestaurant loads a restaurant and checks the caller may act on
// it: the owner, staff scoped to it, or a platform admin.
func (h *Handler) requireRestaurant(c *fiber.Ctx, restaurantID int) (*models.Restaurant, error) {
	r, err := h.db.GetRestaurantByID(c.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, database.ErrRestaurantNotFound) {
			return nil, Error(c, fiber.StatusNotFound, "restaurant not found")
		}
		return nil, Error(c, fiber.StatusInternalServerError, "failed to load restaurant")
	}

	if middleware.GetUserRole(c) == models.RoleAdmin {
		return r, nil
	}
	if r.OwnerID == middleware.GetUserID(c) {
		return r, nil
	}
	if middleware.GetRestaurantID(c) == r.ID {
		return r, nil
	}
	return nil, Error(c, fiber.StatusForbidden, "no access to this restaurant")
}

// CreateRestaurant creates a restaurant owned by the caller
func (h *Handler) CreateRestaurant(c *fiber.Ctx) error {
	var req models.CreateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "restaurant name is required")
	}

	r, err := h.db.CreateRestaurant(c.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create restaurant")
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: r})
}

// ListRestaurants lists the restaurants the caller can access
func (h *Handler) ListRestaurants(c *fiber.Ctx) error {
	restaurants, err := h.db.ListRestaurantsForUser(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list restaurants")
	}
	return SuccessWithMeta(c, restaurants, len(restaurants))
}

// GetRestaurant returns one restaurant
func (h *Handler) GetRestaurant(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	r, errResp := h.requireRestaurant(c, id)
	if errResp != nil {
		return errResp
	}
	return Success(c, r)
}

// UpdateRestaurant updates restaurant fields
func (h *Handler) UpdateRestaurant(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, id); errResp != nil {
		return errResp
	}

	var req models.UpdateRestaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	r, err := h.db.UpdateRestaurant(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, database.ErrRestaurantNotFound) {
			return Error(c, fiber.StatusNotFound, "restaurant not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update restaurant")
	}
	return Success(c, r)
}

// DeleteRestaurant removes a restaurant and everything scoped to it
func (h *Handler) DeleteRestaurant(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	r, errResp := h.requireRestaurant(c, id)
	if errResp != nil {
		return errResp
	}
	if r.OwnerID != middleware.GetUserID(c) && middleware.GetUserRole(c) != models.RoleAdmin {
		return Error(c, fiber.StatusForbidden, "only the owner can delete a restaurant")
	}

	if err := h.db.DeleteRestaurant(c.Context(), id); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete restaurant")
	}
	return Success(c, fiber.Map{"deleted": true})
}

// InviteStaff creates a staff invitation for a restaurant. The token is
// always returned; email delivery is best effort when SMTP is set up.
func (h *Handler) InviteStaff(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}

	r, errResp := h.requireRestaurant(c, id)
	if errResp != nil {
		return errResp
	}

	var req models.InviteStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !emailRegex.MatchString(req.Email) {
		return Error(c, fiber.StatusBadRequest, "invalid email format")
	}

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleStaff && role != models.RoleOwner {
		return Error(c, fiber.StatusBadRequest, "role must be staff or owner")
	}

	inv, err := h.db.CreateInvitation(c.Context(), uuid.NewString(), req.Email, id, role, time.Now().Add(invitationTTL))
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create invitation")
	}

	if h.email != nil && h.email.IsConfigured() {
		acceptURL := c.BaseURL() + "/accept-invite?token=" + inv.Token
		if err := h.email.SendStaffInvitation(inv.Email, r.Name, acceptURL); err != nil {
			log.Printf("Warning: failed to send invitation email to %s: %v", inv.Email, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: inv})
}

// ListStaff lists users scoped to a restaurant
func (h *Handler) ListStaff(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, id); errResp != nil {
		return errResp
	}

	staff, err := h.db.ListStaff(c.Context(), id)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list staff")
	}
	return SuccessWithMeta(c, staff, len(staff))
}
