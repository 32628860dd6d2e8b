package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/models"
)

// CreateMenu creates an empty menu for a restaurant
func (h *Handler) CreateMenu(c *fiber.Ctx) error {
	restaurantID, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, restaurantID); errResp != nil {
		return errResp
	}

	var req models.CreateMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "menu name is required")
	}

	m, err := h.db.CreateMenu(c.Context(), restaurantID, req.Name, nil)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create menu")
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: m})
}

// ListMenus lists a restaurant's menus
func (h *Handler) ListMenus(c *fiber.Ctx) error {
	restaurantID, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, restaurantID); errResp != nil {
		return errResp
	}

	menus, err := h.db.ListMenus(c.Context(), restaurantID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list menus")
	}
	return SuccessWithMeta(c, menus, len(menus))
}

// requireMenu loads a menu and checks restaurant access through it.
func (h *Handler) requireMenu(c *fiber.Ctx) (*models.Menu, error) {
	menuID, err := c.ParamsInt("menuId")
	if err != nil {
		return nil, Error(c, fiber.StatusBadRequest, "invalid menu id")
	}

	m, err := h.db.GetMenuByID(c.Context(), menuID)
	if err != nil {
		if errors.Is(err, database.ErrMenuNotFound) {
			return nil, Error(c, fiber.StatusNotFound, "menu not found")
		}
		return nil, Error(c, fiber.StatusInternalServerError, "failed to load menu")
	}
	if _, errResp := h.requireRestaurant(c, m.RestaurantID); errResp != nil {
		return nil, errResp
	}
	return m, nil
}

// GetMenu returns one menu with its items
func (h *Handler) GetMenu(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	items, err := h.db.ListMenuItems(c.Context(), m.ID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to load menu items")
	}
	if items == nil {
		items = []*models.MenuItem{}
	}

	return Success(c, models.MenuWithItems{Menu: *m, Items: items})
}

// DeleteMenu deletes a menu and its items
func (h *Handler) DeleteMenu(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	if err := h.db.DeleteMenu(c.Context(), m.ID); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete menu")
	}
	return Success(c, fiber.Map{"deleted": true})
}

// CreateMenuItem adds one item to a menu directly
func (h *Handler) CreateMenuItem(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	var params models.MenuItemParams
	if err := c.BodyParser(&params); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(params.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "item name is required")
	}

	item, err := h.db.CreateMenuItem(c.Context(), m.ID, m.RestaurantID, &params)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to create item")
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: item})
}

type updateMenuItemRequest struct {
	models.MenuItemParams
	Version int `json:"version"`
}

// UpdateMenuItem overwrites an item's fields, guarded by the version
// the client last read. A stale version is a conflict, not a silent
// overwrite.
func (h *Handler) UpdateMenuItem(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	var req updateMenuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "item name is required")
	}
	if req.Version <= 0 {
		return Error(c, fiber.StatusBadRequest, "current item version is required")
	}

	current, err := h.db.GetMenuItemByID(c.Context(), itemID)
	if err != nil {
		if errors.Is(err, database.ErrMenuItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load item")
	}
	if current.MenuID != m.ID {
		return Error(c, fiber.StatusNotFound, "item not found")
	}

	item, err := h.db.UpdateMenuItem(c.Context(), itemID, req.Version, &req.MenuItemParams)
	if err != nil {
		if errors.Is(err, database.ErrVersionMismatch) {
			return Error(c, fiber.StatusConflict, "item was modified by someone else, reload and retry")
		}
		if errors.Is(err, database.ErrMenuItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to update item")
	}
	return Success(c, item)
}

// DeleteMenuItem removes one item
func (h *Handler) DeleteMenuItem(c *fiber.Ctx) error {
	m, errResp := h.requireMenu(c)
	if errResp != nil {
		return errResp
	}

	itemID, err := c.ParamsInt("itemId")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid item id")
	}

	current, err := h.db.GetMenuItemByID(c.Context(), itemID)
	if err != nil {
		if errors.Is(err, database.ErrMenuItemNotFound) {
			return Error(c, fiber.StatusNotFound, "item not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to load item")
	}
	if current.MenuID != m.ID {
		return Error(c, fiber.StatusNotFound, "item not found")
	}

	if err := h.db.DeleteMenuItem(c.Context(), itemID); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete item")
	}
	return Success(c, fiber.Map{"deleted": true})
}
