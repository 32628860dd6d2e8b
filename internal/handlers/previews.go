package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/menu"
	"github.com/platewise/menuflow/internal/models"
	"github.com/platewise/menuflow/internal/services"
)

const maxDocumentSize = 10 * 1024 * 1024

// previewResponse is the preview plus its grouped-by-category
// projection, recomputed on every read and mutation.
type previewResponse struct {
	Preview  *models.MenuPreview  `json:"preview"`
	Groups   []menu.CategoryGroup `json:"groups"`
	Warnings []string             `json:"warnings,omitempty"`
}

func (h *Handler) previewPayload(p *models.MenuPreview, warnings []string) previewResponse {
	return previewResponse{
		Preview:  p,
		Groups:   menu.GroupByCategory(p.Items, p.Categories),
		Warnings: warnings,
	}
}

// UploadMenuPreview accepts a menu document, stores it, runs
// extraction, and returns a reviewable preview. Extraction producing
// zero items is a warning on the preview, not a request failure.
func (h *Handler) UploadMenuPreview(c *fiber.Ctx) error {
	restaurantID, err := c.ParamsInt("id")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid restaurant id")
	}
	if _, errResp := h.requireRestaurant(c, restaurantID); errResp != nil {
		return errResp
	}
	if h.extractor == nil {
		return Error(c, fiber.StatusServiceUnavailable, "menu extraction is not configured")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "document file is required")
	}
	contentType := file.Header.Get("Content-Type")
	if !isSupportedDocumentType(contentType) {
		return Error(c, fiber.StatusBadRequest, "unsupported document type. Supported: plain text, JPEG, PNG, WebP")
	}
	if file.Size > maxDocumentSize {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	document, err := io.ReadAll(src)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}

	var storageKey string
	if h.storage != nil {
		storageKey = services.MenuDocumentKey(restaurantID, file.Filename)
		if _, err := h.storage.Upload(c.Context(), storageKey, bytes.NewReader(document), file.Size, contentType); err != nil {
			log.Printf("Warning: failed to store menu document %s: %v", storageKey, err)
			storageKey = ""
		}
	}

	preview := &models.MenuPreview{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		DocumentName: file.Filename,
		StorageKey:   storageKey,
		Items:        []*models.ParsedMenuItem{},
		Categories:   []string{},
	}

	result, err := h.extractor.Extract(c.Context(), document, contentType)
	if err != nil {
		preview.Status = models.PreviewStatusFailed
		preview.ErrorMessage = err.Error()
		if _, createErr := h.db.CreatePreview(c.Context(), preview); createErr != nil {
			return Error(c, fiber.StatusInternalServerError, "failed to store preview")
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(APIResponse{
			Success: false,
			Data:    h.previewPayload(preview, nil),
			Error:   "extraction failed",
		})
	}

	preview.Status = models.PreviewStatusReady
	preview.Items = menu.BuildPreviewItems(result.Items)
	preview.Categories = menu.CategorySet(preview.Items, nil)

	stored, err := h.db.CreatePreview(c.Context(), preview)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store preview")
	}

	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    h.previewPayload(stored, result.Warnings),
	})
}

// requirePreview loads a preview and checks restaurant access
func (h *Handler) requirePreview(c *fiber.Ctx) (*models.MenuPreview, error) {
	id := c.Params("previewId")
	if id == "" {
		return nil, Error(c, fiber.StatusBadRequest, "invalid preview id")
	}

	p, err := h.db.GetPreviewByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrPreviewNotFound) {
			return nil, Error(c, fiber.StatusNotFound, "preview not found")
		}
		return nil, Error(c, fiber.StatusInternalServerError, "failed to load preview")
	}
	if _, errResp := h.requireRestaurant(c, p.RestaurantID); errResp != nil {
		return nil, errResp
	}
	return p, nil
}

// GetPreview returns a preview with its grouped projection
func (h *Handler) GetPreview(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}
	return Success(c, h.previewPayload(p, nil))
}

// DeletePreview discards a preview and its stored document
func (h *Handler) DeletePreview(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	if err := h.db.DeletePreview(c.Context(), p.ID); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to delete preview")
	}
	if h.storage != nil && p.StorageKey != "" {
		if err := h.storage.Delete(c.Context(), p.StorageKey); err != nil {
			log.Printf("Warning: failed to delete stored document %s: %v", p.StorageKey, err)
		}
	}
	return Success(c, fiber.Map{"deleted": true})
}

func (h *Handler) savePreview(c *fiber.Ctx, p *models.MenuPreview) error {
	if err := h.db.SavePreviewItems(c.Context(), p.ID, p.Items, p.Categories); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to save preview")
	}
	return nil
}

func findPreviewItem(p *models.MenuPreview, itemID string) *models.ParsedMenuItem {
	for _, it := range p.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

type editFieldRequest struct {
	Value models.FieldValue `json:"value"`
}

// EditItemField sets one field's value, revalidates it, and rederives
// the item status.
func (h *Handler) EditItemField(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	item := findPreviewItem(p, c.Params("itemId"))
	if item == nil {
		return Error(c, fiber.StatusNotFound, "item not found in preview")
	}
	fieldName := c.Params("field")
	if fieldName == "" {
		return Error(c, fiber.StatusBadRequest, "field name is required")
	}

	var req editFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Value.Kind == "" {
		req.Value.Kind = models.FieldKindText
	}

	menu.ApplyFieldEdit(item, fieldName, req.Value)
	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, item)
}

type itemActionRequest struct {
	UserAction          models.UserAction   `json:"user_action,omitempty"`
	ImportAction        models.ImportAction `json:"import_action,omitempty"`
	ExistingItemID      *int                `json:"existing_item_id,omitempty"`
	ExistingItemVersion *int                `json:"existing_item_version,omitempty"`
}

// SetItemAction records the reviewer's keep/ignore decision and, when
// given, an explicit import action. An explicit choice always wins over
// the conflict-derived default.
func (h *Handler) SetItemAction(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	item := findPreviewItem(p, c.Params("itemId"))
	if item == nil {
		return Error(c, fiber.StatusNotFound, "item not found in preview")
	}

	var req itemActionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	switch req.ImportAction {
	case "", models.ImportActionCreate, models.ImportActionUpdate, models.ImportActionSkip:
	default:
		return Error(c, fiber.StatusBadRequest, "import action must be create, update, or skip")
	}
	switch req.UserAction {
	case "", models.UserActionKeep, models.UserActionIgnore:
	default:
		return Error(c, fiber.StatusBadRequest, "user action must be keep or ignore")
	}

	if req.ImportAction != "" {
		if req.ImportAction == models.ImportActionUpdate && req.ExistingItemID == nil && item.ExistingItemID == nil {
			return Error(c, fiber.StatusBadRequest, "updating requires an existing item id")
		}
		item.ImportAction = req.ImportAction
		if req.ExistingItemID != nil {
			item.ExistingItemID = req.ExistingItemID
			item.ExistingItemVersion = req.ExistingItemVersion
		}
	}

	if req.UserAction != "" {
		menu.SetUserAction(item, req.UserAction)
	} else {
		menu.RecomputeStatus(item)
	}

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, item)
}

// RunConflictCheck resolves every preview item against the stored menu
// and applies the resolutions. Safe to repeat: explicit user choices
// are preserved, only unset actions pick up derived defaults.
func (h *Handler) RunConflictCheck(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	var req struct {
		TargetMenuID *int `json:"target_menu_id,omitempty"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return Error(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	resp, err := h.conflicts.ProcessConflicts(c.Context(), p.RestaurantID, &models.ProcessConflictsRequest{
		Items:        p.Items,
		TargetMenuID: req.TargetMenuID,
	})
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "conflict check failed")
	}

	byID := make(map[string]models.ConflictResolution, len(resp.Results))
	for _, r := range resp.Results {
		byID[r.ID] = r.Resolution
	}
	for _, item := range p.Items {
		if res, ok := byID[item.ID]; ok {
			menu.ApplyConflictResolution(item, res)
		}
	}

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, h.previewPayload(p, nil))
}

type categoryRequest struct {
	Name    string `json:"name"`
	NewName string `json:"new_name,omitempty"`
}

// AddCategory registers a new empty category on the preview
func (h *Handler) AddCategory(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	tracked, err := menu.AddCategory(p.Items, p.Categories, req.Name)
	if err != nil {
		return categoryError(c, err)
	}
	p.Categories = tracked

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, h.previewPayload(p, nil))
}

// RenameCategory renames a category across all its items
func (h *Handler) RenameCategory(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	tracked, err := menu.RenameCategory(p.Items, p.Categories, req.Name, req.NewName)
	if err != nil {
		return categoryError(c, err)
	}
	p.Categories = tracked

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, h.previewPayload(p, nil))
}

// DeleteCategory removes a category, moving its items to Uncategorized
func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	tracked, err := menu.DeleteCategory(p.Items, p.Categories, req.Name)
	if err != nil {
		return categoryError(c, err)
	}
	p.Categories = tracked

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, h.previewPayload(p, nil))
}

// ReassignItemCategory moves one item to another existing category
func (h *Handler) ReassignItemCategory(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	item := findPreviewItem(p, c.Params("itemId"))
	if item == nil {
		return Error(c, fiber.StatusNotFound, "item not found in preview")
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := menu.ReassignItem(item, p.Items, p.Categories, req.Name); err != nil {
		return categoryError(c, err)
	}

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, h.previewPayload(p, nil))
}

func categoryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, menu.ErrCategoryCollision):
		return Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, menu.ErrCategoryNotFound):
		return Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, menu.ErrCategoryEmptyName), errors.Is(err, menu.ErrCategoryProtected):
		return Error(c, fiber.StatusBadRequest, err.Error())
	default:
		return Error(c, fiber.StatusInternalServerError, "failed to update categories")
	}
}

type servingOptionRequest struct {
	Size  string `json:"size"`
	Price string `json:"price"`
}

// AddServingOption appends an empty serving-option row to a wine item
func (h *Handler) AddServingOption(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	item := findPreviewItem(p, c.Params("itemId"))
	if item == nil {
		return Error(c, fiber.StatusNotFound, "item not found in preview")
	}

	opt := menu.AddServingOption(item)
	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{
		Success: true,
		Data:    fiber.Map{"option": opt, "item": item},
	})
}

// UpdateServingOption edits one serving-option row
func (h *Handler) UpdateServingOption(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	item := findPreviewItem(p, c.Params("itemId"))
	if item == nil {
		return Error(c, fiber.StatusNotFound, "item not found in preview")
	}

	var req servingOptionRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !menu.UpdateServingOption(item, c.Params("optionId"), req.Size, req.Price) {
		return Error(c, fiber.StatusNotFound, "serving option not found")
	}

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, item)
}

// RemoveServingOption deletes one serving-option row
func (h *Handler) RemoveServingOption(c *fiber.Ctx) error {
	p, errResp := h.requirePreview(c)
	if errResp != nil {
		return errResp
	}

	item := findPreviewItem(p, c.Params("itemId"))
	if item == nil {
		return Error(c, fiber.StatusNotFound, "item not found in preview")
	}

	if !menu.RemoveServingOption(item, c.Params("optionId")) {
		return Error(c, fiber.StatusNotFound, "serving option not found")
	}

	if errResp := h.savePreview(c, p); errResp != nil {
		return errResp
	}
	return Success(c, item)
}

func isSupportedDocumentType(contentType string) bool {
	switch contentType {
	case "text/plain", "text/markdown", "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return strings.HasPrefix(contentType, "text/plain;")
}
