package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/menu"
	"github.com/platewise/menuflow/internal/models"
)

// DefaultAsyncThreshold is the batch size above which finalize runs in
// the background and returns a job id instead of a result.
const DefaultAsyncThreshold = 50

// ImportService commits reviewed preview items into persisted menus.
type ImportService struct {
	db             *database.DB
	asyncThreshold int
}

// NewImportService creates a new import service
func NewImportService(db *database.DB, asyncThreshold int) *ImportService {
	if asyncThreshold <= 0 {
		asyncThreshold = DefaultAsyncThreshold
	}
	return &ImportService{db: db, asyncThreshold: asyncThreshold}
}

// Finalize commits the reviewed items of a preview. Items are
// re-filtered server-side: only kept items with a create or update
// action are ever committed. Batches above the async threshold run in
// the background; the response then carries a job id to poll instead
// of a result.
func (s *ImportService) Finalize(ctx context.Context, restaurantID int, req *models.FinalizeRequest) (*models.FinalizeResponse, error) {
	items := req.Items
	menuName := strings.TrimSpace(req.MenuName)
	var sourceDocument *string

	if req.PreviewID != "" {
		preview, err := s.db.GetPreviewByID(ctx, req.PreviewID)
		if err != nil {
			if errors.Is(err, database.ErrPreviewNotFound) {
				return failedResponse("preview not found"), nil
			}
			return nil, err
		}
		if preview.RestaurantID != restaurantID {
			return failedResponse("preview does not belong to this restaurant"), nil
		}
		if len(items) == 0 {
			items = preview.Items
		}
		if menuName == "" {
			menuName = preview.DocumentName
		}
		if preview.DocumentName != "" {
			doc := preview.DocumentName
			sourceDocument = &doc
		}
	}

	eligible := menu.FilterEligible(items)
	skipped := countSkipped(items)

	var target *models.Menu
	if req.TargetMenuID != nil {
		m, err := s.db.GetMenuByID(ctx, *req.TargetMenuID)
		if err != nil {
			if errors.Is(err, database.ErrMenuNotFound) {
				return failedResponse("target menu not found"), nil
			}
			return nil, err
		}
		if m.RestaurantID != restaurantID {
			return failedResponse("target menu does not belong to this restaurant"), nil
		}
		target = m
	} else {
		if menuName == "" {
			menuName = "Imported Menu"
		}
		m, err := s.db.CreateMenu(ctx, restaurantID, menuName, sourceDocument)
		if err != nil {
			return nil, err
		}
		target = m
	}

	if len(eligible) > s.asyncThreshold {
		jobID := uuid.NewString()
		if _, err := s.db.CreateImportJob(ctx, jobID, restaurantID); err != nil {
			return nil, err
		}
		go s.runJob(jobID, restaurantID, target.ID, req.ReplaceAllItems, eligible, skipped)
		return &models.FinalizeResponse{JobID: jobID}, nil
	}

	result := s.commit(ctx, restaurantID, target.ID, req.ReplaceAllItems, eligible, skipped)
	return &models.FinalizeResponse{Result: result}, nil
}

// JobStatus looks up a background import job, scoped to its restaurant.
func (s *ImportService) JobStatus(ctx context.Context, restaurantID int, jobID string) (*models.ImportJob, error) {
	job, err := s.db.GetImportJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.RestaurantID != restaurantID {
		return nil, database.ErrJobNotFound
	}
	return job, nil
}

// runJob executes a background commit. Detached from the request
// context so a client disconnect does not abort the import.
func (s *ImportService) runJob(jobID string, restaurantID, menuID int, replaceAll bool, items []*models.ParsedMenuItem, skipped int) {
	ctx := context.Background()
	result := s.commit(ctx, restaurantID, menuID, replaceAll, items, skipped)
	if err := s.db.CompleteImportJob(ctx, jobID, result); err != nil {
		log.Printf("Failed to store result for import job %s: %v", jobID, err)
	}
}

// commit writes the eligible items into the target menu. One failing
// item never aborts the batch: it is recorded in the error details and
// the loop moves on.
func (s *ImportService) commit(ctx context.Context, restaurantID, menuID int, replaceAll bool, items []*models.ParsedMenuItem, skipped int) *models.ImportResult {
	result := &models.ImportResult{
		MenuID:         &menuID,
		ItemsProcessed: skipped,
		ItemsSkipped:   skipped,
		ErrorDetails:   []models.ImportErrorDetail{},
	}

	if replaceAll {
		if _, err := s.db.DeleteMenuItems(ctx, menuID); err != nil {
			result.OverallStatus = models.ImportStatusFailed
			result.Message = fmt.Sprintf("failed to clear existing items: %v", err)
			return result
		}
	}

	for _, item := range items {
		result.ItemsProcessed++
		if err := s.commitItem(ctx, restaurantID, menuID, item, result); err != nil {
			result.ItemsErrored++
			result.ErrorDetails = append(result.ErrorDetails, models.ImportErrorDetail{
				ID:          item.ID,
				Name:        strings.TrimSpace(item.FieldValueOrZero(models.FieldName).Text),
				Status:      string(item.Status),
				ErrorReason: err.Error(),
			})
		}
	}

	switch {
	case result.ItemsErrored == 0:
		result.OverallStatus = models.ImportStatusCompleted
	case result.ItemsCreated+result.ItemsUpdated+result.ItemsSkipped > 0:
		result.OverallStatus = models.ImportStatusPartial
		result.Message = fmt.Sprintf("%d of %d items failed to import", result.ItemsErrored, result.ItemsProcessed)
	default:
		result.OverallStatus = models.ImportStatusFailed
		result.Message = "every item failed to import"
	}
	return result
}

func (s *ImportService) commitItem(ctx context.Context, restaurantID, menuID int, item *models.ParsedMenuItem, result *models.ImportResult) error {
	params, err := menu.BuildMenuItemParams(item)
	if err != nil {
		return err
	}

	switch item.ImportAction {
	case models.ImportActionCreate:
		if _, err := s.db.CreateMenuItem(ctx, menuID, restaurantID, params); err != nil {
			return fmt.Errorf("create failed: %w", err)
		}
		result.ItemsCreated++
	case models.ImportActionUpdate:
		if item.ExistingItemID == nil {
			return errors.New("update requires an existing item id")
		}
		version := item.ExistingItemVersion
		if version == nil {
			current, err := s.db.GetMenuItemByID(ctx, *item.ExistingItemID)
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			version = &current.Version
		}
		if _, err := s.db.UpdateMenuItem(ctx, *item.ExistingItemID, *version, params); err != nil {
			if errors.Is(err, database.ErrVersionMismatch) {
				return errors.New("item was modified by someone else, re-run the conflict check")
			}
			return fmt.Errorf("update failed: %w", err)
		}
		result.ItemsUpdated++
	default:
		return fmt.Errorf("unsupported import action %q", item.ImportAction)
	}
	return nil
}

// ErrorReportCSV renders a result's per-item failures as a
// downloadable CSV report.
func ErrorReportCSV(result *models.ImportResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"item_id", "name", "status", "error_reason"}); err != nil {
		return nil, err
	}
	for _, d := range result.ErrorDetails {
		if err := w.Write([]string{d.ID, d.Name, d.Status, d.ErrorReason}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// countSkipped counts kept items whose chosen action is skip. They are
// acknowledged in the result counters but never written.
func countSkipped(items []*models.ParsedMenuItem) int {
	n := 0
	for _, it := range items {
		if it.UserAction == models.UserActionKeep && it.ImportAction == models.ImportActionSkip {
			n++
		}
	}
	return n
}

func failedResponse(message string) *models.FinalizeResponse {
	return &models.FinalizeResponse{Result: &models.ImportResult{
		OverallStatus: models.ImportStatusFailed,
		Message:       message,
		ErrorDetails:  []models.ImportErrorDetail{},
	}}
}
