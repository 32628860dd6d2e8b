package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/menu"
	"github.com/platewise/menuflow/internal/models"
)

// ConflictService matches parsed preview items against the items
// already stored for a restaurant. It only reads: resolutions are
// returned to the client, which applies them to its preview state.
type ConflictService struct {
	db *database.DB
}

// NewConflictService creates a new conflict service
func NewConflictService(db *database.DB) *ConflictService {
	return &ConflictService{db: db}
}

// ProcessConflicts resolves a batch of items against the stored menu.
// Failing to load the stored items fails the whole batch; anything
// that goes wrong with a single item is captured on that item's
// resolution instead.
func (s *ConflictService) ProcessConflicts(ctx context.Context, restaurantID int, req *models.ProcessConflictsRequest) (*models.ProcessConflictsResponse, error) {
	existing, err := s.db.ListExistingItems(ctx, restaurantID, req.TargetMenuID)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing items: %w", err)
	}
	return &models.ProcessConflictsResponse{
		Results: ResolveConflicts(req.Items, existing),
	}, nil
}

// ResolveConflicts produces exactly one resolution per input item,
// deterministically: the same items against the same stored menu
// always resolve the same way.
func ResolveConflicts(items []*models.ParsedMenuItem, existing []*models.ExistingItem) []models.ProcessedConflict {
	index := make(map[string][]*models.ExistingItem)
	for _, ex := range existing {
		key := menu.NormalizeName(ex.Name)
		if key == "" {
			continue
		}
		index[key] = append(index[key], ex)
	}

	results := make([]models.ProcessedConflict, 0, len(items))
	for _, item := range items {
		results = append(results, models.ProcessedConflict{
			ID:         item.ID,
			Resolution: resolveItem(item, index),
		})
	}
	return results
}

func resolveItem(item *models.ParsedMenuItem, index map[string][]*models.ExistingItem) (res models.ConflictResolution) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Conflict matching panicked for item %s: %v", item.ID, r)
			res = models.ConflictResolution{
				Status:  models.ConflictProcessingError,
				Message: "internal error while matching this item",
			}
		}
	}()

	name := menu.NormalizeName(item.FieldValueOrZero(models.FieldName).Text)
	if name == "" {
		return models.ConflictResolution{
			Status:  models.ConflictProcessingError,
			Message: "item has no name to match on",
		}
	}

	candidates := index[name]
	switch len(candidates) {
	case 0:
		return models.ConflictResolution{Status: models.ConflictNoConflict}
	case 1:
		return updateCandidate(candidates[0])
	}

	// Same name in several stored rows. The item's own category breaks
	// the tie when exactly one candidate shares it, e.g. "House Red" on
	// both the wine list and the happy hour menu.
	category := menu.NormalizeCategory(item.FieldValueOrZero(models.FieldCategory).Text)
	var sameCategory []*models.ExistingItem
	for _, c := range candidates {
		if menu.NormalizeCategory(c.Category) == category {
			sameCategory = append(sameCategory, c)
		}
	}
	if len(sameCategory) == 1 {
		return updateCandidate(sameCategory[0])
	}

	ids := make([]int, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	sort.Ints(ids)
	return models.ConflictResolution{
		Status:           models.ConflictMultipleCandidates,
		Message:          fmt.Sprintf("%d existing items match this name", len(candidates)),
		CandidateItemIDs: ids,
	}
}

func updateCandidate(ex *models.ExistingItem) models.ConflictResolution {
	id, version := ex.ID, ex.Version
	return models.ConflictResolution{
		Status:              models.ConflictUpdateCandidate,
		ExistingItemID:      &id,
		ExistingItemVersion: &version,
	}
}
