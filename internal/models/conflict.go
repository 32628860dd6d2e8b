package models

// ConflictStatus classifies how a parsed item relates to the existing menu.
type ConflictStatus string

const (
	ConflictNoConflict         ConflictStatus = "no_conflict"
	ConflictUpdateCandidate    ConflictStatus = "update_candidate"
	ConflictMultipleCandidates ConflictStatus = "multiple_candidates"
	ConflictProcessingError    ConflictStatus = "error_processing_conflict"
)

// ConflictResolution is the outcome of one conflict-check round for one
// item. ExistingItemVersion rides along so a later update can detect
// concurrent edits instead of silently overwriting them.
type ConflictResolution struct {
	Status              ConflictStatus `json:"status"`
	Message             string         `json:"message,omitempty"`
	ExistingItemID      *int           `json:"existing_item_id,omitempty"`
	ExistingItemVersion *int           `json:"existing_item_version,omitempty"`
	CandidateItemIDs    []int          `json:"candidate_item_ids,omitempty"`
}

// ProcessedConflict carries one item's resolution, addressable back to
// the item by its stable id. No ordering guarantee beyond one
// resolution per input id.
type ProcessedConflict struct {
	ID         string             `json:"id"`
	Resolution ConflictResolution `json:"resolution"`
}

// ProcessConflictsRequest is the body of POST /conflicts/process.
type ProcessConflictsRequest struct {
	Items        []*ParsedMenuItem `json:"items"`
	TargetMenuID *int              `json:"target_menu_id,omitempty"`
}

// ProcessConflictsResponse is the matching response.
type ProcessConflictsResponse struct {
	Results []ProcessedConflict `json:"results"`
}
