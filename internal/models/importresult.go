package models

import (
	"time"
)

// ImportStatus is the aggregate outcome of a finalize operation.
type ImportStatus string

const (
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusPartial   ImportStatus = "partial"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportErrorDetail records one per-item failure during finalize.
type ImportErrorDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	ErrorReason string `json:"error_reason,omitempty"`
}

// ImportResult is the outcome of a finalize operation. The same shape
// is returned synchronously for small batches and via job polling for
// large ones.
type ImportResult struct {
	OverallStatus  ImportStatus        `json:"overall_status"`
	Message        string              `json:"message,omitempty"`
	MenuID         *int                `json:"menu_id,omitempty"`
	ItemsProcessed int                 `json:"items_processed"`
	ItemsCreated   int                 `json:"items_created"`
	ItemsUpdated   int                 `json:"items_updated"`
	ItemsSkipped   int                 `json:"items_skipped"`
	ItemsErrored   int                 `json:"items_errored"`
	ErrorDetails   []ImportErrorDetail `json:"error_details"`
}

// JobStatus is the lifecycle state of a background import job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ImportJob is the durable record behind asynchronous finalize. A
// non-terminal job is distinguished by a nil Result (no overall status
// yet); repeated lookups of a terminal job return the same result.
type ImportJob struct {
	ID           string        `json:"job_id"`
	RestaurantID int           `json:"restaurant_id"`
	Status       JobStatus     `json:"status"`
	Result       *ImportResult `json:"result,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// FinalizeRequest is the body of POST /import/finalize. Items are
// re-filtered server-side: only userAction=keep with importAction
// create/update are ever committed, whatever the payload claims.
type FinalizeRequest struct {
	PreviewID       string            `json:"preview_id"`
	Items           []*ParsedMenuItem `json:"items"`
	TargetMenuID    *int              `json:"target_menu_id,omitempty"`
	ReplaceAllItems bool              `json:"replace_all_items,omitempty"`
	MenuName        string            `json:"menu_name,omitempty"`
}

// FinalizeResponse carries either the full result (sync mode) or a job
// id to poll (async mode).
type FinalizeResponse struct {
	Result *ImportResult `json:"result,omitempty"`
	JobID  string        `json:"job_id,omitempty"`
}
