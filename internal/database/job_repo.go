package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/platewise/menuflow/internal/models"
)

var ErrJobNotFound = errors.New("import job not found")

// CreateImportJob stores a pending job record before the background
// commit starts.
func (db *DB) CreateImportJob(ctx context.Context, id string, restaurantID int) (*models.ImportJob, error) {
	job := &models.ImportJob{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO import_jobs (id, restaurant_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING id, restaurant_id, status, created_at, updated_at
	`, id, restaurantID).Scan(
		&job.ID, &job.RestaurantID, &job.Status, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create import job: %w", err)
	}
	return job, nil
}

// GetImportJob retrieves a job with its result payload, if any.
// Repeated lookups of a terminal job return the same result.
func (db *DB) GetImportJob(ctx context.Context, id string) (*models.ImportJob, error) {
	job := &models.ImportJob{}
	var resultJSON []byte
	err := db.Pool.QueryRow(ctx, `
		SELECT id, restaurant_id, status, result, created_at, updated_at
		FROM import_jobs WHERE id = $1
	`, id).Scan(
		&job.ID, &job.RestaurantID, &job.Status, &resultJSON,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if len(resultJSON) > 0 {
		job.Result = &models.ImportResult{}
		if err := json.Unmarshal(resultJSON, job.Result); err != nil {
			return nil, fmt.Errorf("failed to decode job result: %w", err)
		}
	}
	return job, nil
}

// CompleteImportJob stores the terminal result of a job. The job status
// mirrors the result's overall status: failed only for batch-level
// failures, completed otherwise (partial included).
func (db *DB) CompleteImportJob(ctx context.Context, id string, result *models.ImportResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode job result: %w", err)
	}

	status := models.JobStatusCompleted
	if result.OverallStatus == models.ImportStatusFailed {
		status = models.JobStatusFailed
	}

	tag, err := db.Pool.Exec(ctx, `
		UPDATE import_jobs SET status = $1, result = $2, updated_at = NOW()
		WHERE id = $3
	`, status, resultJSON, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}
