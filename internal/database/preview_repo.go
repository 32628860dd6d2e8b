package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/platewise/menuflow/internal/models"
)

var ErrPreviewNotFound = errors.New("preview not found")

const previewColumns = `
	id, restaurant_id, document_name, storage_key, status, items, categories,
	error_message, created_at, updated_at`

func scanPreview(row pgx.Row) (*models.MenuPreview, error) {
	p := &models.MenuPreview{}
	var itemsJSON []byte
	var storageKey, errorMessage *string
	err := row.Scan(
		&p.ID, &p.RestaurantID, &p.DocumentName, &storageKey, &p.Status,
		&itemsJSON, &p.Categories, &errorMessage, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if storageKey != nil {
		p.StorageKey = *storageKey
	}
	if errorMessage != nil {
		p.ErrorMessage = *errorMessage
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &p.Items); err != nil {
			return nil, fmt.Errorf("failed to decode preview items: %w", err)
		}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	return p, nil
}

// CreatePreview stores a new preview record
func (db *DB) CreatePreview(ctx context.Context, p *models.MenuPreview) (*models.MenuPreview, error) {
	itemsJSON, err := json.Marshal(p.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preview items: %w", err)
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO menu_previews (id, restaurant_id, document_name, storage_key, status, items, categories, error_message)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''))
		RETURNING`+previewColumns,
		p.ID, p.RestaurantID, p.DocumentName, p.StorageKey, p.Status,
		itemsJSON, p.Categories, p.ErrorMessage,
	)
	return scanPreview(row)
}

// GetPreviewByID retrieves a preview by its UUID
func (db *DB) GetPreviewByID(ctx context.Context, id string) (*models.MenuPreview, error) {
	row := db.Pool.QueryRow(ctx,
		"SELECT"+previewColumns+" FROM menu_previews WHERE id = $1", id)
	p, err := scanPreview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreviewNotFound
		}
		return nil, err
	}
	return p, nil
}

// SavePreviewItems persists the current reviewed state of a preview's
// items and tracked categories.
func (db *DB) SavePreviewItems(ctx context.Context, id string, items []*models.ParsedMenuItem, categories []string) error {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode preview items: %w", err)
	}

	tag, err := db.Pool.Exec(ctx, `
		UPDATE menu_previews SET items = $1, categories = $2, updated_at = NOW()
		WHERE id = $3
	`, itemsJSON, categories, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPreviewNotFound
	}
	return nil
}

// UpdatePreviewStatus updates extraction status and error message
func (db *DB) UpdatePreviewStatus(ctx context.Context, id string, status models.PreviewStatus, errorMessage *string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE menu_previews SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`, status, errorMessage, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPreviewNotFound
	}
	return nil
}

// DeletePreview removes a preview
func (db *DB) DeletePreview(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM menu_previews WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPreviewNotFound
	}
	return nil
}
