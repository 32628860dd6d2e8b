package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/platewise/menuflow/internal/models"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

// CreateRestaurant creates a restaurant owned by the given user and
// scopes the owner to it.
func (db *DB) CreateRestaurant(ctx context.Context, ownerID int, req *models.CreateRestaurantRequest) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO restaurants (name, owner_id, address)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, address, created_at, updated_at
	`, req.Name, ownerID, req.Address).Scan(
		&r.ID, &r.Name, &r.OwnerID, &r.Address, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	if err := db.AttachUserToRestaurant(ctx, ownerID, r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

// GetRestaurantByID retrieves a restaurant by ID
func (db *DB) GetRestaurantByID(ctx context.Context, id int) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, owner_id, address, created_at, updated_at
		FROM restaurants WHERE id = $1
	`, id).Scan(&r.ID, &r.Name, &r.OwnerID, &r.Address, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListRestaurantsForUser returns restaurants the user can access:
// those they own plus the one they are scoped to as staff.
func (db *DB) ListRestaurantsForUser(ctx context.Context, userID int) ([]*models.Restaurant, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT r.id, r.name, r.owner_id, r.address, r.created_at, r.updated_at
		FROM restaurants r
		LEFT JOIN users u ON u.restaurant_id = r.id
		WHERE r.owner_id = $1 OR u.id = $1
		ORDER BY r.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*models.Restaurant
	for rows.Next() {
		r := &models.Restaurant{}
		if err := rows.Scan(&r.ID, &r.Name, &r.OwnerID, &r.Address, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

// UpdateRestaurant updates restaurant fields
func (db *DB) UpdateRestaurant(ctx context.Context, id int, req *models.UpdateRestaurantRequest) (*models.Restaurant, error) {
	r := &models.Restaurant{}
	err := db.Pool.QueryRow(ctx, `
		UPDATE restaurants SET
			name = COALESCE($1, name),
			address = COALESCE($2, address),
			updated_at = NOW()
		WHERE id = $3
		RETURNING id, name, owner_id, address, created_at, updated_at
	`, req.Name, req.Address, id).Scan(
		&r.ID, &r.Name, &r.OwnerID, &r.Address, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return r, nil
}

// DeleteRestaurant removes a restaurant and everything scoped to it
func (db *DB) DeleteRestaurant(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM restaurants WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}
	return nil
}
