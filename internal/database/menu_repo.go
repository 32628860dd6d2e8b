package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/platewise/menuflow/internal/models"
)

var (
	ErrMenuNotFound     = errors.New("menu not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrVersionMismatch  = errors.New("menu item was modified concurrently")
)

// CreateMenu creates a new menu for a restaurant
func (db *DB) CreateMenu(ctx context.Context, restaurantID int, name string, sourceDocument *string) (*models.Menu, error) {
	menu := &models.Menu{}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO menus (restaurant_id, name, source_document)
		VALUES ($1, $2, $3)
		RETURNING id, restaurant_id, name, source_document, created_at, updated_at
	`, restaurantID, name, sourceDocument).Scan(
		&menu.ID, &menu.RestaurantID, &menu.Name, &menu.SourceDocument,
		&menu.CreatedAt, &menu.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}
	return menu, nil
}

// GetMenuByID retrieves a menu by ID
func (db *DB) GetMenuByID(ctx context.Context, id int) (*models.Menu, error) {
	menu := &models.Menu{}
	err := db.Pool.QueryRow(ctx, `
		SELECT id, restaurant_id, name, source_document, created_at, updated_at
		FROM menus WHERE id = $1
	`, id).Scan(
		&menu.ID, &menu.RestaurantID, &menu.Name, &menu.SourceDocument,
		&menu.CreatedAt, &menu.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return menu, nil
}

// ListMenus returns all menus for a restaurant
func (db *DB) ListMenus(ctx context.Context, restaurantID int) ([]*models.Menu, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, restaurant_id, name, source_document, created_at, updated_at
		FROM menus WHERE restaurant_id = $1
		ORDER BY created_at DESC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*models.Menu
	for rows.Next() {
		menu := &models.Menu{}
		if err := rows.Scan(
			&menu.ID, &menu.RestaurantID, &menu.Name, &menu.SourceDocument,
			&menu.CreatedAt, &menu.UpdatedAt,
		); err != nil {
			return nil, err
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

// DeleteMenu deletes a menu and its items
func (db *DB) DeleteMenu(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM menus WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuNotFound
	}
	return nil
}

const menuItemColumns = `
	id, menu_id, restaurant_id, name, description, price, category, item_type,
	ingredients, dietary_flags, wine_producer, wine_vintage, wine_region,
	wine_grape_variety, wine_serving_options, version, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	var servingJSON []byte
	err := row.Scan(
		&item.ID, &item.MenuID, &item.RestaurantID, &item.Name, &item.Description,
		&item.Price, &item.Category, &item.ItemType, &item.Ingredients,
		&item.DietaryFlags, &item.WineProducer, &item.WineVintage, &item.WineRegion,
		&item.WineGrapeVariety, &servingJSON, &item.Version,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(servingJSON) > 0 {
		if err := json.Unmarshal(servingJSON, &item.WineServing); err != nil {
			return nil, fmt.Errorf("failed to decode serving options: %w", err)
		}
	}
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}
	if item.DietaryFlags == nil {
		item.DietaryFlags = []string{}
	}
	return item, nil
}

func servingJSON(params *models.MenuItemParams) (any, error) {
	if len(params.WineServing) == 0 {
		return nil, nil
	}
	return json.Marshal(params.WineServing)
}

// CreateMenuItem inserts a new menu item
func (db *DB) CreateMenuItem(ctx context.Context, menuID, restaurantID int, params *models.MenuItemParams) (*models.MenuItem, error) {
	serving, err := servingJSON(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode serving options: %w", err)
	}

	row := db.Pool.QueryRow(ctx, `
		INSERT INTO menu_items (
			menu_id, restaurant_id, name, description, price, category, item_type,
			ingredients, dietary_flags, wine_producer, wine_vintage, wine_region,
			wine_grape_variety, wine_serving_options
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING`+menuItemColumns,
		menuID, restaurantID, params.Name, params.Description, params.Price,
		params.Category, params.ItemType, params.Ingredients, params.DietaryFlags,
		params.WineProducer, params.WineVintage, params.WineRegion,
		params.WineGrapeVariety, serving,
	)
	return scanMenuItem(row)
}

// UpdateMenuItem overwrites a menu item's writable columns, guarded by
// the expected version. A version mismatch means someone else changed
// the row since it was read; the caller reports that per-item instead
// of overwriting.
func (db *DB) UpdateMenuItem(ctx context.Context, id, expectedVersion int, params *models.MenuItemParams) (*models.MenuItem, error) {
	serving, err := servingJSON(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode serving options: %w", err)
	}

	row := db.Pool.QueryRow(ctx, `
		UPDATE menu_items SET
			name = $1, description = $2, price = $3, category = $4, item_type = $5,
			ingredients = $6, dietary_flags = $7, wine_producer = $8,
			wine_vintage = $9, wine_region = $10, wine_grape_variety = $11,
			wine_serving_options = $12, version = version + 1, updated_at = NOW()
		WHERE id = $13 AND version = $14
		RETURNING`+menuItemColumns,
		params.Name, params.Description, params.Price, params.Category,
		params.ItemType, params.Ingredients, params.DietaryFlags,
		params.WineProducer, params.WineVintage, params.WineRegion,
		params.WineGrapeVariety, serving, id, expectedVersion,
	)

	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing row from a stale version.
			var exists bool
			checkErr := db.Pool.QueryRow(ctx,
				"SELECT EXISTS(SELECT 1 FROM menu_items WHERE id = $1)", id,
			).Scan(&exists)
			if checkErr != nil {
				return nil, checkErr
			}
			if exists {
				return nil, ErrVersionMismatch
			}
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// GetMenuItemByID retrieves one menu item
func (db *DB) GetMenuItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	row := db.Pool.QueryRow(ctx,
		"SELECT"+menuItemColumns+" FROM menu_items WHERE id = $1", id)
	item, err := scanMenuItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListMenuItems returns all items of one menu
func (db *DB) ListMenuItems(ctx context.Context, menuID int) ([]*models.MenuItem, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT"+menuItemColumns+" FROM menu_items WHERE menu_id = $1 ORDER BY category, name", menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListExistingItems returns the matching slice of stored items the
// conflict resolver compares against, scoped to a restaurant and
// optionally to one menu. Read-only.
func (db *DB) ListExistingItems(ctx context.Context, restaurantID int, menuID *int) ([]*models.ExistingItem, error) {
	query := `
		SELECT id, menu_id, name, category, version
		FROM menu_items WHERE restaurant_id = $1`
	args := []any{restaurantID}
	if menuID != nil {
		query += " AND menu_id = $2"
		args = append(args, *menuID)
	}
	query += " ORDER BY id"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ExistingItem
	for rows.Next() {
		item := &models.ExistingItem{}
		if err := rows.Scan(&item.ID, &item.MenuID, &item.Name, &item.Category, &item.Version); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteMenuItems removes every item of a menu (the replace-all path).
func (db *DB) DeleteMenuItems(ctx context.Context, menuID int) (int64, error) {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM menu_items WHERE menu_id = $1", menuID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteMenuItem removes one item
func (db *DB) DeleteMenuItem(ctx context.Context, id int) error {
	tag, err := db.Pool.Exec(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}
