package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/models"
)

func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *database.DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &database.DB{Pool: mock}
}

func keptItem(name, price string, action models.ImportAction) *models.ParsedMenuItem {
	return &models.ParsedMenuItem{
		ID:           uuid.NewString(),
		UserAction:   models.UserActionKeep,
		ImportAction: action,
		Status:       models.ItemStatusNew,
		Fields: map[string]*models.Field{
			models.FieldName:     {Value: models.TextValue(name), IsValid: true},
			models.FieldPrice:    {Value: models.NumericValue(price), IsValid: true},
			models.FieldCategory: {Value: models.TextValue("Mains"), IsValid: true},
		},
	}
}

func expectMenuLookup(mock pgxmock.PgxPoolIface, menuID, restaurantID int) {
	mock.ExpectQuery("SELECT (.+) FROM menus WHERE id").
		WithArgs(menuID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "restaurant_id", "name", "source_document", "created_at", "updated_at",
		}).AddRow(menuID, restaurantID, "Dinner", nil, time.Now(), time.Now()))
}

func menuItemRows(id, menuID, restaurantID int, name string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "menu_id", "restaurant_id", "name", "description", "price", "category",
		"item_type", "ingredients", "dietary_flags", "wine_producer", "wine_vintage",
		"wine_region", "wine_grape_variety", "wine_serving_options", "version",
		"created_at", "updated_at",
	}).AddRow(
		id, menuID, restaurantID, name, nil, nil, "Mains", "food",
		[]string{}, []string{}, nil, nil, nil, nil, nil, 1, time.Now(), time.Now(),
	)
}

func TestFinalizePartialFailure(t *testing.T) {
	mock, db := newMockDB(t)
	svc := NewImportService(db, 50)

	items := []*models.ParsedMenuItem{
		keptItem("Soup", "8", models.ImportActionCreate),
		keptItem("Salad", "11", models.ImportActionCreate),
		keptItem("   ", "9", models.ImportActionCreate), // no name, fails the commit gate
		keptItem("Pasta", "16", models.ImportActionCreate),
		keptItem("Steak", "29", models.ImportActionCreate),
	}
	badID := items[2].ID

	menuID := 7
	expectMenuLookup(mock, menuID, 1)
	for i, name := range []string{"Soup", "Salad", "Pasta", "Steak"} {
		mock.ExpectQuery("INSERT INTO menu_items").
			WillReturnRows(menuItemRows(100+i, menuID, 1, name))
	}

	resp, err := svc.Finalize(context.Background(), 1, &models.FinalizeRequest{
		Items:        items,
		TargetMenuID: &menuID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Empty(t, resp.JobID)

	result := resp.Result
	assert.Equal(t, models.ImportStatusPartial, result.OverallStatus)
	assert.Equal(t, 5, result.ItemsProcessed)
	assert.Equal(t, 4, result.ItemsCreated+result.ItemsUpdated+result.ItemsSkipped)
	assert.Equal(t, 1, result.ItemsErrored)
	require.Len(t, result.ErrorDetails, 1)
	assert.Equal(t, badID, result.ErrorDetails[0].ID)
	assert.NotEmpty(t, result.ErrorDetails[0].ErrorReason)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeFiltersIneligibleItems(t *testing.T) {
	mock, db := newMockDB(t)
	svc := NewImportService(db, 50)

	ignored := keptItem("Ghost Item", "5", models.ImportActionCreate)
	ignored.UserAction = models.UserActionIgnore
	skipped := keptItem("Skipped Item", "6", models.ImportActionSkip)
	kept := keptItem("Soup", "8", models.ImportActionCreate)

	menuID := 7
	expectMenuLookup(mock, menuID, 1)
	mock.ExpectQuery("INSERT INTO menu_items").
		WillReturnRows(menuItemRows(100, menuID, 1, "Soup"))

	resp, err := svc.Finalize(context.Background(), 1, &models.FinalizeRequest{
		Items:        []*models.ParsedMenuItem{ignored, skipped, kept},
		TargetMenuID: &menuID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)

	result := resp.Result
	assert.Equal(t, models.ImportStatusCompleted, result.OverallStatus)
	assert.Equal(t, 1, result.ItemsCreated)
	assert.Equal(t, 1, result.ItemsSkipped)
	assert.Equal(t, 2, result.ItemsProcessed)
	assert.Empty(t, result.ErrorDetails)
	for _, d := range result.ErrorDetails {
		assert.NotEqual(t, ignored.ID, d.ID)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeVersionMismatch(t *testing.T) {
	mock, db := newMockDB(t)
	svc := NewImportService(db, 50)

	existingID, version := 55, 2
	item := keptItem("Soup", "8", models.ImportActionUpdate)
	item.ExistingItemID = &existingID
	item.ExistingItemVersion = &version

	menuID := 7
	expectMenuLookup(mock, menuID, 1)
	mock.ExpectQuery("UPDATE menu_items SET").WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM menu_items`).
		WithArgs(existingID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	resp, err := svc.Finalize(context.Background(), 1, &models.FinalizeRequest{
		Items:        []*models.ParsedMenuItem{item},
		TargetMenuID: &menuID,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)

	result := resp.Result
	assert.Equal(t, models.ImportStatusFailed, result.OverallStatus)
	assert.Equal(t, 1, result.ItemsErrored)
	require.Len(t, result.ErrorDetails, 1)
	assert.Contains(t, result.ErrorDetails[0].ErrorReason, "conflict check")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeAsyncOverThreshold(t *testing.T) {
	mock, db := newMockDB(t)
	svc := NewImportService(db, 2)

	items := []*models.ParsedMenuItem{
		keptItem("Soup", "8", models.ImportActionCreate),
		keptItem("Salad", "11", models.ImportActionCreate),
		keptItem("Pasta", "16", models.ImportActionCreate),
	}

	menuID := 7
	expectMenuLookup(mock, menuID, 1)
	mock.ExpectQuery("INSERT INTO import_jobs").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "restaurant_id", "status", "created_at", "updated_at",
		}).AddRow(uuid.NewString(), 1, "pending", time.Now(), time.Now()))

	resp, err := svc.Finalize(context.Background(), 1, &models.FinalizeRequest{
		Items:        items,
		TargetMenuID: &menuID,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Result)
	assert.NotEmpty(t, resp.JobID)
}

func TestFinalizePreviewOwnership(t *testing.T) {
	mock, db := newMockDB(t)
	svc := NewImportService(db, 50)

	previewID := uuid.NewString()
	mock.ExpectQuery("SELECT (.+) FROM menu_previews WHERE id").
		WithArgs(previewID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "restaurant_id", "document_name", "storage_key", "status",
			"items", "categories", "error_message", "created_at", "updated_at",
		}).AddRow(previewID, 99, "dinner.txt", nil, "ready",
			[]byte("[]"), []string{}, nil, time.Now(), time.Now()))

	resp, err := svc.Finalize(context.Background(), 1, &models.FinalizeRequest{
		PreviewID: previewID,
		Items:     []*models.ParsedMenuItem{keptItem("Soup", "8", models.ImportActionCreate)},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, models.ImportStatusFailed, resp.Result.OverallStatus)
	assert.Contains(t, resp.Result.Message, "restaurant")
	assert.Zero(t, resp.Result.ItemsCreated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorReportCSV(t *testing.T) {
	result := &models.ImportResult{
		OverallStatus: models.ImportStatusPartial,
		ErrorDetails: []models.ImportErrorDetail{
			{ID: "a", Name: "Soup", Status: "error", ErrorReason: "update failed"},
			{ID: "b", Name: "Salad, Small", Status: "error", ErrorReason: "item name is required"},
		},
	}

	data, err := ErrorReportCSV(result)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"item_id", "name", "status", "error_reason"}, rows[0])
	assert.Equal(t, []string{"b", "Salad, Small", "error", "item name is required"}, rows[2])
}
