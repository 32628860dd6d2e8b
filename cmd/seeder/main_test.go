package main

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/menuflow/internal/database"
)

func TestParseMenuCSV(t *testing.T) {
	csvData := "name,category,price,description\n" +
		"Truffle Fries,Starters,$12.50,hand cut with parmesan\n" +
		"Espresso,,3,\n" +
		",Mains,9,row without a name is skipped\n"

	items, err := parseMenuCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Sorted by category then name.
	assert.Equal(t, "Truffle Fries", items[0].Name)
	assert.Equal(t, "Starters", items[0].Category)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, 12.50, *items[0].Price)
	assert.Equal(t, "hand cut with parmesan", items[0].Description)

	// Blank category and item type fall back to defaults.
	assert.Equal(t, "Espresso", items[1].Name)
	assert.Equal(t, "Uncategorized", items[1].Category)
	assert.Equal(t, "food", items[1].ItemType)
}

func TestParseMenuCSVRequiresNameColumn(t *testing.T) {
	_, err := parseMenuCSV(strings.NewReader("category,price\nMains,9\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name column")
}

func TestParseMenuCSVSkipsBadPrice(t *testing.T) {
	items, err := parseMenuCSV(strings.NewReader("name,price\nSoup,market\n"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].Price)
}

func TestImportItemsCreatesAndUpdates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	db := &database.DB{Pool: mock}

	price := 14.0
	items := []SeedItem{
		{Name: "Burrata", Category: "Starters", ItemType: "food", Price: &price},
		{Name: "Margherita Pizza", Category: "Mains", ItemType: "food"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM menus").
		WithArgs(1, "Dinner").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO menus").
		WithArgs(1, "Dinner").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT id FROM menu_items").
		WithArgs(5, "Burrata").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO menu_items").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT id FROM menu_items").
		WithArgs(5, "Margherita Pizza").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(33))
	mock.ExpectExec("UPDATE menu_items").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	created, updated, err := importItems(db, 1, "Dinner", items)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}
