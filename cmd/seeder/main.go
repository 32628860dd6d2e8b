package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/platewise/menuflow/internal/config"
	"github.com/platewise/menuflow/internal/database"
)

// SeedItem is one menu item row read from the CSV
type SeedItem struct {
	Name        string
	Category    string
	Description string
	Price       *float64
	ItemType    string
}

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	restaurantID := flag.Int("restaurant", 0, "Restaurant id to seed items into")
	menuName := flag.String("menu", "Seeded Menu", "Menu name to create or reuse")
	csvFile := flag.String("file", "", "CSV file with columns: name,category,description,price,item_type")
	flag.Parse()

	if *csvFile == "" {
		log.Fatal("-file is required")
	}
	if *restaurantID == 0 && !*dryRun {
		log.Fatal("-restaurant is required unless -dry-run is set")
	}

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	// Parse CSV
	file, err := os.Open(*csvFile)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	items, err := parseMenuCSV(file)
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}
	log.Printf("Found %d items to import", len(items))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(items, 20)
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	created, updated, err := importItems(db, *restaurantID, *menuName, items)
	if err != nil {
		log.Fatalf("Failed to import items: %v", err)
	}
	log.Printf("Import complete: %d new items, %d updated", created, updated)
}

// parseMenuCSV reads menu item rows, keyed columns by header name
func parseMenuCSV(reader io.Reader) ([]SeedItem, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := colMap["name"]; !ok {
		return nil, fmt.Errorf("CSV is missing the name column")
	}

	field := func(record []string, name string) string {
		idx, ok := colMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var items []SeedItem
	rowCount := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row: %v", err)
			continue
		}
		rowCount++

		name := field(record, "name")
		if name == "" {
			continue
		}

		item := SeedItem{
			Name:        name,
			Category:    field(record, "category"),
			Description: field(record, "description"),
			ItemType:    field(record, "item_type"),
		}
		if item.Category == "" {
			item.Category = "Uncategorized"
		}
		if item.ItemType == "" {
			item.ItemType = "food"
		}
		if raw := field(record, "price"); raw != "" {
			price, err := strconv.ParseFloat(strings.TrimPrefix(raw, "$"), 64)
			if err != nil {
				log.Printf("Warning: skipping unparseable price %q for %s", raw, name)
			} else {
				item.Price = &price
			}
		}
		items = append(items, item)
	}
	log.Printf("Processed %d rows", rowCount)

	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// importItems writes the items into the target menu in one transaction.
// Existing items are matched by name within the menu and updated in
// place, which also bumps their version.
func importItems(db *database.DB, restaurantID int, menuName string, items []SeedItem) (created, updated int, err error) {
	ctx := context.Background()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Find or create the target menu
	var menuID int
	err = tx.QueryRow(ctx, `
		SELECT id FROM menus
		WHERE restaurant_id = $1 AND LOWER(name) = LOWER($2)
	`, restaurantID, menuName).Scan(&menuID)
	if err == pgx.ErrNoRows {
		err = tx.QueryRow(ctx, `
			INSERT INTO menus (restaurant_id, name)
			VALUES ($1, $2) RETURNING id
		`, restaurantID, menuName).Scan(&menuID)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to resolve menu %q: %w", menuName, err)
	}

	for _, item := range items {
		var existingID int
		err := tx.QueryRow(ctx, `
			SELECT id FROM menu_items
			WHERE menu_id = $1 AND LOWER(name) = LOWER($2)
		`, menuID, item.Name).Scan(&existingID)

		if err == pgx.ErrNoRows {
			_, err = tx.Exec(ctx, `
				INSERT INTO menu_items (menu_id, restaurant_id, name, description, price, category, item_type)
				VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
			`, menuID, restaurantID, item.Name, item.Description, item.Price, item.Category, item.ItemType)
			if err != nil {
				return created, updated, fmt.Errorf("failed to insert %q: %w", item.Name, err)
			}
			created++
		} else if err != nil {
			return created, updated, fmt.Errorf("failed to check existing %q: %w", item.Name, err)
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE menu_items SET
					description = NULLIF($1, ''),
					price = $2,
					category = $3,
					item_type = $4,
					version = version + 1,
					updated_at = NOW()
				WHERE id = $5
			`, item.Description, item.Price, item.Category, item.ItemType, existingID)
			if err != nil {
				return created, updated, fmt.Errorf("failed to update %q: %w", item.Name, err)
			}
			updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, updated, nil
}

// printPreview shows a sample of the data to be imported
func printPreview(items []SeedItem, limit int) {
	fmt.Println("\n=== Preview of items to import ===")
	fmt.Printf("Total: %d items\n\n", len(items))

	categoryCount := make(map[string]int)
	for _, item := range items {
		categoryCount[item.Category]++
	}

	fmt.Println("Items per category:")
	categories := make([]string, 0, len(categoryCount))
	for c := range categoryCount {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Printf("  %s: %d items\n", c, categoryCount[c])
	}

	fmt.Printf("\nSample items (first %d):\n", limit)
	for i, item := range items {
		if i >= limit {
			break
		}
		price := "-"
		if item.Price != nil {
			price = fmt.Sprintf("$%.2f", *item.Price)
		}
		fmt.Printf("  %s (%s) %s\n", item.Name, item.Category, price)
	}
}
