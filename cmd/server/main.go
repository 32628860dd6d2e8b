package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/platewise/menuflow/internal/config"
	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/handlers"
	"github.com/platewise/menuflow/internal/middleware"
	"github.com/platewise/menuflow/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create admin user if it doesn't exist
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Initialize document storage (optional, uploads are rejected without it)
	var storage *services.DocumentStorage
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		storage, err = services.NewDocumentStorage(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Printf("Warning: Failed to initialize document storage: %v", err)
			storage = nil
		} else if err := storage.EnsureBucket(context.Background()); err != nil {
			log.Printf("Warning: Failed to ensure storage bucket exists: %v", err)
		}
	} else {
		log.Println("S3 credentials not configured, uploaded documents will not be retained")
	}

	// Initialize OCR (optional, image uploads need it)
	ocr, err := services.NewOCRService()
	if err != nil {
		log.Printf("Warning: Failed to initialize OCR service, image uploads disabled: %v", err)
		ocr = nil
	} else {
		defer ocr.Close()
	}

	// Pick the extraction backend: remote endpoint when configured,
	// otherwise the built-in rule-based parser.
	var extractionClient services.ExtractionClient
	if cfg.ExtractionEndpoint != "" {
		extractionClient = services.NewHTTPExtractionClient(cfg.ExtractionEndpoint, cfg.ExtractionAPIKey)
		log.Printf("Using remote extraction endpoint %s", cfg.ExtractionEndpoint)
	} else {
		extractionClient = services.NewRuleBasedClient()
		log.Println("Using built-in rule-based menu parser")
	}
	extractor := services.NewMenuExtractor(ocr, extractionClient)

	conflicts := services.NewConflictService(db)
	importer := services.NewImportService(db, cfg.ImportAsyncThreshold)
	quizzes := services.NewQuizService(db, time.Now().UnixNano())
	email := services.NewEmailService(cfg)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    12 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, cfg, storage, extractor, conflicts, importer, quizzes, email)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API routes
	api := app.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/accept-invite", h.AcceptInvite)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)

	// Restaurant routes (authenticated)
	restaurants := api.Group("/restaurants", middleware.AuthRequired(cfg))
	restaurants.Post("/", middleware.OwnerRequired(), h.CreateRestaurant)
	restaurants.Get("/", h.ListRestaurants)
	restaurants.Get("/:id", h.GetRestaurant)
	restaurants.Put("/:id", middleware.OwnerRequired(), h.UpdateRestaurant)
	restaurants.Delete("/:id", middleware.OwnerRequired(), h.DeleteRestaurant)
	restaurants.Post("/:id/invitations", middleware.OwnerRequired(), h.InviteStaff)
	restaurants.Get("/:id/staff", h.ListStaff)

	// Menu routes
	restaurants.Post("/:id/menus", middleware.OwnerRequired(), h.CreateMenu)
	restaurants.Get("/:id/menus", h.ListMenus)

	menus := api.Group("/menus", middleware.AuthRequired(cfg))
	menus.Get("/:menuId", h.GetMenu)
	menus.Delete("/:menuId", middleware.OwnerRequired(), h.DeleteMenu)
	menus.Post("/:menuId/items", middleware.OwnerRequired(), h.CreateMenuItem)
	menus.Put("/:menuId/items/:itemId", middleware.OwnerRequired(), h.UpdateMenuItem)
	menus.Delete("/:menuId/items/:itemId", middleware.OwnerRequired(), h.DeleteMenuItem)

	// Quiz routes (staff take quizzes, owners generate them)
	menus.Post("/:menuId/quiz", middleware.OwnerRequired(), h.GenerateQuiz)
	menus.Get("/:menuId/quiz", h.ListQuizQuestions)
	menus.Post("/:menuId/quiz/:questionId/answer", h.AnswerQuizQuestion)

	// Upload and import pipeline (owner only)
	restaurants.Post("/:id/menus/upload/preview", middleware.OwnerRequired(), h.UploadMenuPreview)
	restaurants.Post("/:id/conflicts/process", middleware.OwnerRequired(), h.ProcessConflicts)
	restaurants.Post("/:id/import/finalize", middleware.OwnerRequired(), h.FinalizeImport)
	restaurants.Get("/:id/import/jobs/:jobId", middleware.OwnerRequired(), h.GetImportJob)
	restaurants.Get("/:id/import/jobs/:jobId/report.csv", middleware.OwnerRequired(), h.GetImportErrorReport)

	// Preview review routes (owner only)
	previews := api.Group("/previews", middleware.AuthRequired(cfg), middleware.OwnerRequired())
	previews.Get("/:previewId", h.GetPreview)
	previews.Delete("/:previewId", h.DeletePreview)
	previews.Post("/:previewId/conflicts", h.RunConflictCheck)
	previews.Put("/:previewId/items/:itemId/fields/:field", h.EditItemField)
	previews.Post("/:previewId/items/:itemId/action", h.SetItemAction)
	previews.Post("/:previewId/items/:itemId/category", h.ReassignItemCategory)
	previews.Post("/:previewId/items/:itemId/serving-options", h.AddServingOption)
	previews.Put("/:previewId/items/:itemId/serving-options/:optionId", h.UpdateServingOption)
	previews.Delete("/:previewId/items/:itemId/serving-options/:optionId", h.RemoveServingOption)
	previews.Post("/:previewId/categories", h.AddCategory)
	previews.Put("/:previewId/categories", h.RenameCategory)
	previews.Delete("/:previewId/categories", h.DeleteCategory)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
