package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/platewise/menuflow/internal/config"
	"github.com/platewise/menuflow/internal/database"
	"github.com/platewise/menuflow/internal/services"
)

// Handler holds all handler dependencies
type Handler struct {
	db        *database.DB
	cfg       *config.Config
	storage   *services.DocumentStorage
	extractor *services.MenuExtractor
	conflicts *services.ConflictService
	importer  *services.ImportService
	quizzes   *services.QuizService
	email     *services.EmailService
}

// New creates a new Handler instance. Storage and extractor may be nil
// in stripped-down deployments; upload endpoints then report the gap.
func New(
	db *database.DB,
	cfg *config.Config,
	storage *services.DocumentStorage,
	extractor *services.MenuExtractor,
	conflicts *services.ConflictService,
	importer *services.ImportService,
	quizzes *services.QuizService,
	email *services.EmailService,
) *Handler {
	return &Handler{
		db:        db,
		cfg:       cfg,
		storage:   storage,
		extractor: extractor,
		conflicts: conflicts,
		importer:  importer,
		quizzes:   quizzes,
		email:     email,
	}
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains list metadata
type Meta struct {
	Total int `json:"total"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with list metadata
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}
