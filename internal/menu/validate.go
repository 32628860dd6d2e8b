package menu

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/platewise/menuflow/internal/models"
)

// MaxNameLength caps the name field.
const MaxNameLength = 100

// MinWineVintage is the oldest accepted vintage year.
const MinWineVintage = 1000

// ValidationResult is the outcome of validating one field or serving
// option column. Errors are data for the caller to render, never thrown.
type ValidationResult struct {
	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{IsValid: false, ErrorMessage: msg}
}

// ValidateField validates a single field value against its rules.
// Pure and deterministic apart from the vintage upper bound, which
// tracks the current year. Fields without a rule are accepted as-is;
// only the server-side import path can reject them.
func ValidateField(name string, value models.FieldValue) ValidationResult {
	switch name {
	case models.FieldName:
		trimmed := strings.TrimSpace(value.Text)
		if trimmed == "" {
			return invalid("name is required")
		}
		if len(trimmed) > MaxNameLength {
			return invalid(fmt.Sprintf("name must be %d characters or fewer", MaxNameLength))
		}
		return valid()

	case models.FieldPrice:
		return validateOptionalPrice(value.Text)

	case models.FieldWineVintage:
		trimmed := strings.TrimSpace(value.Text)
		if trimmed == "" {
			return valid()
		}
		year, err := strconv.Atoi(trimmed)
		if err != nil {
			return invalid("vintage must be a year")
		}
		max := time.Now().Year() + 10
		if year < MinWineVintage || year > max {
			return invalid(fmt.Sprintf("vintage must be between %d and %d", MinWineVintage, max))
		}
		return valid()

	case models.FieldWineServingOptions:
		// Per-option validity is tracked per row; this generic check
		// only rejects a value of the wrong shape.
		if value.Kind != models.FieldKindOptions {
			return invalid("serving options must be a list")
		}
		return valid()

	default:
		return valid()
	}
}

// ValidateServingSize validates one serving-option size cell.
func ValidateServingSize(size string) ValidationResult {
	if strings.TrimSpace(size) == "" {
		return invalid("size is required")
	}
	return valid()
}

// ValidateServingPrice validates one serving-option price cell. Blank
// is allowed.
func ValidateServingPrice(price string) ValidationResult {
	return validateOptionalPrice(price)
}

func validateOptionalPrice(raw string) ValidationResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return valid()
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return invalid("price must be a number")
	}
	if n < 0 {
		return invalid("price cannot be negative")
	}
	return valid()
}
