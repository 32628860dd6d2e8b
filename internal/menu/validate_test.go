package menu

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/platewise/menuflow/internal/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"empty is invalid", "", false},
		{"whitespace only is invalid", "   ", false},
		{"plain name", "Caesar Salad", true},
		{"exactly 100 chars", strings.Repeat("a", 100), true},
		{"101 chars", strings.Repeat("a", 101), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateField(models.FieldName, models.TextValue(tt.value))
			assert.Equal(t, tt.valid, res.IsValid)
			if !tt.valid {
				assert.NotEmpty(t, res.ErrorMessage)
			}
		})
	}
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"blank is optional", "", true},
		{"zero", "0", true},
		{"positive", "12.50", true},
		{"just below zero", "-0.01", false},
		{"negative", "-5", false},
		{"not a number", "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateField(models.FieldPrice, models.NumericValue(tt.value))
			assert.Equal(t, tt.valid, res.IsValid)
		})
	}
}

func TestValidateWineVintage(t *testing.T) {
	maxYear := time.Now().Year() + 10

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"blank is optional", "", true},
		{"lower bound", "1000", true},
		{"below lower bound", "999", false},
		{"typical", "2019", true},
		{"upper bound", "", true}, // filled in below
		{"beyond upper bound", "", false},
		{"not a number", "NV", false},
	}
	tests[4].value = strconv.Itoa(maxYear)
	tests[5].value = strconv.Itoa(maxYear + 1)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateField(models.FieldWineVintage, models.NumericValue(tt.value))
			assert.Equal(t, tt.valid, res.IsValid)
		})
	}
}

func TestValidateServingOptions(t *testing.T) {
	res := ValidateField(models.FieldWineServingOptions, models.OptionsValue(nil))
	assert.True(t, res.IsValid, "nil option list is allowed")

	res = ValidateField(models.FieldWineServingOptions, models.TextValue("glass"))
	assert.False(t, res.IsValid, "non-list shape is rejected")

	assert.False(t, ValidateServingSize("").IsValid)
	assert.False(t, ValidateServingSize("  ").IsValid)
	assert.True(t, ValidateServingSize("Glass").IsValid)

	assert.True(t, ValidateServingPrice("").IsValid)
	assert.True(t, ValidateServingPrice("9.00").IsValid)
	assert.False(t, ValidateServingPrice("-1").IsValid)
}

func TestValidateUnknownFieldsAcceptedAsIs(t *testing.T) {
	for _, field := range []string{models.FieldDescription, models.FieldCategory, models.FieldIngredients, "someFutureField"} {
		res := ValidateField(field, models.TextValue("anything at all"))
		assert.True(t, res.IsValid, field)
	}
}
