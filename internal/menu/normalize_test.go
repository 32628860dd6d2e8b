package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", Uncategorized},
		{"whitespace only", "   \t ", Uncategorized},
		{"mixed case with padding", " fine DINING ", "Fine Dining"},
		{"single word", "starters", "Starters"},
		{"collapses inner spaces", "wine   list", "Wine List"},
		{"already normalized", "Wine List", "Wine List"},
		{"unicode", "entrées", "Entrées"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCategory(tt.in))
		})
	}
}

func TestNormalizeCategoryIdempotent(t *testing.T) {
	inputs := []string{"", "  ", "fine DINING", "a b c", "Uncategorized", "CHEF'S specials"}
	for _, in := range inputs {
		once := NormalizeCategory(in)
		assert.Equal(t, once, NormalizeCategory(once), "normalize(normalize(%q))", in)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "caesar salad", NormalizeName("  Caesar   SALAD "))
	assert.Equal(t, "", NormalizeName("   "))
}
