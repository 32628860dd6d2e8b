package menu

import (
	"strings"
	"unicode"
)

// Uncategorized is the sentinel category: it cannot be deleted and
// absorbs items orphaned by a category delete.
const Uncategorized = "Uncategorized"

// NormalizeCategory canonicalizes a free-text category name so variants
// collapse to one grouping key: trim, lower-case, title-case each word,
// rejoin with single spaces. Empty or whitespace-only input maps to
// Uncategorized. Idempotent.
func NormalizeCategory(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	if len(words) == 0 {
		return Uncategorized
	}

	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}

	return strings.Join(words, " ")
}

// NormalizeName canonicalizes an item name for conflict matching:
// lower-cased with whitespace collapsed. Categories keep their own
// normalizer because they are user-visible keys.
func NormalizeName(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
