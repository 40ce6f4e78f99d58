package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize case-folds text (Unicode-aware, the catalog mixes Latin and
// Cyrillic scripts) and collapses every whitespace run to a single space.
// It is applied identically to catalog keys at load time and to queries
// at match time; substring comparisons depend on that symmetry.
func Normalize(text string) string {
	folded := cases.Fold().String(text)
	return strings.Join(strings.Fields(folded), " ")
}
