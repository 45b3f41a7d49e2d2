package ui

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/macropower/mdpkm/pkg/search"
)

// DefaultCategories are the mod categories shared by the supported
// platforms. The first entry disables the filter.
var DefaultCategories = []string{
	search.CategoryNone,
	"adventure",
	"decoration",
	"equipment",
	"food",
	"library",
	"magic",
	"optimization",
	"storage",
	"technology",
	"transportation",
	"utility",
	"worldgen",
}

// CategoryTitle returns the display name of a category id.
func CategoryTitle(c string) string {
	if c == "" || c == search.CategoryNone {
		return "All categories"
	}

	return cases.Title(language.English).String(strings.NewReplacer("-", " ", "_", " ").Replace(c))
}
