package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"anthologiser/internal/textutil"
)

// DisplayTitle cleans a label for use as a title. Whitespace is collapsed and
// labels written entirely in one letter case are title-cased; mixed-case
// labels are kept as written.
func DisplayTitle(label string) string {
	title := textutil.CollapseSpace(label)
	if title == "" {
		return ""
	}
	var upper, lower bool
	for _, r := range title {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		}
	}
	if upper && lower {
		return title
	}
	return cases.Title(language.Und).String(strings.ToLower(title))
}
