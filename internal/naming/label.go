package naming

import (
	"strings"
	"unicode"

	"anthologiser/internal/identity"
)

var labelStripper = strings.NewReplacer(":", "", "?", "", `"`, "")

// ResolveLabel maps a raw marker label to its canonical form: the alias
// table is consulted first, then the characters : ? and " are dropped, the
// removal pattern is applied and the result is trimmed.
func ResolveLabel(raw string, aliases *Aliases) string {
	name := identity.Normalize(raw)
	if canonical, ok := aliases.Lookup(name); ok {
		name = canonical
	}
	name = labelStripper.Replace(name)
	if re := aliases.removalRegexp(); re != nil {
		name = re.ReplaceAllString(name, "")
	}
	return strings.TrimSpace(name)
}

// WorkFromVersion strips the trailing run of lowercase letters from a version
// identifier, never shortening it below one character.
func WorkFromVersion(version string) string {
	runes := []rune(version)
	for len(runes) > 1 && unicode.IsLower(runes[len(runes)-1]) {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
