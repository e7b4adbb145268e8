package textutil

import "strings"

// SplitName splits a file name at its last dot. The suffix keeps the dot.
func SplitName(fileName string) (base, suffix string) {
	idx := strings.LastIndex(fileName, ".")
	if idx == -1 {
		return fileName, ""
	}
	return fileName[:idx], fileName[idx:]
}

// SimpleName returns fileName without its extension.
func SimpleName(fileName string) string {
	base, _ := SplitName(fileName)
	return base
}

// SanitizeSegment makes value usable as a single path segment by replacing
// path separators with underscores.
func SanitizeSegment(value string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(value)
}

// BeforeLast returns value up to, but excluding, the last occurrence of sep,
// trimmed of surrounding whitespace. Without sep the whole value is trimmed.
func BeforeLast(value, sep string) string {
	if idx := strings.LastIndex(value, sep); idx != -1 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

// CollapseSpace replaces runs of whitespace, including line breaks, with a
// single space.
func CollapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
