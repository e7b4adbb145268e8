// Package identity defines the keys under which units are grouped and the
// punctuation-insensitive order used when they are laid out on disk.
//
// Keys are plain strings and compare for equality byte-for-byte, so labels that
// differ only in punctuation stay distinct in maps. Only Compare and Sort look
// past punctuation.
package identity

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultMarker prefixes identity directory names.
const DefaultMarker = "%"

// Normalize canonicalizes a raw label into the form used as a key.
func Normalize(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

// Key builds the map key for a label.
func Key(marker, label string) string {
	return marker + Normalize(label)
}

// Label strips the marker from a key.
func Label(marker, key string) string {
	return strings.TrimPrefix(key, marker)
}

func significant(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Compare orders a and b by their letters and digits only.
//
// When both operands run out of significant characters at the same time the
// result depends on where that happens: inside the scan it is 0, but two
// strings consumed in lockstep to their ends compare as 1. Compare("ab", "ab")
// is therefore 1 and Compare("ab", "abc") is 0. Bucket naming relies on this
// exact tie-break.
func Compare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		for i < len(ra) && !significant(ra[i]) {
			i++
		}
		for j < len(rb) && !significant(rb[j]) {
			j++
		}
		switch {
		case i == len(ra) && j < len(rb):
			return -1
		case j == len(rb) && i < len(ra):
			return 1
		case i == len(ra) && j == len(rb):
			return 0
		case ra[i] < rb[j]:
			return -1
		case ra[i] > rb[j]:
			return 1
		}
		i++
		j++
	}
	if i == len(ra) && j == len(rb) {
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Sort returns keys in punctuation-insensitive order. Keys are first ordered
// byte-wise so that ties under Compare resolve the same way on every run.
func Sort(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}
