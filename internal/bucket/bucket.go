// Package bucket partitions the identity set of a target folder into
// size-balanced buckets and names each bucket after the shortest prefixes
// that tell its first and last members apart.
package bucket

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"anthologiser/internal/identity"
)

// ErrNoIdentities is returned by Allocate for an empty identity set.
var ErrNoIdentities = errors.New("no identities to allocate")

// NameDelimiter starts every bucket directory name so buckets cannot be
// mistaken for identity directories.
const NameDelimiter = " "

const ellipsis = "..."

// Options are the allocation constants.
type Options struct {
	// Factor scales ln(N) into the bucket count.
	Factor float64
	// MinBuckets is the lower bound on the bucket count.
	MinBuckets int
	// MaxPrefixLen bounds each half of a bucket name; longer prefixes keep
	// three leading characters, an ellipsis and the tail.
	MaxPrefixLen int
	// Marker is stripped from identities before prefixes are computed.
	Marker string
}

// DefaultOptions returns the standard allocation constants.
func DefaultOptions() Options {
	return Options{Factor: 2, MinBuckets: 1, MaxPrefixLen: 8, Marker: identity.DefaultMarker}
}

// Bucket is a contiguous run of the sorted identity list.
type Bucket struct {
	Name     string
	Leading  string
	Trailing string
	Keys     []string
}

// Layout returns the bucket count and the bucket size for n identities.
func Layout(n int, opts Options) (count, size int) {
	if n <= 0 {
		return 0, 0
	}
	count = int(math.Round(opts.Factor * math.Log(float64(n))))
	if count < max(opts.MinBuckets, 1) {
		count = max(opts.MinBuckets, 1)
	}
	return count, n/count + 1
}

// Allocate sorts keys in identity order and cuts them into buckets. Every
// key lands in exactly one bucket. Each leading prefix is grown to at least
// the length of the previous bucket's trailing prefix before it may stop;
// when a name still repeats its predecessor, separate lengthens it.
func Allocate(keys []string, opts Options) ([]Bucket, error) {
	if len(keys) == 0 {
		return nil, ErrNoIdentities
	}
	sorted := identity.Sort(keys)
	_, size := Layout(len(sorted), opts)

	var buckets []Bucket
	prev := ""
	for start := 0; start < len(sorted); start += size {
		end := min(start+size, len(sorted))
		first, last := sorted[start], sorted[end-1]
		grown := uniquePrefix(first, last, prev, opts.Marker)
		leading := abbreviate(grown, opts.MaxPrefixLen)
		trailing := UniquePrefix(last, first, "", opts)
		if n := len(buckets); n > 0 && bucketName(leading, trailing) == buckets[n-1].Name {
			leading, trailing = separate(first, last, len(grown), trailing, buckets[n-1].Name, n, opts)
		}
		prev = trailing
		buckets = append(buckets, Bucket{
			Name:     bucketName(leading, trailing),
			Leading:  leading,
			Trailing: trailing,
			Keys:     append([]string(nil), sorted[start:end]...),
		})
	}
	return buckets, nil
}

func bucketName(leading, trailing string) string {
	return NameDelimiter + leading + "-" + trailing
}

// separate finds a name other than taken for the bucket running from first
// to last. The leading prefix grows one character at a time past grown; if
// first runs out, the trailing prefix of last is tried from its shortest
// form, and as a last resort the bucket's position is appended.
func separate(first, last string, grown int, trailing, taken string, index int, opts Options) (string, string) {
	a := []rune(strings.TrimPrefix(first, opts.Marker))
	for n := grown + 1; n <= len(a); n++ {
		leading := abbreviate(a[:n], opts.MaxPrefixLen)
		if bucketName(leading, trailing) != taken {
			return leading, trailing
		}
	}
	leading := abbreviate(a, opts.MaxPrefixLen)
	z := []rune(strings.TrimPrefix(last, opts.Marker))
	for n := 1; n <= len(z); n++ {
		candidate := abbreviate(z[:n], opts.MaxPrefixLen)
		if bucketName(leading, candidate) != taken {
			return leading, candidate
		}
	}
	return leading, trailing + "~" + strconv.Itoa(index+1)
}

// UniquePrefix returns the prefix of one that tells it apart from two. The
// scan copies one character at a time and stops after the first position
// where both strings hold different letters, provided the prefix is already
// at least as long as prev. When two is a proper prefix of one, the next
// character of one is appended. An empty prev imposes no minimum.
func UniquePrefix(one, two, prev string, opts Options) string {
	return abbreviate(uniquePrefix(one, two, prev, opts.Marker), opts.MaxPrefixLen)
}

func uniquePrefix(one, two, prev, marker string) []rune {
	a := []rune(strings.TrimPrefix(one, marker))
	b := []rune(strings.TrimPrefix(two, marker))
	minLen := len([]rune(prev))

	var out []rune
	i := 0
	for ; i < len(a) && i < len(b); i++ {
		out = append(out, a[i])
		if a[i] != b[i] && unicode.IsLetter(a[i]) && unicode.IsLetter(b[i]) && minLen <= len(out) {
			break
		}
	}
	if i == len(b) && i < len(a) {
		out = append(out, a[i])
	}
	return out
}

func abbreviate(prefix []rune, maxLen int) string {
	keep := maxLen - 3 - len(ellipsis)
	if maxLen <= 0 || len(prefix) <= maxLen || keep < 1 {
		return string(prefix)
	}
	return string(prefix[:3]) + ellipsis + string(prefix[len(prefix)-keep:])
}
