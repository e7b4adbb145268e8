package identity

import (
	"slices"
	"testing"
)

func TestCompareIgnoresPunctuation(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"The Fox.", "The-Fox", 0},
		{"apple", "banana", -1},
		{"banana", "apple", 1},
		{"a.b", "ab", 1},
		{"", "a", 0},
		{"a", "", 0},
		{"...", "a", -1},
		{"%Fox", "Fox", 1},
	}
	for _, tc := range cases {
		if got := Compare(tc.a, tc.b); got != tc.want {
			t.Errorf("Compare(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCompareSimultaneousExhaustion(t *testing.T) {
	// Equal strings consumed in lockstep report 1, not 0.
	if got := Compare("ab", "ab"); got != 1 {
		t.Fatalf("Compare(ab, ab) = %d, want 1", got)
	}
	// A proper prefix exhausts first outside the scan and reports 0.
	if got := Compare("ab", "abc"); got != 0 {
		t.Fatalf("Compare(ab, abc) = %d, want 0", got)
	}
	if got := Compare("abc", "ab"); got != 0 {
		t.Fatalf("Compare(abc, ab) = %d, want 0", got)
	}
	// Trailing punctuation exhausts both inside the scan.
	if got := Compare("ab.", "ab!"); got != 0 {
		t.Fatalf("Compare(ab., ab!) = %d, want 0", got)
	}
	if Less("ab", "ab") {
		t.Fatal("a key must not sort before itself")
	}
}

func TestKeysStayDistinct(t *testing.T) {
	a := Key(DefaultMarker, "The Fox.")
	b := Key(DefaultMarker, "The-Fox")
	if a == b {
		t.Fatal("keys differing in punctuation must remain distinct")
	}
	if Compare(a, b) != 0 {
		t.Fatalf("expected adjacent sort position, got %d", Compare(a, b))
	}
	if Label(DefaultMarker, a) != "The Fox." {
		t.Fatalf("unexpected label %q", Label(DefaultMarker, a))
	}
}

func TestSortIsDeterministic(t *testing.T) {
	input := []string{"%Fox-Trot", "%apple", "%Fox Trot", "%Bear", "%Fox.Trot", "%Cat"}
	first := Sort(input)
	want := []string{"%Bear", "%Cat", "%Fox Trot", "%Fox-Trot", "%Fox.Trot", "%apple"}
	if !slices.Equal(first, want) {
		t.Fatalf("Sort = %v, want %v", first, want)
	}
	reversed := slices.Clone(input)
	slices.Reverse(reversed)
	if got := Sort(reversed); !slices.Equal(got, first) {
		t.Fatalf("Sort depends on input order: %v vs %v", got, first)
	}
	if input[0] != "%Fox-Trot" {
		t.Fatal("Sort must not modify its argument")
	}
}

func TestNormalizeComposes(t *testing.T) {
	if got := Normalize("Cafe\u0301 "); got != "Caf\u00e9" {
		t.Fatalf("Normalize = %q", got)
	}
}
