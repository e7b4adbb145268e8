package versions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anthologiser/internal/logging"
)

func TestLoadMissingIsEmpty(t *testing.T) {
	r, err := Load(t.TempDir(), logging.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestRoundTripAccumulates(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, logging.NewNop())
	if err := r.Add("harpur", "MS 123, f.2"); err != nil {
		t.Fatal(err)
	}
	if err := r.Add("harpur", "MS 124"); err != nil {
		t.Fatal(err)
	}
	if err := r.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second, err := Load(dir, logging.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, _ := second.Get("harpur"); got != "MS 124" {
		t.Fatalf("last write should win, got %q", got)
	}
	if err := second.Add("kendall", "Notebook A"); err != nil {
		t.Fatal(err)
	}
	if err := second.Save(); err != nil {
		t.Fatal(err)
	}

	third, err := Load(dir, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if third.Len() != 2 || !third.Contains("kendall") || !third.Contains("harpur") {
		t.Fatalf("unexpected entries: %v", third.List())
	}
	list := third.List()
	if list[0].Key != "harpur" || list[1].Key != "kendall" {
		t.Fatalf("List not sorted: %v", list)
	}
}

func TestFileShape(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, nil)
	if err := r.Add("harpur", "MS 123"); err != nil {
		t.Fatal(err)
	}
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"versions"`, `"key": "harpur"`, `"value": "MS 123"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("missing %s in %s", want, data)
		}
	}
}

func TestAddRejectsEmptyKey(t *testing.T) {
	if err := New(t.TempDir(), nil).Add("  ", "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir, nil); err == nil {
		t.Fatal("expected parse error")
	}
}
