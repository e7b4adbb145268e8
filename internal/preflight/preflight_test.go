package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anthologiser/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()
	if r := CheckDirectoryAccess("dir", dir); !r.Passed {
		t.Fatalf("existing directory failed: %+v", r)
	}
	if r := CheckDirectoryAccess("dir", filepath.Join(dir, "a", "b")); !r.Passed || !strings.Contains(r.Detail, "will be created") {
		t.Fatalf("creatable directory failed: %+v", r)
	}
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckDirectoryAccess("dir", file); r.Passed {
		t.Fatalf("plain file passed: %+v", r)
	}
}

func TestRunAllReportsBrokenTables(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithAuxFile("aliases", "aliases.yaml", "merges: [oops"),
		testsupport.WithAuxFile("works", "works.tsv", "H1\tFox Trot\n"),
	)

	results := RunAll(cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Alias table" {
		t.Fatalf("unexpected failures %+v", failed)
	}
	if !strings.Contains(results[4].Detail, "1 works") {
		t.Fatalf("works detail = %q", results[4].Detail)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if RunAll(nil) != nil {
		t.Fatal("expected no results")
	}
}
