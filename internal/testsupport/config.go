// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"anthologiser/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The target folder doubles as the top-level folder.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TargetDir = filepath.Join(base, "poems")
	cfgVal.Paths.TopLevelDir = cfgVal.Paths.TargetDir
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSubFolders enables bucket sub-folders.
func WithSubFolders() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Layout.SubFolders = true
	}
}

// WithHTMLCatalog switches to the HTML catalog encoding, optionally joining
// catalogs into the index after each run.
func WithHTMLCatalog(join bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.Format = config.CatalogFormatHTML
		b.cfg.Catalog.Join = join
	}
}

// WithAuxFile writes content into the temp directory and points the
// aliases or works setting at it, selected by field ("aliases" or "works").
func WithAuxFile(field, name, content string) ConfigOption {
	return func(b *configBuilder) {
		path := WriteFile(b.t, filepath.Join(b.baseDir, name), content)
		switch field {
		case "aliases":
			b.cfg.Paths.AliasesFile = path
		case "works":
			b.cfg.Paths.WorksFile = path
		default:
			b.t.Fatalf("unknown aux file field %q", field)
		}
	}
}
