package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"anthologiser/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "anthologiser", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}
	if !filepath.IsAbs(cfg.Paths.TargetDir) || filepath.Base(cfg.Paths.TargetDir) != "poems" {
		t.Fatalf("unexpected target dir: %q", cfg.Paths.TargetDir)
	}
	if cfg.Paths.TopLevelDir != cfg.Paths.TargetDir {
		t.Fatalf("expected top level to equal single-element target, got %q", cfg.Paths.TopLevelDir)
	}
	if cfg.Links.Base != "/" {
		t.Fatalf("unexpected link base: %q", cfg.Links.Base)
	}
	if cfg.Layout.MaxPrefixLen != 8 || cfg.Layout.BucketFactor != 2 || cfg.Layout.MinBuckets != 1 {
		t.Fatalf("unexpected layout defaults: %+v", cfg.Layout)
	}
	if cfg.Split.Marker != "***" || cfg.Split.VersionPrefix != "H" {
		t.Fatalf("unexpected split defaults: %+v", cfg.Split)
	}
	if cfg.Catalog.Format != config.CatalogFormatMVD {
		t.Fatalf("unexpected catalog format: %q", cfg.Catalog.Format)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.TargetDir, cfg.Paths.StagingDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "anthologiser.toml")

	type payload struct {
		Paths struct {
			TargetDir string `toml:"target_dir"`
		} `toml:"paths"`
		Links struct {
			Base string `toml:"base"`
		} `toml:"links"`
		Layout struct {
			SubFolders   bool `toml:"sub_folders"`
			MaxPrefixLen int  `toml:"max_prefix_len"`
		} `toml:"layout"`
		Catalog struct {
			Format string `toml:"format"`
			Join   bool   `toml:"join"`
		} `toml:"catalog"`
	}
	custom := payload{}
	custom.Paths.TargetDir = filepath.Join(tempDir, "out", "harpur")
	custom.Links.Base = "/harpur"
	custom.Layout.SubFolders = true
	custom.Layout.MaxPrefixLen = 10
	custom.Catalog.Format = " HTML "
	custom.Catalog.Join = true
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Links.Base != "/harpur/" {
		t.Fatalf("expected link base with trailing slash, got %q", cfg.Links.Base)
	}
	if !cfg.Layout.SubFolders || cfg.Layout.MaxPrefixLen != 10 {
		t.Fatalf("expected layout overrides, got %+v", cfg.Layout)
	}
	if cfg.Catalog.Format != config.CatalogFormatHTML || !cfg.Catalog.Join {
		t.Fatalf("expected html catalog with join, got %+v", cfg.Catalog)
	}
	if cfg.Paths.TopLevelDir != cfg.Paths.TargetDir {
		t.Fatalf("absolute target should be its own top level, got %q", cfg.Paths.TopLevelDir)
	}
}

func TestSetTargetDirDerivesTopLevel(t *testing.T) {
	base := t.TempDir()
	t.Chdir(base)

	cfg := config.Default()
	if err := cfg.SetTargetDir("archive/harpur/poems"); err != nil {
		t.Fatalf("SetTargetDir: %v", err)
	}
	if cfg.Paths.TargetDir != filepath.Join(base, "archive", "harpur", "poems") {
		t.Fatalf("unexpected target: %q", cfg.Paths.TargetDir)
	}
	if cfg.Paths.TopLevelDir != filepath.Join(base, "archive") {
		t.Fatalf("unexpected top level: %q", cfg.Paths.TopLevelDir)
	}
	if cfg.MiscDir() != filepath.Join(base, "archive", "@misc") {
		t.Fatalf("unexpected misc dir: %q", cfg.MiscDir())
	}
	if err := cfg.SetTargetDir("   "); err == nil {
		t.Fatal("expected error for blank target")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[layout]") {
		t.Fatalf("sample config missing layout section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Layout.MaxPrefixLen != 8 {
		t.Fatalf("expected sample max_prefix_len 8, got %d", cfg.Layout.MaxPrefixLen)
	}
	if !strings.Contains(cfg.Paths.StagingDir, "anthologiser") {
		t.Fatalf("expected staging dir to contain anthologiser, got %q", cfg.Paths.StagingDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bucket factor", func(c *config.Config) { c.Layout.BucketFactor = -1 }},
		{"min buckets", func(c *config.Config) { c.Layout.MinBuckets = 0 }},
		{"prefix length", func(c *config.Config) { c.Layout.MaxPrefixLen = 6 }},
		{"marker", func(c *config.Config) { c.Split.Marker = "" }},
		{"catalog format", func(c *config.Config) { c.Catalog.Format = "xml" }},
		{"join needs html", func(c *config.Config) { c.Catalog.Join = true }},
		{"staging age", func(c *config.Config) { c.Staging.MaxAgeHours = -1 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
