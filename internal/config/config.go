package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and auxiliary file locations.
type Paths struct {
	TargetDir   string `toml:"target_dir"`
	TopLevelDir string `toml:"top_level_dir"`
	StagingDir  string `toml:"staging_dir"`
	LogDir      string `toml:"log_dir"`
	AliasesFile string `toml:"aliases_file"`
	WorksFile   string `toml:"works_file"`
}

// Links contains the prefixes used when catalog links are generated.
type Links struct {
	Base           string `toml:"base"`
	ArchiveBaseURL string `toml:"archive_base_url"`
}

// Layout controls how identities are laid out below the target folder.
type Layout struct {
	SubFolders     bool    `toml:"sub_folders"`
	MiscFolder     string  `toml:"misc_folder"`
	IdentityMarker string  `toml:"identity_marker"`
	BucketFactor   float64 `toml:"bucket_factor"`
	MinBuckets     int     `toml:"min_buckets"`
	MaxPrefixLen   int     `toml:"max_prefix_len"`
}

// Split contains the markers recognized while splitting a source document.
type Split struct {
	Marker        string `toml:"marker"`
	VersionRole   string `toml:"version_role"`
	VersionPrefix string `toml:"version_prefix"`
	SourceRole    string `toml:"source_role"`
	ConvertNotes  bool   `toml:"convert_notes"`
}

// Catalog selects the anthology catalog encoding.
type Catalog struct {
	Format string `toml:"format"`
	Join   bool   `toml:"join"`
}

// Staging contains scratch area settings.
type Staging struct {
	Compress    bool `toml:"compress"`
	MaxAgeHours int  `toml:"max_age_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Anthologiser.
//
// Configuration sections by subsystem:
//   - Paths: target folder, staging area, logs, alias and work-id tables
//   - Links: link-base prefix and archive base URL
//   - Layout: bucket sub-folders and allocation constants
//   - Split: comment sentinel and version/source roles
//   - Catalog: catalog encoding and join toggle
//   - Staging: scratch compression and stale cleanup
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Links   Links   `toml:"links"`
	Layout  Layout  `toml:"layout"`
	Split   Split   `toml:"split"`
	Catalog Catalog `toml:"catalog"`
	Staging Staging `toml:"staging"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/anthologiser/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error: defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/anthologiser/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("anthologiser.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a split run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TargetDir, c.Paths.StagingDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
		}
	}
	return nil
}

// SetTargetDir replaces the target folder and recomputes the top-level folder
// from the path as the user typed it: for a relative path such as
// "poems/harpur" the top level is "poems", otherwise it is the target itself.
func (c *Config) SetTargetDir(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("target folder must not be empty")
	}
	top := topLevelOf(raw)
	target, err := expandPath(raw)
	if err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}
	if top, err = expandPath(top); err != nil {
		return fmt.Errorf("paths.top_level_dir: %w", err)
	}
	c.Paths.TargetDir = target
	c.Paths.TopLevelDir = top
	return nil
}

func topLevelOf(raw string) string {
	if filepath.IsAbs(raw) || strings.HasPrefix(raw, "~") {
		return raw
	}
	parts := strings.Split(filepath.ToSlash(filepath.Clean(raw)), "/")
	if len(parts) > 0 && parts[0] != "" && parts[0] != "." && parts[0] != ".." {
		return parts[0]
	}
	return raw
}

// MiscDir returns the directory that holds anthology catalogs.
func (c *Config) MiscDir() string {
	return filepath.Join(c.Paths.TopLevelDir, c.Layout.MiscFolder)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
