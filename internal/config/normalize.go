package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLinks()
	c.normalizeLayout()
	c.normalizeSplit()
	c.normalizeCatalog()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TargetDir) == "" {
		c.Paths.TargetDir = defaultTargetDir
	}
	explicitTop := strings.TrimSpace(c.Paths.TopLevelDir)
	if err := c.SetTargetDir(c.Paths.TargetDir); err != nil {
		return err
	}
	if explicitTop != "" {
		if c.Paths.TopLevelDir, err = expandPath(explicitTop); err != nil {
			return fmt.Errorf("paths.top_level_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.AliasesFile, err = expandPath(strings.TrimSpace(c.Paths.AliasesFile)); err != nil {
		return fmt.Errorf("paths.aliases_file: %w", err)
	}
	if c.Paths.WorksFile, err = expandPath(strings.TrimSpace(c.Paths.WorksFile)); err != nil {
		return fmt.Errorf("paths.works_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeLinks() {
	c.Links.Base = NormalizeLinkBase(c.Links.Base)
	c.Links.ArchiveBaseURL = strings.TrimSpace(c.Links.ArchiveBaseURL)
	if c.Links.ArchiveBaseURL == "" {
		c.Links.ArchiveBaseURL = defaultArchiveBaseURL
	}
}

// NormalizeLinkBase trims the link base and guarantees a trailing slash.
func NormalizeLinkBase(base string) string {
	base = strings.TrimSpace(base)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

func (c *Config) normalizeLayout() {
	c.Layout.MiscFolder = strings.TrimSpace(c.Layout.MiscFolder)
	if c.Layout.MiscFolder == "" {
		c.Layout.MiscFolder = defaultMiscFolder
	}
	if c.Layout.IdentityMarker == "" {
		c.Layout.IdentityMarker = defaultIdentityMarker
	}
	if c.Layout.BucketFactor == 0 {
		c.Layout.BucketFactor = defaultBucketFactor
	}
	if c.Layout.MinBuckets == 0 {
		c.Layout.MinBuckets = defaultMinBuckets
	}
	if c.Layout.MaxPrefixLen == 0 {
		c.Layout.MaxPrefixLen = defaultMaxPrefixLen
	}
}

func (c *Config) normalizeSplit() {
	c.Split.Marker = strings.TrimSpace(c.Split.Marker)
	c.Split.VersionRole = strings.ToLower(strings.TrimSpace(c.Split.VersionRole))
	if c.Split.VersionRole == "" {
		c.Split.VersionRole = defaultVersionRole
	}
	c.Split.VersionPrefix = strings.TrimSpace(c.Split.VersionPrefix)
	c.Split.SourceRole = strings.TrimSpace(c.Split.SourceRole)
	if c.Split.SourceRole == "" {
		c.Split.SourceRole = defaultSourceRole
	}
}

func (c *Config) normalizeCatalog() {
	c.Catalog.Format = strings.ToLower(strings.TrimSpace(c.Catalog.Format))
	if c.Catalog.Format == "" {
		c.Catalog.Format = defaultCatalogFormat
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
