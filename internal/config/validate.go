package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLayout(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLayout() error {
	if c.Layout.BucketFactor <= 0 {
		return errors.New("layout.bucket_factor must be positive")
	}
	if c.Layout.MinBuckets < 1 {
		return errors.New("layout.min_buckets must be at least 1")
	}
	if c.Layout.MaxPrefixLen < minMaxPrefixLen {
		return fmt.Errorf("layout.max_prefix_len must be at least %d", minMaxPrefixLen)
	}
	return nil
}

func (c *Config) validateSplit() error {
	if c.Split.Marker == "" {
		return errors.New("split.marker must be set")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Format {
	case CatalogFormatMVD, CatalogFormatHTML:
	default:
		return fmt.Errorf("catalog.format: unsupported value %q (want %q or %q)", c.Catalog.Format, CatalogFormatMVD, CatalogFormatHTML)
	}
	if c.Catalog.Join && c.Catalog.Format != CatalogFormatHTML {
		return errors.New("catalog.join requires catalog.format = \"html\"")
	}
	return nil
}

func (c *Config) validateStaging() error {
	if c.Staging.MaxAgeHours < 0 {
		return errors.New("staging.max_age_hours must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
