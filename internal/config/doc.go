// Package config loads, normalizes, and validates Anthologiser configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// split workflow and the CLI need: the target folder, staging area, link base,
// bucket allocation constants, splitting markers, catalog encoding, and log
// output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical formats, and clear validation errors.
package config
