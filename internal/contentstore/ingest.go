package contentstore

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"anthologiser/internal/bucket"
	"anthologiser/internal/logging"
)

// IngestResult counts what Ingest loaded.
type IngestResult struct {
	Identities int
	Blobs      int
}

// Ingest loads the output of earlier runs found in root and removes it, so
// the next write-out lays out old and new identities together. Identity
// directories are taken from root itself and from bucket directories; other
// directories and plain files are left alone.
func (s *Store) Ingest(root string) (IngestResult, error) {
	var result IngestResult
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, fmt.Errorf("read target folder: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		dir := filepath.Join(root, name)
		switch {
		case strings.HasPrefix(name, s.marker):
			blobs, err := s.IngestDir(dir)
			if err != nil {
				return result, err
			}
			result.Identities++
			result.Blobs += blobs
		case strings.HasPrefix(name, bucket.NameDelimiter):
			nested, err := s.Ingest(dir)
			if err != nil {
				return result, err
			}
			result.Identities += nested.Identities
			result.Blobs += nested.Blobs
		default:
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return result, fmt.Errorf("remove %s: %w", dir, err)
		}
	}
	if result.Identities > 0 {
		s.logger.Debug("ingested previous output",
			logging.String("dir", root),
			logging.Int("identities", result.Identities),
			logging.Int("blobs", result.Blobs),
		)
	}
	return result, nil
}

// IngestDir loads one identity directory written by Flush without removing
// it. Every subdirectory must be named after a format.
func (s *Store) IngestDir(dir string) (int, error) {
	key := filepath.Base(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read identity directory: %w", err)
	}

	title := ""
	var formats []Format
	var formatDirs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			format, ok := ParseFormat(name)
			if !ok {
				return 0, fmt.Errorf("%w: folder %q in %s", ErrUnknownFormat, name, dir)
			}
			formats = append(formats, format)
			formatDirs = append(formatDirs, filepath.Join(dir, name))
			continue
		}
		if title == "" && strings.HasSuffix(name, ".conf") {
			title, err = readTitle(filepath.Join(dir, name))
			if err != nil {
				return 0, err
			}
		}
	}

	if _, ok := s.entries[key]; !ok {
		if title == "" {
			title = strings.TrimPrefix(key, s.marker)
		}
		s.entries[key] = &entry{title: title}
	}

	count := 0
	for i, formatDir := range formatDirs {
		format := formats[i]
		err := filepath.WalkDir(formatDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(formatDir, p)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			if _, err := s.put(key, title, format, filepath.ToSlash(rel), data); err != nil {
				return err
			}
			count++
			return nil
		})
		if err != nil {
			return count, fmt.Errorf("ingest %s: %w", formatDir, err)
		}
	}
	return count, nil
}

func readTitle(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	var conf identityConfig
	if err := json.Unmarshal(data, &conf); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	return conf.Title, nil
}
