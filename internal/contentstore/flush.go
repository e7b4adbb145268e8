package contentstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"anthologiser/internal/fileutil"
	"anthologiser/internal/logging"
)

// ConfigName is the per-identity side-car holding the display title.
const ConfigName = "config.conf"

type identityConfig struct {
	Title string `json:"title"`
}

// FlushedFile is one file written by Flush.
type FlushedFile struct {
	Path   string
	Format Format
	Digest string
	Size   int
}

// FlushResult describes the directory written for one identity.
type FlushResult struct {
	Dir   string
	Files []FlushedFile
}

// Flush writes key into parent/key: the title side-car plus one directory
// per format. Existing files are never overwritten; meeting one fails with
// ErrDestinationExists.
func (s *Store) Flush(key, parent string) (FlushResult, error) {
	e, ok := s.entries[key]
	if !ok {
		return FlushResult{}, fmt.Errorf("unknown identity %q", key)
	}
	dir := filepath.Join(parent, key)
	result := FlushResult{Dir: dir}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("create identity directory: %w", err)
	}

	conf, err := json.MarshalIndent(identityConfig{Title: e.title}, "", "  ")
	if err != nil {
		return result, fmt.Errorf("encode %s: %w", ConfigName, err)
	}
	if err := writeNew(filepath.Join(dir, ConfigName), conf); err != nil {
		return result, err
	}

	for _, b := range e.blobs {
		dst := filepath.Join(dir, b.Format.String(), filepath.FromSlash(b.RelPath))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return result, fmt.Errorf("create format directory: %w", err)
		}
		data, err := s.Contents(*b)
		if err != nil {
			return result, err
		}
		if err := writeNew(dst, data); err != nil {
			return result, err
		}
		result.Files = append(result.Files, FlushedFile{Path: dst, Format: b.Format, Digest: b.Digest, Size: b.Size})
	}

	s.logger.Debug("flushed identity",
		logging.String(logging.FieldIdentity, key),
		logging.String("dir", dir),
		logging.Int("files", len(result.Files)),
	)
	return result, nil
}

func writeNew(path string, data []byte) error {
	if err := fileutil.WriteFileExclusive(path, data, 0o644); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, path)
		}
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
