package workflow

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"anthologiser/internal/fileutil"
)

// ArchiveConfigName is the side-car at the top-level folder that tells the
// publisher where the archive is served from.
const ArchiveConfigName = "archive.conf"

type archiveConfig struct {
	BaseURL string `json:"base_url"`
}

// WriteArchiveConfig writes dir/archive.conf unless it already exists and
// reports whether it wrote the file.
func WriteArchiveConfig(dir, baseURL string) (bool, error) {
	data, err := json.MarshalIndent(archiveConfig{BaseURL: baseURL}, "", "    ")
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", ArchiveConfigName, err)
	}
	data = append(data, '\n')
	written, err := fileutil.WriteFileIfAbsent(filepath.Join(dir, ArchiveConfigName), data, 0o644)
	if err != nil {
		return false, fmt.Errorf("write %s: %w", ArchiveConfigName, err)
	}
	return written, nil
}
