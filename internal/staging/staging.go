// Package staging manages the scratch area a split run buffers content in
// before it is placed under the target folder.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const runPrefix = "run-"

// Run is one scratch directory owned by a single invocation.
type Run struct {
	ID   string
	Path string
}

// NewRun creates a fresh run directory below stagingDir.
func NewRun(stagingDir string) (*Run, error) {
	stagingDir = strings.TrimSpace(stagingDir)
	if stagingDir == "" {
		return nil, fmt.Errorf("staging directory not configured")
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	id := uuid.NewString()
	path := filepath.Join(stagingDir, runPrefix+id)
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	return &Run{ID: id, Path: path}, nil
}

// Remove deletes the run directory and everything in it.
func (r *Run) Remove() error {
	if r == nil || r.Path == "" {
		return nil
	}
	return os.RemoveAll(r.Path)
}

// IsRunDir reports whether name looks like a directory created by NewRun.
func IsRunDir(name string) bool {
	rest, ok := strings.CutPrefix(name, runPrefix)
	if !ok {
		return false
	}
	return uuid.Validate(rest) == nil
}
