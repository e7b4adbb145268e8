// Package versions keeps the registry of source documents processed into a
// target folder, each with the short description found while splitting it.
package versions

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"anthologiser/internal/fileutil"
	"anthologiser/internal/logging"
)

// FileName is the registry file written at the root of a target folder.
const FileName = "versions.conf"

// Entry pairs a document short name with its description.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type document struct {
	Versions []Entry `json:"versions"`
}

// Registry is a flat key to description map. It is not safe for concurrent use.
type Registry struct {
	path    string
	logger  *slog.Logger
	entries map[string]string
}

// New returns an empty registry stored in dir.
func New(dir string, logger *slog.Logger) *Registry {
	return &Registry{
		path:    filepath.Join(dir, FileName),
		logger:  logging.NewComponentLogger(logger, "versions"),
		entries: make(map[string]string),
	}
}

// Load returns the registry stored in dir. A missing file yields an empty
// registry.
func Load(dir string, logger *slog.Logger) (*Registry, error) {
	r := New(dir, logger)
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// Add records a description for key, replacing any earlier one.
func (r *Registry) Add(key, description string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("version key cannot be empty")
	}
	r.entries[key] = description
	r.logger.Debug("registered version", logging.String("key", key))
	return nil
}

// Contains reports whether key is registered.
func (r *Registry) Contains(key string) bool {
	_, ok := r.entries[key]
	return ok
}

// Get returns the description for key.
func (r *Registry) Get(key string) (string, bool) {
	value, ok := r.entries[key]
	return value, ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// List returns all entries sorted by key.
func (r *Registry) List() []Entry {
	entries := make([]Entry, 0, len(r.entries))
	for key, value := range r.entries {
		entries = append(entries, Entry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Save rewrites the registry file.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(document{Versions: r.List()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode versions: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	r.logger.Debug("saved versions registry", logging.String("path", r.path), logging.Int("count", len(r.entries)))
	return nil
}

func (r *Registry) load() error {
	data, ok, err := fileutil.ReadFileIfExists(r.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.path, err)
	}
	if !ok || len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", r.path, err)
	}
	for _, entry := range doc.Versions {
		if entry.Key == "" {
			continue
		}
		r.entries[entry.Key] = entry.Value
	}
	r.logger.Debug("loaded versions registry", logging.String("path", r.path), logging.Int("count", len(r.entries)))
	return nil
}
