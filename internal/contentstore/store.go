// Package contentstore buffers the content collected for every identity
// during a run and writes it out once the identity's final directory is
// known.
//
// An identity holds any number of blobs, each addressed by its format and
// its path inside the format directory. A later submission to the same
// address replaces the earlier one. Blobs live in a scratch directory,
// optionally zstd-compressed, until Flush copies them into place.
package contentstore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"anthologiser/internal/identity"
	"anthologiser/internal/logging"
)

// Submission is one unit of content offered to the store.
type Submission struct {
	// Name is the file name without version or suffix.
	Name string
	// Version distinguishes witnesses of one work from the same source.
	Version string
	// Suffix selects the format, including the dot.
	Suffix string
	// RelDir is an optional directory inside the format directory.
	RelDir string
	Data   []byte
}

// FileName returns name[#version]suffix.
func (s Submission) FileName() string {
	if s.Version != "" {
		return s.Name + "#" + s.Version + s.Suffix
	}
	return s.Name + s.Suffix
}

// Blob describes stored content.
type Blob struct {
	Format Format
	// RelPath is slash-separated and relative to the format directory.
	RelPath string
	Digest  string
	Size    int
	scratch string
}

type entry struct {
	title string
	blobs []*Blob
}

// Options configures a Store.
type Options struct {
	ScratchDir string
	Compress   bool
	// Marker prefixes identity directory names; defaults to identity.DefaultMarker.
	Marker string
	Logger *slog.Logger
}

// Store holds blobs per identity. It is not safe for concurrent use.
type Store struct {
	scratchDir string
	marker     string
	logger     *slog.Logger
	entries    map[string]*entry
	seq        int
	encoder    *zstd.Encoder
	decoder    *zstd.Decoder
}

// New creates a store buffering into opts.ScratchDir.
func New(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.ScratchDir) == "" {
		return nil, errors.New("scratch directory not configured")
	}
	if err := os.MkdirAll(opts.ScratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	marker := opts.Marker
	if marker == "" {
		marker = identity.DefaultMarker
	}
	s := &Store{
		scratchDir: opts.ScratchDir,
		marker:     marker,
		logger:     logging.NewComponentLogger(opts.Logger, "contentstore"),
		entries:    make(map[string]*entry),
	}
	if opts.Compress {
		var err error
		s.encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		s.decoder, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
	}
	return s, nil
}

// ScratchDir returns the directory blobs are buffered in.
func (s *Store) ScratchDir() string {
	return s.scratchDir
}

// Close releases codec resources and deletes the scratch directory.
func (s *Store) Close() error {
	if s.encoder != nil {
		_ = s.encoder.Close()
	}
	if s.decoder != nil {
		s.decoder.Close()
	}
	return os.RemoveAll(s.scratchDir)
}

// Put stores sub under key. The identity is created with title on first
// use; later titles are ignored. It reports whether an earlier blob at the
// same address was replaced.
func (s *Store) Put(key, title string, sub Submission) (bool, error) {
	format, err := FormatForSuffix(sub.Suffix)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(sub.Name) == "" {
		return false, errors.New("submission without name")
	}
	relPath := path.Join(filepath.ToSlash(sub.RelDir), sub.FileName())
	return s.put(key, title, format, relPath, sub.Data)
}

func (s *Store) put(key, title string, format Format, relPath string, data []byte) (bool, error) {
	if strings.TrimSpace(key) == "" {
		return false, errors.New("identity key cannot be empty")
	}
	e, ok := s.entries[key]
	if !ok {
		if title == "" {
			title = identity.Label(s.marker, key)
		}
		e = &entry{title: title}
		s.entries[key] = e
	}

	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	idx := -1
	for i, b := range e.blobs {
		if b.Format == format && b.RelPath == relPath {
			idx = i
			break
		}
	}
	if idx >= 0 && e.blobs[idx].Digest == digest {
		s.logger.Debug("identical content resubmitted",
			logging.String(logging.FieldIdentity, key),
			logging.String("path", relPath),
		)
		return true, nil
	}

	scratch, err := s.writeScratch(path.Ext(relPath), data)
	if err != nil {
		return false, err
	}
	blob := &Blob{Format: format, RelPath: relPath, Digest: digest, Size: len(data), scratch: scratch}
	if idx < 0 {
		e.blobs = append(e.blobs, blob)
		return false, nil
	}
	_ = os.Remove(e.blobs[idx].scratch)
	e.blobs[idx] = blob
	s.logger.Debug("replaced content",
		logging.String(logging.FieldIdentity, key),
		logging.String("path", relPath),
	)
	return true, nil
}

func (s *Store) writeScratch(ext string, data []byte) (string, error) {
	s.seq++
	name := fmt.Sprintf("%06d%s", s.seq, ext)
	payload := data
	if s.encoder != nil {
		name += ".zst"
		payload = s.encoder.EncodeAll(data, nil)
	}
	scratch := filepath.Join(s.scratchDir, name)
	if err := os.WriteFile(scratch, payload, 0o600); err != nil {
		return "", fmt.Errorf("buffer content: %w", err)
	}
	return scratch, nil
}

// Contents returns the bytes of a stored blob.
func (s *Store) Contents(b Blob) ([]byte, error) {
	data, err := os.ReadFile(b.scratch)
	if err != nil {
		return nil, fmt.Errorf("read buffered content: %w", err)
	}
	if strings.HasSuffix(b.scratch, ".zst") {
		if s.decoder == nil {
			return nil, errors.New("compressed content without decoder")
		}
		data, err = s.decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress buffered content: %w", err)
		}
	}
	return data, nil
}

// Len returns the number of identities.
func (s *Store) Len() int {
	return len(s.entries)
}

// Has reports whether key is known.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Keys returns all identity keys in byte order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Title returns the display title of key.
func (s *Store) Title(key string) string {
	if e, ok := s.entries[key]; ok {
		return e.title
	}
	return ""
}

// Blobs returns the blobs of key in submission order.
func (s *Store) Blobs(key string) []Blob {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	out := make([]Blob, len(e.blobs))
	for i, b := range e.blobs {
		out[i] = *b
	}
	return out
}
