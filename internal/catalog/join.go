package catalog

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"anthologiser/internal/fileutil"
	"anthologiser/internal/logging"
)

// IndexName is the merged catalog written by Join.
const IndexName = "index"

const (
	indexOpen  = "<div id=\"listContainer\">\n<ul id=\"expList\">"
	indexClose = "</ul></div>"
)

// JoinResult describes a completed join.
type JoinResult struct {
	Index  string
	Merged []string
}

// Join merges every HTML fragment in dir into dir/index inside the list
// container and deletes the fragments. Entries of an existing index are
// kept ahead of the new ones, except those for a catalog being merged
// again, which its fragment replaces.
func Join(dir string, logger *slog.Logger) (JoinResult, error) {
	logger = logging.NewComponentLogger(logger, "catalog")
	result := JoinResult{Index: filepath.Join(dir, IndexName)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return result, fmt.Errorf("read catalog directory: %w", err)
	}
	var fragments []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fragmentSuffix) {
			continue
		}
		fragments = append(fragments, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(fragments)

	existing, _, err := readIndexChunks(result.Index)
	if err != nil {
		return result, err
	}
	if len(fragments) == 0 {
		logger.Info("no catalog fragments to join", logging.String("dir", dir))
		return result, nil
	}

	var incoming [][]byte
	names := make(map[string]struct{}, len(fragments))
	for _, path := range fragments {
		data, err := os.ReadFile(path)
		if err != nil {
			return result, fmt.Errorf("read fragment: %w", err)
		}
		names[strings.TrimSuffix(filepath.Base(path), fragmentSuffix)] = struct{}{}
		incoming = append(incoming, data)
	}

	var kept [][]byte
	for _, chunk := range existing {
		if _, replaced := names[chunkName(chunk)]; replaced {
			continue
		}
		kept = append(kept, chunk)
	}
	if err := writeIndex(result.Index, append(kept, incoming...)); err != nil {
		return result, err
	}

	for _, path := range fragments {
		if err := os.Remove(path); err != nil {
			return result, fmt.Errorf("remove fragment: %w", err)
		}
		result.Merged = append(result.Merged, path)
	}
	logger.Info("joined catalogs",
		logging.String("index", result.Index),
		logging.Int("fragments", len(result.Merged)),
	)
	return result, nil
}

func unwrapIndex(data []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte(indexOpen)) || !bytes.HasSuffix(trimmed, []byte(indexClose)) {
		return nil, false
	}
	return trimmed[len(indexOpen) : len(trimmed)-len(indexClose)], true
}

// readIndexChunks returns the list items of the index at path, one per
// catalog. A missing index has none.
func readIndexChunks(path string) ([][]byte, bool, error) {
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, false, fmt.Errorf("read index: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	inner, found := unwrapIndex(data)
	if !found {
		return nil, false, fmt.Errorf("%s is not a catalog index", path)
	}
	var chunks [][]byte
	for _, chunk := range bytes.SplitAfter(inner, []byte("</li>")) {
		chunk = bytes.TrimSpace(chunk)
		if len(chunk) == 0 {
			continue
		}
		line := make([]byte, 0, len(chunk)+1)
		chunks = append(chunks, append(append(line, chunk...), '\n'))
	}
	return chunks, true, nil
}

func writeIndex(path string, chunks [][]byte) error {
	var out bytes.Buffer
	out.WriteString(indexOpen)
	for _, chunk := range chunks {
		out.Write(chunk)
	}
	out.WriteString(indexClose)
	if err := fileutil.WriteFileAtomic(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// chunkName identifies the catalog held in an index item by its id, or by
// its title for items written without one.
func chunkName(chunk []byte) string {
	c, err := ParseFragment("", bytes.NewReader(chunk))
	if err != nil {
		return ""
	}
	if c.Name() != "" {
		return c.Name()
	}
	return c.Title()
}

// ReadIndex parses every fragment held in an index written by Join.
func ReadIndex(path string) ([]*Catalog, error) {
	chunks, found, err := readIndexChunks(path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("read index: %s does not exist", path)
	}
	out := make([]*Catalog, 0, len(chunks))
	for _, chunk := range chunks {
		c, err := ParseFragment("", bytes.NewReader(chunk))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
