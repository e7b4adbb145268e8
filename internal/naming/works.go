package naming

import (
	"fmt"
	"strings"

	"anthologiser/internal/fileutil"
)

// Works maps work identifiers to display titles.
type Works map[string]string

// ParseWorks reads tab-separated "id<TAB>title" lines. Lines whose first two
// fields are not both present and non-empty are ignored.
func ParseWorks(data []byte) Works {
	works := make(Works)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		parts := strings.Split(line, "\t")
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		works[parts[0]] = parts[1]
	}
	return works
}

// LoadWorks reads the work-id table at path. An empty path or a missing file
// yields an empty table.
func LoadWorks(path string) (Works, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Works{}, nil
	}
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil {
		return nil, fmt.Errorf("read works table %s: %w", path, err)
	}
	if !ok {
		return Works{}, nil
	}
	return ParseWorks(data), nil
}

// Title returns the display title recorded for a work identifier.
func (w Works) Title(work string) (string, bool) {
	title, ok := w[work]
	return title, ok
}
