package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"anthologiser/internal/fileutil"
)

const (
	mvdFolder     = "MVD"
	cortexFile    = "cortex.mvd"
	corcodeFolder = "corcode"
	markupSuffix  = "-markup.json"

	rangeTitle       = "title"
	rangeDescription = "description"
	rangeEntry       = "entry"
	annotationLink   = "link"
)

type cortex struct {
	Format string `json:"format"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type annotation struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type textRange struct {
	Name        string       `json:"name"`
	Offset      int          `json:"offset"`
	Len         int          `json:"len"`
	Annotations []annotation `json:"annotations,omitempty"`
}

type corcode struct {
	Ranges []textRange `json:"ranges"`
}

// MVDStore keeps each catalog as a plain-text body, one line per item,
// with a range file naming each line and carrying entry links:
//
//	<Dir>/<Marker><name>/MVD/cortex.mvd
//	<Dir>/<Marker><name>/MVD/corcode/<name>-markup.json
type MVDStore struct {
	Dir    string
	Marker string
}

func (s *MVDStore) root(name string) string {
	return filepath.Join(s.Dir, s.Marker+name)
}

func (s *MVDStore) cortexPath(name string) string {
	return filepath.Join(s.root(name), mvdFolder, cortexFile)
}

func (s *MVDStore) markupPath(name string) string {
	return filepath.Join(s.root(name), mvdFolder, corcodeFolder, name+markupSuffix)
}

// Read implements Store. Both files must be present for a catalog to exist.
func (s *MVDStore) Read(name string) (*Catalog, bool, error) {
	textData, ok, err := fileutil.ReadFileIfExists(s.cortexPath(name))
	if err != nil || !ok {
		return nil, false, err
	}
	markupData, ok, err := fileutil.ReadFileIfExists(s.markupPath(name))
	if err != nil || !ok {
		return nil, false, err
	}

	var text cortex
	if err := json.Unmarshal(textData, &text); err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", cortexFile, err)
	}
	var markup corcode
	if err := json.Unmarshal(markupData, &markup); err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", name+markupSuffix, err)
	}

	type span struct{ offset, length int }
	ranges := make(map[span]textRange, len(markup.Ranges))
	for _, r := range markup.Ranges {
		ranges[span{r.Offset, r.Len}] = r
	}

	c := New(name)
	c.SetTitle(text.Title)
	offset := 0
	for _, line := range bodyLines(text.Body) {
		length := len([]rune(line)) + 1
		r, ok := ranges[span{offset, length}]
		offset += length
		if !ok {
			continue
		}
		switch r.Name {
		case rangeTitle:
			c.SetTitle(line)
		case rangeDescription:
			c.SetDescription(line)
		case rangeEntry:
			for _, a := range r.Annotations {
				if a.Name == annotationLink {
					c.AddItem(line, a.Value)
					break
				}
			}
		}
	}
	return c, true, nil
}

func bodyLines(body string) []string {
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

// Remove implements Store.
func (s *MVDStore) Remove(name string) error {
	return os.RemoveAll(s.root(name))
}

// Save implements Store. Offsets and lengths count characters and include
// each line's terminating newline.
func (s *MVDStore) Save(c *Catalog) error {
	var body strings.Builder
	var markup corcode
	offset := 0
	addLine := func(kind, line string, annotations []annotation) {
		length := len([]rune(line)) + 1
		body.WriteString(line)
		body.WriteByte('\n')
		markup.Ranges = append(markup.Ranges, textRange{Name: kind, Offset: offset, Len: length, Annotations: annotations})
		offset += length
	}

	addLine(rangeTitle, c.Title(), nil)
	addLine(rangeDescription, c.Description(), nil)
	for _, entry := range c.Entries() {
		link := strings.ReplaceAll(entry.Link, " ", "%20")
		addLine(rangeEntry, entry.Name, []annotation{{Name: annotationLink, Value: link}})
	}

	textData, err := json.MarshalIndent(cortex{Format: "text/plain", Title: c.Title(), Body: body.String()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", cortexFile, err)
	}
	markupData, err := json.MarshalIndent(markup, "", "  ")
	if err != nil {
		return fmt.Errorf("encode markup: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.cortexPath(c.Name()), textData, 0o644); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(s.markupPath(c.Name()), markupData, 0o644)
}
