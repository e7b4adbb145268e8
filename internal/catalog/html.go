package catalog

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"anthologiser/internal/fileutil"
)

const fragmentSuffix = ".html"

// HTMLStore keeps each catalog as a list-item fragment in <Dir>/<name>.html:
// an h2 title, an h3 description and one p>a per entry. Once Join has merged
// a fragment, the index item for name stands in for it.
type HTMLStore struct {
	Dir string
}

func (s *HTMLStore) path(name string) string {
	return filepath.Join(s.Dir, name+fragmentSuffix)
}

func (s *HTMLStore) indexPath() string {
	return filepath.Join(s.Dir, IndexName)
}

// Read implements Store. A fragment on disk wins over the index.
func (s *HTMLStore) Read(name string) (*Catalog, bool, error) {
	data, ok, err := fileutil.ReadFileIfExists(s.path(name))
	if err != nil {
		return nil, false, err
	}
	if !ok {
		data, ok, err = s.indexed(name)
		if err != nil || !ok {
			return nil, false, err
		}
	}
	c, err := ParseFragment(name, bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (s *HTMLStore) indexed(name string) ([]byte, bool, error) {
	chunks, _, err := readIndexChunks(s.indexPath())
	if err != nil {
		return nil, false, err
	}
	for _, chunk := range chunks {
		if chunkName(chunk) == name {
			return chunk, true, nil
		}
	}
	return nil, false, nil
}

// Remove implements Store. It deletes the fragment and drops the index
// items for name.
func (s *HTMLStore) Remove(name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	chunks, found, err := readIndexChunks(s.indexPath())
	if err != nil || !found {
		return err
	}
	kept := chunks[:0]
	for _, chunk := range chunks {
		if chunkName(chunk) != name {
			kept = append(kept, chunk)
		}
	}
	if len(kept) == len(chunks) {
		return nil
	}
	return writeIndex(s.indexPath(), kept)
}

// Save implements Store.
func (s *HTMLStore) Save(c *Catalog) error {
	return fileutil.WriteFileAtomic(s.path(c.Name()), RenderFragment(c), 0o644)
}

// RenderFragment renders c as a list item whose id is the catalog name.
func RenderFragment(c *Catalog) []byte {
	var buf bytes.Buffer
	buf.WriteString("<li id=\"")
	buf.WriteString(html.EscapeString(c.Name()))
	buf.WriteString("\"><h2>")
	buf.WriteString(html.EscapeString(c.Title()))
	buf.WriteString("</h2>\n<h3>")
	buf.WriteString(html.EscapeString(c.Description()))
	buf.WriteString("</h3>\n")
	for _, entry := range c.Entries() {
		fmt.Fprintf(&buf, "<p><a href=\"%s\">%s</a></p>\n", html.EscapeString(entry.Link), html.EscapeString(entry.Name))
	}
	buf.WriteString("</li>\n")
	return buf.Bytes()
}

// ParseFragment reads a catalog back from its HTML rendering by scanning the
// tag sequence: the first h2 is the title, the first h3 the description and
// every anchor inside a paragraph an entry. An empty name is taken from the
// list item id.
func ParseFragment(name string, r io.Reader) (*Catalog, error) {
	c := New(name)
	z := xhtml.NewTokenizer(r)

	var (
		capture *strings.Builder
		inP     bool
		href    string
		hasHref bool
		current atom.Atom
	)
	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			if z.Err() == io.EOF {
				return c, nil
			}
			return nil, fmt.Errorf("parse catalog fragment: %w", z.Err())
		case xhtml.StartTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.Li:
				if c.name != "" {
					continue
				}
				for _, attr := range tok.Attr {
					if attr.Key == "id" {
						c.name = attr.Val
					}
				}
			case atom.H2, atom.H3:
				current = tok.DataAtom
				capture = &strings.Builder{}
			case atom.P:
				inP = true
			case atom.A:
				if !inP {
					continue
				}
				current = atom.A
				capture = &strings.Builder{}
				href, hasHref = "", false
				for _, attr := range tok.Attr {
					if attr.Key == "href" {
						href, hasHref = attr.Val, true
					}
				}
			}
		case xhtml.TextToken:
			if capture != nil {
				capture.Write(z.Text())
			}
		case xhtml.EndTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.P {
				inP = false
				continue
			}
			if capture == nil || tok.DataAtom != current {
				continue
			}
			text := strings.TrimSpace(capture.String())
			switch current {
			case atom.H2:
				c.SetTitle(text)
			case atom.H3:
				c.SetDescription(text)
			case atom.A:
				if hasHref {
					c.AddItem(text, href)
				}
			}
			capture, current = nil, 0
		}
	}
}
