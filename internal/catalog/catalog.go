// Package catalog maintains the anthology catalog kept for every source
// document: an ordered list of entries with links plus a title and a
// description.
//
// Two stores persist catalogs. The structured store writes a plain-text body
// with a separate range file (cortex and corcode); the HTML store writes a
// list fragment that Join can merge into a single index. Both are read back
// into the same in-memory Catalog.
package catalog

import "strings"

// Entry is one catalog item.
type Entry struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Catalog is an order-preserving name to link map with a title and a
// description. Title and description can be set once; later calls are
// ignored.
type Catalog struct {
	name        string
	title       string
	description string
	order       []string
	links       map[string]string
}

// New returns an empty catalog for the source document called name.
func New(name string) *Catalog {
	return &Catalog{name: name, links: make(map[string]string)}
}

// Name returns the source document short name.
func (c *Catalog) Name() string { return c.name }

// Title returns the catalog title.
func (c *Catalog) Title() string { return c.title }

// Description returns the catalog description.
func (c *Catalog) Description() string { return c.description }

// TitleSet reports whether a title has been recorded.
func (c *Catalog) TitleSet() bool { return c.title != "" }

// DescriptionSet reports whether a description has been recorded.
func (c *Catalog) DescriptionSet() bool { return c.description != "" }

// SetTitle records title unless one is already set.
func (c *Catalog) SetTitle(title string) {
	if c.TitleSet() {
		return
	}
	c.title = strings.TrimSpace(title)
}

// SetDescription records description unless one is already set.
func (c *Catalog) SetDescription(description string) {
	if c.DescriptionSet() {
		return
	}
	c.description = strings.TrimSpace(description)
}

// AddItem maps name to link. A name keeps the position of its first
// insertion; adding it again only updates the link.
func (c *Catalog) AddItem(name, link string) {
	if _, ok := c.links[name]; !ok {
		c.order = append(c.order, name)
	}
	c.links[name] = link
}

// Link returns the link recorded for name.
func (c *Catalog) Link(name string) (string, bool) {
	link, ok := c.links[name]
	return link, ok
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.order) }

// Entries returns the entries in insertion order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.order))
	for i, name := range c.order {
		out[i] = Entry{Name: name, Link: c.links[name]}
	}
	return out
}
