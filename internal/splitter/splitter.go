// Package splitter cuts a source document into units at marker comments.
//
// Each unit starts at a comment whose trimmed text begins with the marker
// sentinel and runs until the next marker or the end of the document. The
// unit's siblings are copied into a TEI/body/text wrapper and handed to the
// content store under the unit's identity. Neutral body and text elements
// met outside a unit are descended into, so their children are treated as
// top-level siblings.
package splitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"anthologiser/internal/contentstore"
	"anthologiser/internal/identity"
	"anthologiser/internal/logging"
	"anthologiser/internal/markup"
	"anthologiser/internal/naming"
	"anthologiser/internal/textutil"
)

// Store receives finished units.
type Store interface {
	Put(key, title string, sub contentstore.Submission) (bool, error)
}

// Catalog receives the description of the source document.
type Catalog interface {
	TitleSet() bool
	DescriptionSet() bool
	SetTitle(title string)
	SetDescription(description string)
}

// Registry receives the source document's description once.
type Registry interface {
	Contains(key string) bool
	Add(key, description string) error
}

// Options configures the markers recognized while splitting.
type Options struct {
	Marker         string
	VersionRole    string
	VersionPrefix  string
	SourceRole     string
	IdentityMarker string
	Aliases        *naming.Aliases
	Works          naming.Works
	Logger         *slog.Logger
}

// DefaultOptions returns the markers used by the Harpur archive.
func DefaultOptions() Options {
	return Options{
		Marker:         "***",
		VersionRole:    "hversion",
		VersionPrefix:  "H",
		SourceRole:     "source",
		IdentityMarker: identity.DefaultMarker,
	}
}

// Result summarizes one split.
type Result struct {
	// Units counts units handed to the store.
	Units int
	// Skipped counts units without content or without an identity.
	Skipped int
	// Keys lists the identities touched, in order of first appearance.
	Keys        []string
	Description string
}

// Splitter splits source documents into a store.
type Splitter struct {
	opts     Options
	store    Store
	catalog  Catalog
	registry Registry
	logger   *slog.Logger
}

// New builds a splitter. The catalog and registry belong to the source
// document being split.
func New(opts Options, store Store, cat Catalog, registry Registry) (*Splitter, error) {
	if store == nil {
		return nil, errors.New("splitter requires a store")
	}
	if strings.TrimSpace(opts.Marker) == "" {
		return nil, errors.New("split marker must not be empty")
	}
	if opts.IdentityMarker == "" {
		opts.IdentityMarker = identity.DefaultMarker
	}
	return &Splitter{
		opts:     opts,
		store:    store,
		catalog:  cat,
		registry: registry,
		logger:   logging.NewComponentLogger(opts.Logger, "splitter"),
	}, nil
}

type unit struct {
	label   string
	version string
	work    string
	content []*markup.Node
}

type frame struct {
	nodes []*markup.Node
	next  int
}

type run struct {
	s       *Splitter
	source  string
	short   string
	result  Result
	seen    map[string]struct{}
	current *unit
}

// Split walks the children of root. source is the file name of the
// document; its base name names the submitted files and the registry entry.
func (s *Splitter) Split(ctx context.Context, source string, root *markup.Node) (Result, error) {
	if root == nil {
		return Result{}, errors.New("document has no root element")
	}
	r := &run{
		s:      s,
		source: source,
		short:  textutil.SimpleName(source),
		seen:   make(map[string]struct{}),
	}

	stack := []frame{{nodes: root.Children}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= len(top.nodes) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.nodes[top.next]
		top.next++

		switch {
		case s.isMarker(child):
			if err := ctx.Err(); err != nil {
				return r.result, err
			}
			if err := r.finish(); err != nil {
				return r.result, err
			}
			r.current = &unit{label: s.labelOf(child)}
		case r.current != nil:
			if err := r.add(child); err != nil {
				return r.result, err
			}
		case child.IsElement("body") || child.IsElement("text"):
			stack = append(stack, frame{nodes: child.Children})
		}
	}
	if err := r.finish(); err != nil {
		return r.result, err
	}

	s.logger.Info("document split",
		logging.String(logging.FieldSource, source),
		logging.Int("units", r.result.Units),
		logging.Int("identities", len(r.result.Keys)),
		logging.Int("skipped", r.result.Skipped),
	)
	return r.result, nil
}

func (s *Splitter) isMarker(n *markup.Node) bool {
	return n.Kind == markup.CommentNode && strings.HasPrefix(strings.TrimSpace(n.Data), s.opts.Marker)
}

func (s *Splitter) labelOf(n *markup.Node) string {
	raw := strings.TrimPrefix(strings.TrimSpace(n.Data), s.opts.Marker)
	raw = textutil.SanitizeSegment(strings.TrimSpace(raw))
	return naming.ResolveLabel(raw, s.opts.Aliases)
}

func (r *run) add(child *markup.Node) error {
	clone := child.Clone()
	if clone.IsElement("div") {
		r.inspect(clone)
		if desc, ok := r.s.description(clone); ok {
			if err := r.describe(desc); err != nil {
				return err
			}
		}
	}
	r.current.content = append(r.current.content, clone)
	return nil
}

func (r *run) inspect(div *markup.Node) {
	role, _ := div.Attr("type")
	id, ok := div.Attr("xml:id")
	if !ok || !strings.EqualFold(role, r.s.opts.VersionRole) || !strings.HasPrefix(id, r.s.opts.VersionPrefix) {
		return
	}
	r.current.version = id
	r.current.work = naming.WorkFromVersion(id)
}

// description looks one level below div for a source element and returns
// its text up to the last comma.
func (s *Splitter) description(div *markup.Node) (string, bool) {
	for _, child := range div.Children {
		if !child.IsElement("div") {
			continue
		}
		if role, ok := child.Attr("type"); ok && role == s.opts.SourceRole {
			desc := textutil.BeforeLast(textutil.CollapseSpace(child.TextContent()), ",")
			return desc, desc != ""
		}
	}
	return "", false
}

func (r *run) describe(desc string) error {
	if r.result.Description == "" {
		r.result.Description = desc
	}
	if cat := r.s.catalog; cat != nil {
		if !cat.DescriptionSet() {
			cat.SetDescription(desc)
		}
		if !cat.TitleSet() {
			cat.SetTitle(r.short)
		}
	}
	if reg := r.s.registry; reg != nil && !reg.Contains(r.short) {
		if err := reg.Add(r.short, desc); err != nil {
			return fmt.Errorf("register version description: %w", err)
		}
	}
	return nil
}

// hasContent reports whether nodes hold an element or non-blank text.
func hasContent(nodes []*markup.Node) bool {
	for _, n := range nodes {
		switch n.Kind {
		case markup.ElementNode:
			return true
		case markup.TextNode:
			if strings.TrimSpace(n.Data) != "" {
				return true
			}
		}
	}
	return false
}

func (r *run) finish() error {
	u := r.current
	if u == nil {
		return nil
	}
	r.current = nil

	if !hasContent(u.content) {
		r.result.Skipped++
		logging.WarnWithContext(r.s.logger, "unit without content skipped", "unit_empty",
			logging.String(logging.FieldSource, r.source),
			logging.String("label", u.label),
			logging.String(logging.FieldErrorHint, "remove the stray marker comment or add the unit's text after it"),
		)
		return nil
	}

	name := u.work
	if name == "" {
		name = u.label
	}
	if name == "" {
		r.result.Skipped++
		logging.WarnWithContext(r.s.logger, "unit without label skipped", "unit_skipped",
			logging.String(logging.FieldSource, r.source),
			logging.String(logging.FieldErrorHint, "give the marker comment a title or add a version grouping"),
		)
		return nil
	}

	title := u.label
	if u.work != "" {
		if override, ok := r.s.opts.Works.Title(u.work); ok {
			title = override
		}
	}
	if title == "" {
		title = name
	}
	key := identity.Key(r.s.opts.IdentityMarker, name)

	text := markup.NewElement("text", nil, u.content...)
	tei := markup.NewElement("TEI", nil, markup.NewElement("body", nil, text))
	_, suffix := textutil.SplitName(r.source)
	sub := contentstore.Submission{
		Name:    r.short,
		Version: u.version,
		Suffix:  suffix,
		Data:    markup.Bytes(tei),
	}
	if _, err := r.s.store.Put(key, naming.DisplayTitle(title), sub); err != nil {
		return fmt.Errorf("store unit %q: %w", name, err)
	}

	r.result.Units++
	if _, ok := r.seen[key]; !ok {
		r.seen[key] = struct{}{}
		r.result.Keys = append(r.result.Keys, key)
	}
	r.s.logger.Debug("unit stored",
		logging.String(logging.FieldIdentity, key),
		logging.String("version", u.version),
		logging.String("label", u.label),
	)
	return nil
}
