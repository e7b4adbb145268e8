package splitter

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"anthologiser/internal/catalog"
	"anthologiser/internal/contentstore"
	"anthologiser/internal/logging"
	"anthologiser/internal/markup"
	"anthologiser/internal/naming"
	"anthologiser/internal/versions"
)

type put struct {
	key   string
	title string
	sub   contentstore.Submission
}

type recordingStore struct {
	puts []put
}

func (r *recordingStore) Put(key, title string, sub contentstore.Submission) (bool, error) {
	r.puts = append(r.puts, put{key: key, title: title, sub: sub})
	return false, nil
}

const foxDocument = `<?xml version="1.0"?>
<TEI>
<teiHeader><title>ignored</title></teiHeader>
<text><body>
<p>front matter</p>
<!-- *** Fox Trot -->
<div type="hversion" xml:id="H1a"><div type="source">MS 123, f.2, recto</div><lg><l>one</l></lg></div>
<!-- *** Fox Hunt -->
<div type="HVersion" xml:id="H1b"><div type="source">MS 456, f.9, verso</div><lg><l>two</l></lg></div>
</body></text>
</TEI>`

func parse(t *testing.T, src string) *markup.Node {
	t.Helper()
	doc, err := markup.ParseBytes([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Root
}

func newSplitter(t *testing.T, opts Options, store Store, cat Catalog, reg Registry) *Splitter {
	t.Helper()
	opts.Logger = logging.NewNop()
	s, err := New(opts, store, cat, reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSplitMergesVersionsOfOneWork(t *testing.T) {
	store := &recordingStore{}
	cat := catalog.New("harpur")
	reg := versions.New(t.TempDir(), logging.NewNop())
	s := newSplitter(t, DefaultOptions(), store, cat, reg)

	result, err := s.Split(context.Background(), "harpur.xml", parse(t, foxDocument))
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if result.Units != 2 || len(result.Keys) != 1 || result.Keys[0] != "%H1" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(store.puts) != 2 {
		t.Fatalf("expected 2 puts, got %d", len(store.puts))
	}
	first, second := store.puts[0], store.puts[1]
	if first.key != "%H1" || second.key != "%H1" {
		t.Fatalf("keys = %q, %q", first.key, second.key)
	}
	if first.title != "Fox Trot" || second.title != "Fox Hunt" {
		t.Fatalf("titles = %q, %q", first.title, second.title)
	}
	if first.sub.FileName() != "harpur#H1a.xml" || second.sub.FileName() != "harpur#H1b.xml" {
		t.Fatalf("file names = %q, %q", first.sub.FileName(), second.sub.FileName())
	}

	body := string(first.sub.Data)
	if !strings.HasPrefix(body, "<TEI><body><text>") || !strings.HasSuffix(body, "</text></body></TEI>") {
		t.Fatalf("unit not wrapped: %s", body)
	}
	for _, want := range []string{`xml:id="H1a"`, "<l>one</l>"} {
		if !strings.Contains(body, want) {
			t.Fatalf("first unit missing %q: %s", want, body)
		}
	}
	for _, unwanted := range []string{"H1b", "front matter", "***", "teiHeader"} {
		if strings.Contains(body, unwanted) {
			t.Fatalf("first unit contains %q: %s", unwanted, body)
		}
	}

	if cat.Description() != "MS 123, f.2" || cat.Title() != "harpur" {
		t.Fatalf("catalog = %q / %q", cat.Title(), cat.Description())
	}
	if desc, ok := reg.Get("harpur"); !ok || desc != "MS 123, f.2" || reg.Len() != 1 {
		t.Fatalf("registry = %q, %v, len %d", desc, ok, reg.Len())
	}
	if result.Description != "MS 123, f.2" {
		t.Fatalf("result description = %q", result.Description)
	}
}

func TestSplitKeepsExistingRegistryEntry(t *testing.T) {
	reg := versions.New(t.TempDir(), logging.NewNop())
	if err := reg.Add("harpur", "earlier"); err != nil {
		t.Fatal(err)
	}
	s := newSplitter(t, DefaultOptions(), &recordingStore{}, catalog.New("harpur"), reg)
	if _, err := s.Split(context.Background(), "harpur.xml", parse(t, foxDocument)); err != nil {
		t.Fatal(err)
	}
	if desc, _ := reg.Get("harpur"); desc != "earlier" {
		t.Fatalf("registry overwritten: %q", desc)
	}
}

func TestSplitUsesLabelWithoutVersion(t *testing.T) {
	const src = `<TEI><text><body>
<!-- ***   wattle   -->
<lg><l>gold</l></lg>
<!-- *** Notes/Drafts -->
<p>n</p>
</body></text></TEI>`
	store := &recordingStore{}
	s := newSplitter(t, DefaultOptions(), store, nil, nil)
	result, err := s.Split(context.Background(), "misc.xml", parse(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if len(store.puts) != 2 {
		t.Fatalf("expected 2 puts, got %d", len(store.puts))
	}
	if store.puts[0].key != "%wattle" || store.puts[0].title != "Wattle" {
		t.Fatalf("first put = %q %q", store.puts[0].key, store.puts[0].title)
	}
	if store.puts[1].key != "%Notes_Drafts" {
		t.Fatalf("path separator kept: %q", store.puts[1].key)
	}
	if store.puts[0].sub.Version != "" || store.puts[0].sub.FileName() != "misc.xml" {
		t.Fatalf("unexpected file name %q", store.puts[0].sub.FileName())
	}
	if result.Description != "" {
		t.Fatalf("unexpected description %q", result.Description)
	}
}

func TestSplitAppliesWorksAndAliases(t *testing.T) {
	const src = `<TEI><text><body>
<!-- *** Daybreak -->
<p>a</p>
<!-- *** Creek [draft] -->
<div type="hversion" xml:id="H2c"><p>b</p></div>
</body></text></TEI>`
	aliases, err := naming.NewAliases(naming.AliasFile{
		Merges:   []naming.Merge{{Name: "Dawn", Versions: []string{"Daybreak"}}},
		Removals: []string{"[draft]"},
	})
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Aliases = aliases
	opts.Works = naming.Works{"H2": "The Creek at Evening"}
	store := &recordingStore{}
	s := newSplitter(t, opts, store, nil, nil)
	if _, err := s.Split(context.Background(), "harpur.xml", parse(t, src)); err != nil {
		t.Fatal(err)
	}
	if len(store.puts) != 2 {
		t.Fatalf("expected 2 puts, got %d", len(store.puts))
	}
	if store.puts[0].key != "%Dawn" {
		t.Fatalf("alias not applied: %q", store.puts[0].key)
	}
	if store.puts[1].key != "%H2" || store.puts[1].title != "The Creek at Evening" {
		t.Fatalf("works title not applied: %q %q", store.puts[1].key, store.puts[1].title)
	}
}

func TestSplitSkipsUnitsWithoutIdentity(t *testing.T) {
	const src = `<TEI><body><!-- *** --><p>x</p><!-- *** Real --><p>y</p></body></TEI>`
	store := &recordingStore{}
	s := newSplitter(t, DefaultOptions(), store, nil, nil)
	result, err := s.Split(context.Background(), "a.xml", parse(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 || result.Units != 1 || store.puts[0].key != "%Real" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSplitSkipsUnitsWithoutContent(t *testing.T) {
	const src = `<TEI><body>
<!-- *** Empty --><!-- *** Blank -->
  <!-- editorial remark -->
<!-- *** Real --><p>y</p>
<!-- *** Trailing -->
</body></TEI>`
	store := &recordingStore{}
	s := newSplitter(t, DefaultOptions(), store, nil, nil)
	result, err := s.Split(context.Background(), "a.xml", parse(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if result.Units != 1 || result.Skipped != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(store.puts) != 1 || store.puts[0].key != "%Real" {
		t.Fatalf("unexpected puts %+v", store.puts)
	}
}

func TestSplitContinuesAfterWrapper(t *testing.T) {
	const src = `<TEI><text><body><!-- *** A --><p>a</p></body></text><div><p>after</p></div></TEI>`
	store := &recordingStore{}
	s := newSplitter(t, DefaultOptions(), store, nil, nil)
	if _, err := s.Split(context.Background(), "a.xml", parse(t, src)); err != nil {
		t.Fatal(err)
	}
	if len(store.puts) != 1 || !strings.Contains(string(store.puts[0].sub.Data), "after") {
		t.Fatalf("trailing sibling not collected: %+v", store.puts)
	}
}

func TestSplitPropagatesStoreErrors(t *testing.T) {
	store, err := contentstore.New(contentstore.Options{
		ScratchDir: filepath.Join(t.TempDir(), "scratch"),
		Logger:     logging.NewNop(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	s := newSplitter(t, DefaultOptions(), store, nil, nil)
	_, err = s.Split(context.Background(), "harpur.doc", parse(t, foxDocument))
	if !errors.Is(err, contentstore.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSplitHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSplitter(t, DefaultOptions(), &recordingStore{}, nil, nil)
	if _, err := s.Split(ctx, "harpur.xml", parse(t, foxDocument)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRequiresMarker(t *testing.T) {
	opts := DefaultOptions()
	opts.Marker = " "
	if _, err := New(opts, &recordingStore{}, nil, nil); err == nil {
		t.Fatal("expected error for empty marker")
	}
}
