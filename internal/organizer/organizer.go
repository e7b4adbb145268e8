package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"anthologiser/internal/bucket"
	"anthologiser/internal/contentstore"
	"anthologiser/internal/identity"
	"anthologiser/internal/logging"
)

// Store is the part of the content store the organizer drives.
type Store interface {
	Keys() []string
	Title(key string) string
	Flush(key, parent string) (contentstore.FlushResult, error)
}

// Catalog receives one entry per identity written, named by its display
// title.
type Catalog interface {
	AddItem(name, link string)
}

// Options configures where and how identities are written.
type Options struct {
	TargetDir  string
	LinkBase   string
	SubFolders bool
	Bucket     bucket.Options
}

// Placement records where one identity was written.
type Placement struct {
	Key    string
	Bucket string
	Dir    string
	Link   string
	Files  int
}

// Result summarizes one write-out.
type Result struct {
	Buckets    []bucket.Bucket
	Placements []Placement
}

// Organizer lays identities out below the target folder.
type Organizer struct {
	opts    Options
	store   Store
	catalog Catalog
	logger  *slog.Logger
}

// NewOrganizer constructs an organizer. A nil catalog skips link registration.
func NewOrganizer(opts Options, store Store, cat Catalog, logger *slog.Logger) *Organizer {
	if opts.Bucket.Marker == "" {
		opts.Bucket.Marker = identity.DefaultMarker
	}
	return &Organizer{
		opts:    opts,
		store:   store,
		catalog: cat,
		logger:  logging.NewComponentLogger(logger, "organizer"),
	}
}

// Organize allocates every identity in the store to a bucket and flushes it.
// An empty store yields bucket.ErrNoIdentities.
func (o *Organizer) Organize(ctx context.Context) (Result, error) {
	logger := logging.WithContext(ctx, o.logger)
	var result Result

	buckets, err := bucket.Allocate(o.store.Keys(), o.opts.Bucket)
	if err != nil {
		return result, err
	}
	result.Buckets = buckets

	for _, b := range buckets {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		parent := o.opts.TargetDir
		if o.opts.SubFolders {
			parent = filepath.Join(o.opts.TargetDir, b.Name)
		}
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return result, fmt.Errorf("create bucket directory %q: %w", b.Name, err)
		}

		for _, key := range b.Keys {
			flushed, err := o.store.Flush(key, parent)
			if err != nil {
				return result, fmt.Errorf("write identity %q: %w", key, err)
			}
			name := identity.Label(o.opts.Bucket.Marker, key)
			link := o.link(b.Name, name)
			if o.catalog != nil {
				title := o.store.Title(key)
				if title == "" {
					title = name
				}
				o.catalog.AddItem(title, link)
			}
			result.Placements = append(result.Placements, Placement{
				Key:    key,
				Bucket: b.Name,
				Dir:    flushed.Dir,
				Link:   link,
				Files:  len(flushed.Files),
			})
		}

		logger.Debug("bucket written",
			logging.String(logging.FieldBucket, b.Name),
			logging.Int("identities", len(b.Keys)),
		)
	}

	logger.Info("identities organized",
		logging.Int("buckets", len(buckets)),
		logging.Int("identities", len(result.Placements)),
		logging.Bool("sub_folders", o.opts.SubFolders),
	)
	return result, nil
}

func (o *Organizer) link(bucketName, name string) string {
	if o.opts.SubFolders {
		return EscapeLink(o.opts.LinkBase + bucketName + "/" + name)
	}
	return EscapeLink(o.opts.LinkBase + name)
}

var linkEscaper = strings.NewReplacer(" ", "%20", "/", "%2F")

// EscapeLink turns a path into a document identifier: spaces become %20 and
// slashes become %2F.
func EscapeLink(path string) string {
	return linkEscaper.Replace(path)
}

// IsNoIdentities reports whether err marks an empty write-out.
func IsNoIdentities(err error) bool {
	return errors.Is(err, bucket.ErrNoIdentities)
}
