package catalog

import (
	"fmt"
	"log/slog"

	"anthologiser/internal/logging"
)

// Store persists catalogs.
type Store interface {
	// Read returns the stored catalog called name, if any, leaving it on disk.
	Read(name string) (*Catalog, bool, error)
	// Remove deletes whatever Read would return for name.
	Remove(name string) error
	// Save writes c in full.
	Save(c *Catalog) error
}

// Store formats accepted by NewStore.
const (
	FormatMVD  = "mvd"
	FormatHTML = "html"
)

// NewStore returns the store for format rooted at dir. Structured catalogs
// live in directories named marker+name.
func NewStore(format, dir, marker string) (Store, error) {
	switch format {
	case FormatMVD:
		return &MVDStore{Dir: dir, Marker: marker}, nil
	case FormatHTML:
		return &HTMLStore{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unknown catalog format %q", format)
	}
}

// Load reads the catalog called name and removes its stored form, so the
// next Save writes it afresh. Without a stored catalog an empty one is
// returned.
func Load(store Store, name string, logger *slog.Logger) (*Catalog, error) {
	logger = logging.NewComponentLogger(logger, "catalog")
	c, found, err := store.Read(name)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", name, err)
	}
	if !found {
		logger.Debug("no stored catalog", logging.String("name", name))
		return New(name), nil
	}
	if err := store.Remove(name); err != nil {
		return nil, fmt.Errorf("remove catalog %s: %w", name, err)
	}
	logger.Info("loaded catalog",
		logging.String("name", name),
		logging.Int("entries", c.Len()),
	)
	return c, nil
}
