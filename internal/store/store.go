// Package store provides persistence for the XML product catalog.
package store

import "context"

// CatalogStore loads and saves the whole catalog.
// It abstracts the underlying file so the service can be tested without touching disk.
type CatalogStore interface {
	// Load reads and parses the full catalog.
	// Returns an error wrapping ErrCatalogUnavailable if the catalog cannot be read.
	Load(ctx context.Context) (*Catalog, error)

	// Save replaces the persisted catalog with the given one.
	Save(ctx context.Context, catalog *Catalog) error
}
