// Package outbound defines the outbound port interfaces for loading
// policy catalogs.
package outbound

import "github.com/Sentinel-Gate/admitgate/internal/domain/criteria"

// CatalogLoader loads a custom criteria catalog from a file.
// Adapters implement this for a given document format.
type CatalogLoader interface {
	LoadFile(path string) (*criteria.Catalog, error)
}
