package ports

import "context"

// StoragePort is the object store holding car images.
type StoragePort interface {
	// Upload stores the object and returns its public URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, paths []string) error
	// PathFromURL maps a public URL back to the object key, or "" when the
	// URL does not belong to this store.
	PathFromURL(url string) string
}
