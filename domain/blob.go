package domain

import "context"

// BlobStore owns the raw image bytes. The core only passes references around.
type BlobStore interface {
	// Put stores data and returns an opaque reference. ext is the file
	// extension without the dot.
	Put(ctx context.Context, data []byte, ext string) (string, error)

	// Get returns the bytes for a reference.
	// Returns ErrNotFound if the reference doesn't resolve.
	Get(ctx context.Context, ref string) ([]byte, error)

	// Delete removes the bytes for a reference; absence is not an error.
	Delete(ctx context.Context, ref string) error
}
