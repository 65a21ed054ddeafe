package storage

import (
	"context"
)

// BlobStore is the image-hosting capability used by the mutation protocols.
// Upload returns both the public URL (stored on records) and an opaque handle
// used for deletion. Delete is idempotent: deleting a handle twice, or a
// handle that was never uploaded, is not an error.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType, folder, name string) (url string, handle string, err error)
	Delete(ctx context.Context, handle string) error
	// HandleFromURL recovers the deletion handle for a URL this store issued.
	// Returns false for URLs that did not come from this store.
	HandleFromURL(url string) (string, bool)
}
