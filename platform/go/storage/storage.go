package storage

import (
	"context"
	"io"
)

// ObjectStore is the contract the listing workflow depends on for agreement
// documents. Uploads always overwrite: the path is derived deterministically
// from the MLS id, so re-uploading the same listing's document is idempotent.
type ObjectStore interface {
	// Upload writes the object at path, replacing any existing content.
	Upload(ctx context.Context, path string, contents io.Reader) error
	// Remove deletes the object at path. Removing a missing object is not an error.
	Remove(ctx context.Context, path string) error
	// PublicURL resolves the unauthenticated download URL for path.
	PublicURL(path string) string
}
