package contracts

import "context"

// ObjectStorage is a key-addressed blob store for images.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte) error
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// ResolveURI maps a key to its public location without any I/O.
	ResolveURI(key string) string
}
