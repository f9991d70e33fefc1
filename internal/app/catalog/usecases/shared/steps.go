package shared

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// Authorize receives the owning tenant of a loaded record and returns a
// non-nil error to stop the operation before any side effect.
type Authorize func(ownerTenantID string) error

// UploadImage stores data under a fresh key and returns the key.
func UploadImage(ctx context.Context, storage contracts.ObjectStorage, data []byte) (string, error) {
	key := uuid.NewString()
	if err := storage.Upload(ctx, key, data); err != nil {
		return "", &domain.StorageError{Op: "upload", Key: key, Err: err}
	}
	return key, nil
}

// Persistence classifies a store error. NotFound is returned unchanged so
// callers can tell a missing record from an unavailable store.
func Persistence(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return &domain.PersistenceError{Op: op, Entity: entity, Err: err}
}

// Detach returns a context that keeps ctx's values but outlives its
// cancellation. Post-persist steps run on it.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
