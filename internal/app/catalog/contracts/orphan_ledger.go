package contracts

import (
	"context"
	"time"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// OrphanLedger tracks stored objects that are no longer referenced by any record.
type OrphanLedger interface {
	// Record adds the key, or leaves an existing entry untouched.
	Record(ctx context.Context, o *domain.OrphanImage) error
	// Pending returns up to limit entries, fewest attempts first.
	Pending(ctx context.Context, limit int) ([]*domain.OrphanImage, error)
	// MarkAttempt counts one failed cleanup attempt.
	MarkAttempt(ctx context.Context, key string, at time.Time) error
	// Resolve removes the entry after the object is gone.
	Resolve(ctx context.Context, key string) error
}
