package repo

import (
	"time"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_orphan"
)

// OrphanRepo builds mutations for the orphan image ledger.
type OrphanRepo struct{}

func NewOrphanRepo() *OrphanRepo {
	return &OrphanRepo{}
}

func (r *OrphanRepo) InsertMut(o *domain.OrphanImage) *spanner.Mutation {
	if o == nil {
		return nil
	}
	values := m_orphan.BuildInsertMap(o.Key, o.Entity, o.Reason, o.RecordedAt.UTC())
	return m_orphan.InsertMutation(values)
}

func (r *OrphanRepo) AttemptMut(key string, attempts int64, at time.Time) *spanner.Mutation {
	return m_orphan.AttemptMutation(key, attempts, at.UTC())
}

func (r *OrphanRepo) DeleteMut(key string) *spanner.Mutation {
	return m_orphan.DeleteMutation(key)
}
