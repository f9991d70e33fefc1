package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/models/m_orphan"
	"github.com/murkotick/catalog-service/internal/pkg/committer"
)

// SpannerOrphanLedger satisfies contracts.OrphanLedger on Cloud Spanner.
type SpannerOrphanLedger struct {
	client    *spanner.Client
	committer *committer.Adapter
	repo      *repo.OrphanRepo
}

func NewSpannerOrphanLedger(client *spanner.Client, cm *committer.Adapter) *SpannerOrphanLedger {
	return &SpannerOrphanLedger{client: client, committer: cm, repo: repo.NewOrphanRepo()}
}

func (l *SpannerOrphanLedger) Record(ctx context.Context, o *domain.OrphanImage) error {
	return l.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		_, err := tx.ReadRow(ctx, m_orphan.TableName, spanner.Key{o.Key}, []string{m_orphan.ColImageKey})
		if err == nil {
			return nil, nil
		}
		if !errors.Is(err, spanner.ErrRowNotFound) {
			return nil, err
		}
		return committer.NewPlan(l.repo.InsertMut(o)), nil
	})
}

func (l *SpannerOrphanLedger) Pending(ctx context.Context, limit int) ([]*domain.OrphanImage, error) {
	stmt := spanner.Statement{
		SQL: "SELECT " + joinCols(m_orphan.Columns) + " FROM " + m_orphan.TableName +
			" ORDER BY " + m_orphan.ColAttempts + ", " + m_orphan.ColRecordedAt + " LIMIT @limit",
		Params: map[string]interface{}{"limit": int64(limit)},
	}
	iter := l.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var out []*domain.OrphanImage
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}

		var (
			o           domain.OrphanImage
			lastAttempt spanner.NullTime
		)
		if err := row.Columns(&o.Key, &o.Entity, &o.Reason, &o.Attempts, &o.RecordedAt, &lastAttempt); err != nil {
			return nil, err
		}
		if lastAttempt.Valid {
			at := lastAttempt.Time.UTC()
			o.LastAttemptAt = &at
		}
		out = append(out, &o)
	}
}

func (l *SpannerOrphanLedger) MarkAttempt(ctx context.Context, key string, at time.Time) error {
	return l.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		row, err := tx.ReadRow(ctx, m_orphan.TableName, spanner.Key{key}, []string{m_orphan.ColAttempts})
		if err != nil {
			return nil, notFoundOr(err, "orphan image", key)
		}
		var attempts int64
		if err := row.Columns(&attempts); err != nil {
			return nil, err
		}
		return committer.NewPlan(l.repo.AttemptMut(key, attempts+1, at)), nil
	})
}

func (l *SpannerOrphanLedger) Resolve(ctx context.Context, key string) error {
	return l.committer.Apply(ctx, committer.NewPlan(l.repo.DeleteMut(key)))
}
