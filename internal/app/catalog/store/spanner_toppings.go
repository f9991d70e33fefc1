package store

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/models/m_topping"
	"github.com/murkotick/catalog-service/internal/pkg/committer"
)

// SpannerToppingStore satisfies contracts.ToppingStore on Cloud Spanner.
type SpannerToppingStore struct {
	client    *spanner.Client
	committer *committer.Adapter
	repo      *repo.ToppingRepo
}

func NewSpannerToppingStore(client *spanner.Client, cm *committer.Adapter) *SpannerToppingStore {
	return &SpannerToppingStore{client: client, committer: cm, repo: repo.NewToppingRepo()}
}

func (s *SpannerToppingStore) Insert(ctx context.Context, t *domain.Topping) (string, error) {
	rec := t.Clone()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := s.committer.Apply(ctx, committer.NewPlan(s.repo.InsertMut(rec))); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *SpannerToppingStore) FindByID(ctx context.Context, id string) (*domain.Topping, error) {
	row, err := s.client.Single().ReadRow(ctx, m_topping.TableName, spanner.Key{id}, m_topping.Columns)
	if err != nil {
		return nil, notFoundOr(err, domain.EntityTopping, id)
	}
	return scanTopping(row)
}

func (s *SpannerToppingStore) Replace(ctx context.Context, id string, t *domain.Topping) (*domain.Topping, error) {
	rec := t.Clone()
	rec.ID = id
	err := s.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		if _, err := tx.ReadRow(ctx, m_topping.TableName, spanner.Key{id}, []string{m_topping.ColToppingID}); err != nil {
			return nil, notFoundOr(err, domain.EntityTopping, id)
		}
		return committer.NewPlan(s.repo.ReplaceMut(rec)), nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SpannerToppingStore) DeleteByID(ctx context.Context, id string) (*domain.Topping, error) {
	var removed *domain.Topping
	err := s.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		row, err := tx.ReadRow(ctx, m_topping.TableName, spanner.Key{id}, m_topping.Columns)
		if err != nil {
			return nil, notFoundOr(err, domain.EntityTopping, id)
		}
		if removed, err = scanTopping(row); err != nil {
			return nil, err
		}
		return committer.NewPlan(s.repo.DeleteMut(id)), nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *SpannerToppingStore) List(ctx context.Context, tenantID *string) ([]*domain.Topping, error) {
	sql := "SELECT " + joinCols(m_topping.Columns) + " FROM " + m_topping.TableName
	params := map[string]interface{}{}
	if tenantID != nil {
		sql += " WHERE " + m_topping.ColTenantID + " = @tenant_id"
		params["tenant_id"] = *tenantID
	}
	sql += " ORDER BY " + m_topping.ColCreatedAt + " DESC, " + m_topping.ColToppingID

	iter := s.client.Single().Query(ctx, spanner.Statement{SQL: sql, Params: params})
	defer iter.Stop()

	out := []*domain.Topping{}
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		t, err := scanTopping(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
}

func (s *SpannerToppingStore) ReferencesImage(ctx context.Context, key string) (bool, error) {
	return referencesImage(ctx, s.client, m_topping.TableName, m_topping.ColImageKey, key)
}
