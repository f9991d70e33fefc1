package store

import (
	"context"
	"strings"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/models/m_category"
	"github.com/murkotick/catalog-service/internal/pkg/committer"
)

// SpannerCategoryStore satisfies contracts.CategoryStore on Cloud Spanner.
type SpannerCategoryStore struct {
	client    *spanner.Client
	committer *committer.Adapter
	repo      *repo.CategoryRepo
}

func NewSpannerCategoryStore(client *spanner.Client, cm *committer.Adapter) *SpannerCategoryStore {
	return &SpannerCategoryStore{client: client, committer: cm, repo: repo.NewCategoryRepo()}
}

func (s *SpannerCategoryStore) Insert(ctx context.Context, c *domain.Category) (string, error) {
	rec := c.Clone()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	mut, err := s.repo.InsertMut(rec)
	if err != nil {
		return "", err
	}
	if err := s.committer.Apply(ctx, committer.NewPlan(mut)); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *SpannerCategoryStore) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	row, err := s.client.Single().ReadRow(ctx, m_category.TableName, spanner.Key{id}, m_category.Columns)
	if err != nil {
		return nil, notFoundOr(err, domain.EntityCategory, id)
	}
	return scanCategory(row)
}

func (s *SpannerCategoryStore) Replace(ctx context.Context, id string, c *domain.Category) (*domain.Category, error) {
	rec := c.Clone()
	rec.ID = id
	err := s.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		if _, err := tx.ReadRow(ctx, m_category.TableName, spanner.Key{id}, []string{m_category.ColCategoryID}); err != nil {
			return nil, notFoundOr(err, domain.EntityCategory, id)
		}
		mut, err := s.repo.ReplaceMut(rec)
		if err != nil {
			return nil, err
		}
		return committer.NewPlan(mut), nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SpannerCategoryStore) DeleteByID(ctx context.Context, id string) (*domain.Category, error) {
	var removed *domain.Category
	err := s.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		row, err := tx.ReadRow(ctx, m_category.TableName, spanner.Key{id}, m_category.Columns)
		if err != nil {
			return nil, notFoundOr(err, domain.EntityCategory, id)
		}
		if removed, err = scanCategory(row); err != nil {
			return nil, err
		}
		return committer.NewPlan(s.repo.DeleteMut(id)), nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *SpannerCategoryStore) List(ctx context.Context) ([]*domain.Category, error) {
	stmt := spanner.Statement{
		SQL: "SELECT " + joinCols(m_category.Columns) + " FROM " + m_category.TableName +
			" ORDER BY " + m_category.ColName + ", " + m_category.ColCategoryID,
	}
	iter := s.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	out := []*domain.Category{}
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		c, err := scanCategory(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
}

func joinCols(cols []string) string {
	return strings.Join(cols, ", ")
}
