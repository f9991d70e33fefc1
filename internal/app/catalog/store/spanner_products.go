package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
	"github.com/murkotick/catalog-service/internal/app/catalog/repo"
	"github.com/murkotick/catalog-service/internal/models/m_category"
	"github.com/murkotick/catalog-service/internal/models/m_product"
	"github.com/murkotick/catalog-service/internal/pkg/committer"
)

// SpannerProductStore satisfies contracts.ProductStore on Cloud Spanner.
type SpannerProductStore struct {
	client    *spanner.Client
	committer *committer.Adapter
	repo      *repo.ProductRepo
}

func NewSpannerProductStore(client *spanner.Client, cm *committer.Adapter) *SpannerProductStore {
	return &SpannerProductStore{client: client, committer: cm, repo: repo.NewProductRepo()}
}

func (s *SpannerProductStore) Insert(ctx context.Context, p *domain.Product) (string, error) {
	rec := p.Clone()
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

func (s *SpannerProductStore) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row, err := s.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.Columns)
	if err != nil {
		return nil, notFoundOr(err, domain.EntityProduct, id)
	}
	return scanProduct(row)
}

func (s *SpannerProductStore) Replace(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	rec := p.Clone()
	rec.ID = id
	err := s.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		if _, err := tx.ReadRow(ctx, m_product.TableName, spanner.Key{id}, []string{m_product.ColProductID}); err != nil {
			return nil, notFoundOr(err, domain.EntityProduct, id)
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

func (s *SpannerProductStore) DeleteByID(ctx context.Context, id string) (*domain.Product, error) {
	var removed *domain.Product
	err := s.committer.ApplyAfter(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) (*committer.Plan, error) {
		row, err := tx.ReadRow(ctx, m_product.TableName, spanner.Key{id}, m_product.Columns)
		if err != nil {
			return nil, notFoundOr(err, domain.EntityProduct, id)
		}
		removed, err = scanProduct(row)
		if err != nil {
			return nil, err
		}
		return committer.NewPlan(s.repo.DeleteMut(id)), nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ReferencesImage looks the key up through the products_by_image_key index.
func (s *SpannerProductStore) ReferencesImage(ctx context.Context, key string) (bool, error) {
	return referencesImage(ctx, s.client, m_product.TableName, m_product.ColImageKey, key)
}

// AggregatePaginate runs the count and the page query in one read-only
// transaction so total and rows come from the same snapshot.
func (s *SpannerProductStore) AggregatePaginate(ctx context.Context, match contracts.ProductMatch, join contracts.JoinSpec, page, pageSize int) ([]*dto.ProductRow, int, error) {
	page, pageSize = contracts.NormalizePage(page, pageSize)
	from, where, params := buildProductQuery(match, join)

	tx := s.client.ReadOnlyTransaction()
	defer tx.Close()

	total, err := countRows(ctx, tx, spanner.Statement{
		SQL:    "SELECT COUNT(*) " + from + where,
		Params: params,
	})
	if err != nil {
		return nil, 0, err
	}

	offset, ok := contracts.PageOffset(page, pageSize)
	if !ok || offset >= total {
		return []*dto.ProductRow{}, total, nil
	}

	pageParams := make(map[string]interface{}, len(params)+2)
	for k, v := range params {
		pageParams[k] = v
	}
	pageParams["limit"] = int64(pageSize)
	pageParams["offset"] = int64(offset)

	stmt := spanner.Statement{
		SQL: "SELECT " + selectList(join) + " " + from + where +
			" ORDER BY p." + m_product.ColCreatedAt + " DESC, p." + m_product.ColProductID +
			" LIMIT @limit OFFSET @offset",
		Params: pageParams,
	}
	iter := tx.Query(ctx, stmt)
	defer iter.Stop()

	out := make([]*dto.ProductRow, 0, min(pageSize, total-offset))
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, total, nil
		}
		if err != nil {
			return nil, 0, err
		}

		var (
			pc productCols
			cc categoryCols
		)
		dest := pc.ptrs()
		if join.Category {
			dest = append(dest, cc.ptrs()...)
		}
		if err := row.Columns(dest...); err != nil {
			return nil, 0, err
		}

		p, err := pc.toDomain()
		if err != nil {
			return nil, 0, err
		}
		r := &dto.ProductRow{Product: p}
		if join.Category {
			if r.Category, err = cc.toDomain(); err != nil {
				return nil, 0, err
			}
		}
		out = append(out, r)
	}
}

// buildProductQuery returns the FROM clause (with the optional inner join),
// the WHERE clause and its parameters.
func buildProductQuery(match contracts.ProductMatch, join contracts.JoinSpec) (string, string, map[string]interface{}) {
	from := "FROM " + m_product.TableName + " AS p"
	if join.Category {
		from += fmt.Sprintf(" JOIN %s AS c ON c.%s = p.%s", m_category.TableName, m_category.ColCategoryID, m_product.ColCategoryID)
	}

	conds := make([]string, 0, 4)
	params := map[string]interface{}{}

	if match.NameContains != "" {
		conds = append(conds, "STRPOS(LOWER(p."+m_product.ColName+"), @q) > 0")
		params["q"] = strings.ToLower(match.NameContains)
	}
	if match.TenantID != nil {
		conds = append(conds, "p."+m_product.ColTenantID+" = @tenant_id")
		params["tenant_id"] = *match.TenantID
	}
	if match.CategoryID != nil {
		conds = append(conds, "p."+m_product.ColCategoryID+" = @category_id")
		params["category_id"] = *match.CategoryID
	}
	if match.IsPublish != nil {
		conds = append(conds, "p."+m_product.ColIsPublish+" = @is_publish")
		params["is_publish"] = *match.IsPublish
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	return from, where, params
}

func selectList(join contracts.JoinSpec) string {
	cols := make([]string, 0, len(m_product.Columns)+len(m_category.Columns))
	for _, c := range m_product.Columns {
		cols = append(cols, "p."+c)
	}
	if join.Category {
		for _, c := range m_category.Columns {
			cols = append(cols, "c."+c)
		}
	}
	return strings.Join(cols, ", ")
}

func countRows(ctx context.Context, tx *spanner.ReadOnlyTransaction, stmt spanner.Statement) (int, error) {
	iter := tx.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Columns(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}

func referencesImage(ctx context.Context, client *spanner.Client, table, column, key string) (bool, error) {
	iter := client.Single().Query(ctx, spanner.Statement{
		SQL:    fmt.Sprintf("SELECT 1 FROM %s WHERE %s = @key LIMIT 1", table, column),
		Params: map[string]interface{}{"key": key},
	})
	defer iter.Stop()

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// notFoundOr turns a missing-row read into the domain NotFound error.
func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, spanner.ErrRowNotFound) {
		return domain.NewNotFound(entity, id)
	}
	return err
}
