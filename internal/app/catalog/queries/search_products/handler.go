package search_products

import (
	"context"

	"github.com/google/uuid"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

// Query is one product search. Page is 1-indexed.
type Query struct {
	Filters  dto.SearchFilters
	Page     int
	PageSize int
}

// Handler is the product query engine: filter, join with the category,
// paginate and resolve image URIs. Reads never write.
type Handler struct {
	products contracts.ProductStore
	storage  contracts.ObjectStorage
}

func NewHandler(products contracts.ProductStore, storage contracts.ObjectStorage) *Handler {
	return &Handler{products: products, storage: storage}
}

func (h *Handler) Execute(ctx context.Context, q Query) (*dto.ProductPage, error) {
	page, pageSize := contracts.NormalizePage(q.Page, q.PageSize)

	rows, total, err := h.products.AggregatePaginate(ctx, match(q.Filters), contracts.JoinSpec{Category: true}, page, pageSize)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "search", Entity: domain.EntityProduct, Err: err}
	}

	out := &dto.ProductPage{
		Data:        make([]*dto.ProductView, 0, len(rows)),
		Total:       total,
		PageSize:    pageSize,
		CurrentPage: page,
	}
	for _, r := range rows {
		out.Data = append(out.Data, dto.NewProductView(r.Product, h.storage.ResolveURI(r.Product.Image), r.Category))
	}
	return out, nil
}

// match turns filters into a store predicate. A category id that cannot be
// an id is dropped instead of failing the search.
func match(f dto.SearchFilters) contracts.ProductMatch {
	m := contracts.ProductMatch{
		NameContains: f.Q,
		TenantID:     f.TenantID,
		IsPublish:    f.IsPublish,
	}
	if f.CategoryID != nil {
		if _, err := uuid.Parse(*f.CategoryID); err == nil {
			m.CategoryID = f.CategoryID
		}
	}
	return m
}
