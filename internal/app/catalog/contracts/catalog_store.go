package contracts

import (
	"context"
	"math"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/app/catalog/dto"
)

const (
	// DefaultPageSize applies when a read does not ask for a page size.
	DefaultPageSize = 10
	// MaxPageSize caps the rows returned by one page.
	MaxPageSize = 200
)

// NormalizePage clamps page to at least 1, defaults a non-positive pageSize
// and caps it at MaxPageSize.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize < 1:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PageOffset returns the number of rows before page. ok is false when the
// offset does not fit in an int, in which case the page is past every row.
func PageOffset(page, pageSize int) (offset int, ok bool) {
	if page-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}

// ProductMatch selects products for AggregatePaginate. Nil fields do not filter.
type ProductMatch struct {
	// NameContains is a case-insensitive substring of the product name.
	NameContains string
	TenantID     *string
	CategoryID   *string
	IsPublish    *bool
}

// JoinSpec controls what each product row is joined with.
type JoinSpec struct {
	// Category inner-joins the product's category. Products whose category
	// no longer exists are left out of both the rows and the total.
	Category bool
}

// ProductStore persists products. Every operation is atomic for one record.
type ProductStore interface {
	Insert(ctx context.Context, p *domain.Product) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Replace(ctx context.Context, id string, p *domain.Product) (*domain.Product, error)
	DeleteByID(ctx context.Context, id string) (*domain.Product, error)

	// AggregatePaginate returns one page of matching rows and the number of
	// matches across all pages. page is 1-indexed.
	AggregatePaginate(ctx context.Context, match ProductMatch, join JoinSpec, page, pageSize int) ([]*dto.ProductRow, int, error)

	ImageReferrer
}

// ToppingStore persists toppings.
type ToppingStore interface {
	Insert(ctx context.Context, t *domain.Topping) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Topping, error)
	Replace(ctx context.Context, id string, t *domain.Topping) (*domain.Topping, error)
	DeleteByID(ctx context.Context, id string) (*domain.Topping, error)

	// List returns toppings ordered by creation, optionally limited to one tenant.
	List(ctx context.Context, tenantID *string) ([]*domain.Topping, error)

	ImageReferrer
}

// ImageReferrer reports whether any stored record points at an object key.
type ImageReferrer interface {
	ReferencesImage(ctx context.Context, key string) (bool, error)
}

// CategoryStore persists categories.
type CategoryStore interface {
	Insert(ctx context.Context, c *domain.Category) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	Replace(ctx context.Context, id string, c *domain.Category) (*domain.Category, error)
	DeleteByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}
