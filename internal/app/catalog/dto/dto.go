package dto

import (
	"time"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// ProductRow is one result of a joined product read. Category is nil when the
// read did not ask for the join.
type ProductRow struct {
	Product  *domain.Product
	Category *domain.Category
}

// CategorySnapshot is the denormalized category data attached to search results.
type CategorySnapshot struct {
	ID                 string                        `json:"id"`
	Name               string                        `json:"name"`
	PriceConfiguration map[string]domain.PriceSchema `json:"priceConfiguration"`
	Attributes         []domain.AttributeSchema      `json:"attributes"`
}

// ProductView is a product as returned to readers: Image is a resolved URI.
type ProductView struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Description        string                    `json:"description"`
	PriceConfiguration domain.PriceConfiguration `json:"priceConfiguration"`
	Attributes         []domain.Attribute        `json:"attributes"`
	TenantID           string                    `json:"tenantId"`
	CategoryID         string                    `json:"categoryId"`
	IsPublish          bool                      `json:"isPublish"`
	Image              string                    `json:"image"`
	Category           *CategorySnapshot         `json:"category,omitempty"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

// ProductPage is the paginated search response.
type ProductPage struct {
	Data        []*ProductView `json:"data"`
	Total       int            `json:"total"`
	PageSize    int            `json:"pageSize"`
	CurrentPage int            `json:"currentPage"`
}

// SearchFilters are the optional product search criteria.
type SearchFilters struct {
	Q          string
	TenantID   *string
	CategoryID *string
	IsPublish  *bool
}

// NewProductView copies p into a view whose image is the given URI.
func NewProductView(p *domain.Product, imageURI string, c *domain.Category) *ProductView {
	v := &ProductView{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		PriceConfiguration: p.PriceConfiguration,
		Attributes:         p.Attributes,
		TenantID:           p.TenantID,
		CategoryID:         p.CategoryID,
		IsPublish:          p.IsPublish,
		Image:              imageURI,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if c != nil {
		v.Category = &CategorySnapshot{
			ID:                 c.ID,
			Name:               c.Name,
			PriceConfiguration: c.PriceConfiguration,
			Attributes:         c.Attributes,
		}
	}
	return v
}
