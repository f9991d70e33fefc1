package store

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
)

// productCols scans the columns listed in m_product.Columns.
type productCols struct {
	id          string
	name        string
	description spanner.NullString
	priceConfig string
	attributes  string
	tenantID    string
	categoryID  string
	isPublish   bool
	imageKey    string
	createdAt   time.Time
	updatedAt   time.Time
}

func (c *productCols) ptrs() []interface{} {
	return []interface{}{
		&c.id, &c.name, &c.description, &c.priceConfig, &c.attributes,
		&c.tenantID, &c.categoryID, &c.isPublish, &c.imageKey, &c.createdAt, &c.updatedAt,
	}
}

func (c *productCols) toDomain() (*domain.Product, error) {
	p := &domain.Product{
		ID:         c.id,
		Name:       c.name,
		TenantID:   c.tenantID,
		CategoryID: c.categoryID,
		IsPublish:  c.isPublish,
		Image:      c.imageKey,
		CreatedAt:  c.createdAt.UTC(),
		UpdatedAt:  c.updatedAt.UTC(),
	}
	if c.description.Valid {
		p.Description = c.description.StringVal
	}
	if err := decodeJSON(c.priceConfig, &p.PriceConfiguration); err != nil {
		return nil, fmt.Errorf("product %s price_configuration: %w", c.id, err)
	}
	if err := decodeJSON(c.attributes, &p.Attributes); err != nil {
		return nil, fmt.Errorf("product %s attributes: %w", c.id, err)
	}
	return p, nil
}

// categoryCols scans the columns listed in m_category.Columns.
type categoryCols struct {
	id          string
	name        string
	priceConfig string
	attributes  string
	createdAt   time.Time
	updatedAt   time.Time
}

func (c *categoryCols) ptrs() []interface{} {
	return []interface{}{&c.id, &c.name, &c.priceConfig, &c.attributes, &c.createdAt, &c.updatedAt}
}

func (c *categoryCols) toDomain() (*domain.Category, error) {
	cat := &domain.Category{
		ID:        c.id,
		Name:      c.name,
		CreatedAt: c.createdAt.UTC(),
		UpdatedAt: c.updatedAt.UTC(),
	}
	if err := decodeJSON(c.priceConfig, &cat.PriceConfiguration); err != nil {
		return nil, fmt.Errorf("category %s price_configuration: %w", c.id, err)
	}
	if err := decodeJSON(c.attributes, &cat.Attributes); err != nil {
		return nil, fmt.Errorf("category %s attributes: %w", c.id, err)
	}
	return cat, nil
}

// toppingCols scans the columns listed in m_topping.Columns.
type toppingCols struct {
	id        string
	name      string
	price     float64
	imageURI  string
	imageKey  string
	tenantID  string
	createdAt time.Time
	updatedAt time.Time
}

func (c *toppingCols) ptrs() []interface{} {
	return []interface{}{&c.id, &c.name, &c.price, &c.imageURI, &c.imageKey, &c.tenantID, &c.createdAt, &c.updatedAt}
}

func (c *toppingCols) toDomain() *domain.Topping {
	return &domain.Topping{
		ID:        c.id,
		Name:      c.name,
		Price:     c.price,
		Image:     c.imageURI,
		ImageKey:  c.imageKey,
		TenantID:  c.tenantID,
		CreatedAt: c.createdAt.UTC(),
		UpdatedAt: c.updatedAt.UTC(),
	}
}

func scanProduct(row *spanner.Row) (*domain.Product, error) {
	var c productCols
	if err := row.Columns(c.ptrs()...); err != nil {
		return nil, err
	}
	return c.toDomain()
}

func scanCategory(row *spanner.Row) (*domain.Category, error) {
	var c categoryCols
	if err := row.Columns(c.ptrs()...); err != nil {
		return nil, err
	}
	return c.toDomain()
}

func scanTopping(row *spanner.Row) (*domain.Topping, error) {
	var c toppingCols
	if err := row.Columns(c.ptrs()...); err != nil {
		return nil, err
	}
	return c.toDomain(), nil
}

func decodeJSON(raw string, dst interface{}) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}
