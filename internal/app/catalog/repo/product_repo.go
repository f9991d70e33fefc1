package repo

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_product"
)

// ProductRepo is the Spanner implementation of the product write model.
// It returns *spanner.Mutation objects but never applies them.
type ProductRepo struct{}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{}
}

// buildValues constructs the non-key column map. It's unexported so tests in
// the same package can inspect the map without relying on spanner.Mutation internals.
func buildValues(p *domain.Product) (map[string]interface{}, error) {
	priceConfig, err := json.Marshal(p.PriceConfiguration)
	if err != nil {
		return nil, fmt.Errorf("encode price configuration: %w", err)
	}
	attributes := p.Attributes
	if attributes == nil {
		attributes = []domain.Attribute{}
	}
	attrs, err := json.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}

	return m_product.BuildValues(p.Name, p.Description, string(priceConfig), string(attrs),
		p.TenantID, p.CategoryID, p.IsPublish, p.Image, p.CreatedAt.UTC(), p.UpdatedAt.UTC()), nil
}

// InsertMut builds an Insert mutation for a new product; p.ID must be set.
func (r *ProductRepo) InsertMut(p *domain.Product) (*spanner.Mutation, error) {
	values, err := buildValues(p)
	if err != nil {
		return nil, err
	}
	values[m_product.ColProductID] = p.ID
	return m_product.InsertMutation(values), nil
}

// ReplaceMut rewrites every column of an existing product.
func (r *ProductRepo) ReplaceMut(p *domain.Product) (*spanner.Mutation, error) {
	values, err := buildValues(p)
	if err != nil {
		return nil, err
	}
	return m_product.ReplaceMutation(p.ID, values), nil
}

func (r *ProductRepo) DeleteMut(id string) *spanner.Mutation {
	return m_product.DeleteMutation(id)
}
