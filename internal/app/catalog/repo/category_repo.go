package repo

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_category"
)

// CategoryRepo builds category mutations.
type CategoryRepo struct{}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{}
}

func buildCategoryValues(c *domain.Category) (map[string]interface{}, error) {
	priceConfig, err := json.Marshal(c.PriceConfiguration)
	if err != nil {
		return nil, fmt.Errorf("encode price configuration: %w", err)
	}
	schemas := c.Attributes
	if schemas == nil {
		schemas = []domain.AttributeSchema{}
	}
	attrs, err := json.Marshal(schemas)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return m_category.BuildValues(c.Name, string(priceConfig), string(attrs), c.CreatedAt.UTC(), c.UpdatedAt.UTC()), nil
}

func (r *CategoryRepo) InsertMut(c *domain.Category) (*spanner.Mutation, error) {
	values, err := buildCategoryValues(c)
	if err != nil {
		return nil, err
	}
	values[m_category.ColCategoryID] = c.ID
	return m_category.InsertMutation(values), nil
}

func (r *CategoryRepo) ReplaceMut(c *domain.Category) (*spanner.Mutation, error) {
	values, err := buildCategoryValues(c)
	if err != nil {
		return nil, err
	}
	return m_category.ReplaceMutation(c.ID, values), nil
}

func (r *CategoryRepo) DeleteMut(id string) *spanner.Mutation {
	return m_category.DeleteMutation(id)
}
