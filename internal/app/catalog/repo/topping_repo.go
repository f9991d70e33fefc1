package repo

import (
	"cloud.google.com/go/spanner"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_topping"
)

// ToppingRepo builds topping mutations.
type ToppingRepo struct{}

func NewToppingRepo() *ToppingRepo {
	return &ToppingRepo{}
}

func buildToppingValues(t *domain.Topping) map[string]interface{} {
	return m_topping.BuildValues(t.Name, t.Price, t.Image, t.ImageKey, t.TenantID,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC())
}

func (r *ToppingRepo) InsertMut(t *domain.Topping) *spanner.Mutation {
	values := buildToppingValues(t)
	values[m_topping.ColToppingID] = t.ID
	return m_topping.InsertMutation(values)
}

func (r *ToppingRepo) ReplaceMut(t *domain.Topping) *spanner.Mutation {
	return m_topping.ReplaceMutation(t.ID, buildToppingValues(t))
}

func (r *ToppingRepo) DeleteMut(id string) *spanner.Mutation {
	return m_topping.DeleteMutation(id)
}
