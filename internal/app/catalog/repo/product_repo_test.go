package repo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/models/m_category"
	"github.com/murkotick/catalog-service/internal/models/m_product"
	"github.com/murkotick/catalog-service/internal/models/m_topping"
)

func sampleProduct(t *testing.T) *domain.Product {
	t.Helper()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))
	p, err := domain.NewProduct(domain.ProductDetails{
		Name: "Margherita",
		PriceConfiguration: domain.PriceConfiguration{
			"size": {PriceType: domain.PriceTypeBase, AvailableOptions: map[string]float64{"small": 400}},
		},
		TenantID:   "t1",
		CategoryID: "c1",
		IsPublish:  true,
	}, now)
	require.NoError(t, err)
	p.ID = "p1"
	p.Image = "img-key"
	return p
}

// TestInsertMut_NoDescription verifies an empty description is stored as NULL.
func TestInsertMut_NoDescription(t *testing.T) {
	r := NewProductRepo()
	p := sampleProduct(t)

	values, err := buildValues(p)
	require.NoError(t, err)

	v, ok := values[m_product.ColDescription]
	require.True(t, ok, "expected key %s in insert map", m_product.ColDescription)
	assert.Nil(t, v)

	assert.Equal(t, "img-key", values[m_product.ColImageKey])
	assert.Equal(t, true, values[m_product.ColIsPublish])
	assert.Equal(t, time.UTC, values[m_product.ColCreatedAt].(time.Time).Location())

	// insert values never include the key; InsertMut adds it
	_, hasID := values[m_product.ColProductID]
	assert.False(t, hasID)

	mut, err := r.InsertMut(p)
	require.NoError(t, err)
	require.NotNil(t, mut)
}

// TestInsertMut_JSONColumns verifies pricing and attributes are stored as JSON text.
func TestInsertMut_JSONColumns(t *testing.T) {
	p := sampleProduct(t)

	values, err := buildValues(p)
	require.NoError(t, err)

	var pc domain.PriceConfiguration
	require.NoError(t, json.Unmarshal([]byte(values[m_product.ColPriceConfiguration].(string)), &pc))
	assert.Equal(t, p.PriceConfiguration, pc)

	// nil attributes become an empty array, never JSON null
	assert.Equal(t, "[]", values[m_product.ColAttributes])
}

func TestReplaceMut_CarriesEveryColumn(t *testing.T) {
	p := sampleProduct(t)
	p.Description = "thin crust"

	values, err := buildValues(p)
	require.NoError(t, err)
	assert.Len(t, values, len(m_product.Columns)-1)
	assert.Equal(t, "thin crust", values[m_product.ColDescription])

	mut, err := NewProductRepo().ReplaceMut(p)
	require.NoError(t, err)
	require.NotNil(t, mut)
}

func TestToppingValues_KeepKeyAndURI(t *testing.T) {
	tp := &domain.Topping{ID: "tp1", Name: "Cheese", Price: 1.5, TenantID: "t1"}
	tp.AttachImage("k1", "https://host/bucket/k1")

	values := buildToppingValues(tp)
	assert.Equal(t, "k1", values[m_topping.ColImageKey])
	assert.Equal(t, "https://host/bucket/k1", values[m_topping.ColImageURI])
	assert.Equal(t, 1.5, values[m_topping.ColPrice])
	require.NotNil(t, NewToppingRepo().InsertMut(tp))
}

func TestCategoryValues_EncodeSchemas(t *testing.T) {
	c := &domain.Category{
		ID:   "c1",
		Name: "Pizza",
		PriceConfiguration: map[string]domain.PriceSchema{
			"size": {PriceType: domain.PriceTypeBase, AvailableOptions: []string{"small", "large"}},
		},
	}

	values, err := buildCategoryValues(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"size":{"priceType":"base","availableOptions":["small","large"]}}`, values[m_category.ColPriceConfiguration].(string))
	assert.Equal(t, "[]", values[m_category.ColAttributes])
}

func TestOrphanRepo_NilEntry(t *testing.T) {
	r := NewOrphanRepo()
	assert.Nil(t, r.InsertMut(nil))
	assert.NotNil(t, r.InsertMut(&domain.OrphanImage{Key: "k", Entity: domain.EntityProduct, RecordedAt: time.Now()}))
}
