package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
)

func TestBuildProductQuery_NoFilters(t *testing.T) {
	from, where, params := buildProductQuery(contracts.ProductMatch{}, contracts.JoinSpec{})

	assert.Equal(t, "FROM products AS p", from)
	assert.Empty(t, where)
	assert.Empty(t, params)
}

func TestBuildProductQuery_AllFilters(t *testing.T) {
	match := contracts.ProductMatch{
		NameContains: "MarG",
		TenantID:     ptr("t1"),
		CategoryID:   ptr("c1"),
		IsPublish:    ptr(true),
	}

	from, where, params := buildProductQuery(match, contracts.JoinSpec{Category: true})

	assert.Equal(t, "FROM products AS p JOIN categories AS c ON c.category_id = p.category_id", from)
	assert.Equal(t,
		" WHERE STRPOS(LOWER(p.name), @q) > 0 AND p.tenant_id = @tenant_id AND p.category_id = @category_id AND p.is_publish = @is_publish",
		where)
	assert.Equal(t, map[string]interface{}{
		"q":           "marg",
		"tenant_id":   "t1",
		"category_id": "c1",
		"is_publish":  true,
	}, params)
}

func TestSelectList_JoinAddsCategoryColumns(t *testing.T) {
	plain := selectList(contracts.JoinSpec{})
	joined := selectList(contracts.JoinSpec{Category: true})

	assert.Contains(t, plain, "p.image_key")
	assert.NotContains(t, plain, "c.")
	assert.Contains(t, joined, "c.price_configuration")
}
