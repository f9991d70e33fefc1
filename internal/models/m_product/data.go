package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// InsertMutation builds a spanner.Insert mutation for a product using a map of values.
// expected keys are the column names declared in fields.go
func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols, vals := split(values)
	return spanner.Insert(TableName, cols, vals)
}

// ReplaceMutation overwrites every non-key column of an existing product.
// The values map should NOT include the product_id key.
func ReplaceMutation(productID string, values map[string]interface{}) *spanner.Mutation {
	cols := []string{ColProductID}
	vals := []interface{}{productID}

	c, v := split(values)
	cols = append(cols, c...)
	vals = append(vals, v...)

	return spanner.Update(TableName, cols, vals)
}

// DeleteMutation removes a product row by primary key.
func DeleteMutation(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}

// BuildValues prepares the canonical non-key columns. priceConfig and attributes
// are JSON documents.
func BuildValues(name, description, priceConfig, attributes, tenantID, categoryID string,
	isPublish bool, imageKey string, createdAt, updatedAt time.Time) map[string]interface{} {

	m := map[string]interface{}{
		ColName:               name,
		ColPriceConfiguration: priceConfig,
		ColAttributes:         attributes,
		ColTenantID:           tenantID,
		ColCategoryID:         categoryID,
		ColIsPublish:          isPublish,
		ColImageKey:           imageKey,
		ColCreatedAt:          createdAt,
		ColUpdatedAt:          updatedAt,
	}

	if description != "" {
		m[ColDescription] = description
	} else {
		m[ColDescription] = nil
	}

	return m
}

func split(values map[string]interface{}) ([]string, []interface{}) {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return cols, vals
}
