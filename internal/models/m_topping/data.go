package m_topping

import (
	"time"

	"cloud.google.com/go/spanner"
)

func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols, vals := split(values)
	return spanner.Insert(TableName, cols, vals)
}

func ReplaceMutation(toppingID string, values map[string]interface{}) *spanner.Mutation {
	cols, vals := split(values)
	return spanner.Update(TableName, append([]string{ColToppingID}, cols...), append([]interface{}{toppingID}, vals...))
}

func DeleteMutation(toppingID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{toppingID})
}

// BuildValues prepares the non-key columns of a topping row.
func BuildValues(name string, price float64, imageURI, imageKey, tenantID string, createdAt, updatedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		ColName:      name,
		ColPrice:     price,
		ColImageURI:  imageURI,
		ColImageKey:  imageKey,
		ColTenantID:  tenantID,
		ColCreatedAt: createdAt,
		ColUpdatedAt: updatedAt,
	}
}

func split(values map[string]interface{}) ([]string, []interface{}) {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for c, v := range values {
		cols = append(cols, c)
		vals = append(vals, v)
	}
	return cols, vals
}
