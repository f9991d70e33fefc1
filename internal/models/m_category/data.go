package m_category

import (
	"time"

	"cloud.google.com/go/spanner"
)

func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols, vals := split(values)
	return spanner.Insert(TableName, cols, vals)
}

func ReplaceMutation(categoryID string, values map[string]interface{}) *spanner.Mutation {
	cols, vals := split(values)
	return spanner.Update(TableName, append([]string{ColCategoryID}, cols...), append([]interface{}{categoryID}, vals...))
}

func DeleteMutation(categoryID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{categoryID})
}

// BuildValues prepares the non-key columns; the schema arguments are JSON documents.
func BuildValues(name, priceConfig, attributes string, createdAt, updatedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		ColName:               name,
		ColPriceConfiguration: priceConfig,
		ColAttributes:         attributes,
		ColCreatedAt:          createdAt,
		ColUpdatedAt:          updatedAt,
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
