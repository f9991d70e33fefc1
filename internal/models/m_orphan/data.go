package m_orphan

import (
	"time"

	"cloud.google.com/go/spanner"
)

// BuildInsertMap constructs a map with fields for a new ledger entry.
func BuildInsertMap(key, entity, reason string, recordedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		ColImageKey:      key,
		ColEntity:        entity,
		ColReason:        reason,
		ColAttempts:      int64(0),
		ColRecordedAt:    recordedAt,
		ColLastAttemptAt: nil,
	}
}

// InsertMutation constructs a mutation for the orphan_images table.
func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for c, v := range values {
		cols = append(cols, c)
		vals = append(vals, v)
	}
	return spanner.Insert(TableName, cols, vals)
}

// AttemptMutation stores a new attempt count and timestamp.
func AttemptMutation(key string, attempts int64, at time.Time) *spanner.Mutation {
	return spanner.Update(TableName,
		[]string{ColImageKey, ColAttempts, ColLastAttemptAt},
		[]interface{}{key, attempts, at})
}

func DeleteMutation(key string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{key})
}
