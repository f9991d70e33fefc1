package m_orphan

const (
	TableName = "orphan_images"

	ColImageKey      = "image_key"
	ColEntity        = "entity"
	ColReason        = "reason"
	ColAttempts      = "attempts"
	ColRecordedAt    = "recorded_at"
	ColLastAttemptAt = "last_attempt_at"
)

var Columns = []string{
	ColImageKey,
	ColEntity,
	ColReason,
	ColAttempts,
	ColRecordedAt,
	ColLastAttemptAt,
}
