package domain

import "time"

// Reasons an object was recorded as possibly unreferenced.
const (
	OrphanReasonReplaced      = "replaced"
	OrphanReasonDeleted       = "record_deleted"
	OrphanReasonPersistFailed = "persist_failed"
)

// OrphanImage is a ledger entry for a stored object no record points at.
type OrphanImage struct {
	Key           string
	Entity        string
	Reason        string
	Attempts      int64
	RecordedAt    time.Time
	LastAttemptAt *time.Time
}

func (o *OrphanImage) Clone() *OrphanImage {
	c := *o
	if o.LastAttemptAt != nil {
		at := *o.LastAttemptAt
		c.LastAttemptAt = &at
	}
	return &c
}
