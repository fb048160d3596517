package domain

// ChangeOperation identifies the row-level operation reported by the change feed.
type ChangeOperation string

const (
	ChangeInsert ChangeOperation = "insert"
	ChangeUpdate ChangeOperation = "update"
	ChangeDelete ChangeOperation = "delete"
)

// RequestChange is one row-level change notification for a video request. The
// feed delivers the full current row state alongside the operation kind; the
// change itself is transient and never persisted here.
type RequestChange struct {
	Operation ChangeOperation
	Request   VideoRequest
}
