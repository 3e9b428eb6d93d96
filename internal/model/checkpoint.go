package model

// EmailCheckpoint records the last-seen message UID for one email
// folder.  An external ingestion process reads it to avoid
// reprocessing mail it has already handled.  There is exactly one row
// per folder.  The store does not enforce that last_seen_uid only
// moves forward; callers own that.
//
// ID and LastSeenUID are pointers because the by-folder GET endpoint
// answers 200 with a record-shaped body whose id and last_seen_uid are
// null when the folder is unknown.  That wire contract is intentional
// and must not be normalized to a 404.
type EmailCheckpoint struct {
	ID          *uint64 `json:"id"`            // email_checkpoints.id (null when folder unknown)
	Folder      string  `json:"folder"`        // email_checkpoints.folder (unique)
	LastSeenUID *int64  `json:"last_seen_uid"` // email_checkpoints.last_seen_uid (null when folder unknown)
}
