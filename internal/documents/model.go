package documents

import "time"

// Document is the metadata record for one uploaded blob. The id and timestamp
// are assigned by the store on insert; rows are append-only and never mutated.
type Document struct {
	ID         int64
	OwnerID    string
	Filename   string
	UploadedAt time.Time
}
