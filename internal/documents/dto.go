package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID int64     `json:"documentId"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ToResponse converts a metadata record into its API shape.
func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		UploadedAt: doc.UploadedAt,
	}
}
