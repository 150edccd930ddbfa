package ingest

const (
	// MaxUploadBytes is the size policy for a single upload: 1 MiB.
	MaxUploadBytes = 1 << 20

	pdfContentType = "application/pdf"

	// ReasonInvalidType rejects anything that is not declared as a PDF.
	ReasonInvalidType = "Invalid Document Type"
	// ReasonInvalidSize rejects PDFs over MaxUploadBytes.
	ReasonInvalidSize = "Invalid Document Size"
)

// Validate applies the upload policy. Rules run in fixed order and the first
// failing rule determines the reason; on acceptance the reason is empty.
// Pure function, no side effects.
func Validate(up RawUpload) (bool, string) {
	if up.ContentType != pdfContentType {
		return false, ReasonInvalidType
	}
	if up.SizeBytes > MaxUploadBytes {
		return false, ReasonInvalidSize
	}
	return true, ""
}
