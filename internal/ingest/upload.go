package ingest

// RawUpload is the transient input to one pipeline invocation. It is
// constructed at the boundary (HTTP handler or CLI) and never persisted
// directly; the Validator and Blob Store consume it.
type RawUpload struct {
	ContentType string
	SizeBytes   int64
	Name        string
	Bytes       []byte
}
