package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the named blob does not exist in the store. Callers
// use it to distinguish a missing upload from an I/O failure.
var ErrNotFound = errors.New("blob not found")

// Store defines the contract for the uploads area. Blobs are keyed by their
// sanitized filename; saving an existing name overwrites the prior bytes
// (filenames are not deduplicated, matching the upload flow's last-writer-wins
// behavior).
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
