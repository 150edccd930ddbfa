package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"docingest-backend/internal/shared/storage/blob"
	"docingest-backend/internal/shared/util"
)

// Store implements blob.Store on the local filesystem. All blobs live flat
// under baseDir, one file per upload.
type Store struct {
	baseDir string
}

// New creates a local blob store rooted at baseDir. The directory is created
// lazily on the first Save.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the reader to disk under the blob's name, replacing any prior
// blob with the same name. The write goes through a temp file and rename so a
// concurrent Open never sees a half-written blob.
func (s *Store) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return 0, fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	tmpPath := filepath.Join(s.baseDir, "."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open temp file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write body: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	finalPath := filepath.Join(s.baseDir, sanitized)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename: %w", err)
	}

	return size, nil
}

// Open opens a stored blob for reading. A missing blob maps to blob.ErrNotFound.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	sanitized, err := util.SanitizeFileName(name)
	if err != nil {
		return nil, fmt.Errorf("sanitize file name: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, sanitized))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open blob %s: %w", sanitized, blob.ErrNotFound)
		}
		return nil, fmt.Errorf("open blob %s: %w", sanitized, err)
	}
	return f, nil
}

var _ blob.Store = (*Store)(nil)
