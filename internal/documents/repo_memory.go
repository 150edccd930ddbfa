package documents

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo used in dev mode and
// tests. IDs are assigned from a single counter, so they are monotonic across
// owners just like the database sequence.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string][]Document // ownerID -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		nextID: 1,
		data:   make(map[string][]Document),
	}
}

// Insert appends a row with the next id and the current time.
func (r *MemoryRepo) Insert(ctx context.Context, ownerID, filename string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(filename) == "" {
		return Document{}, ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc := Document{
		ID:         r.nextID,
		OwnerID:    ownerID,
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
	}
	r.nextID++
	r.data[ownerID] = append(r.data[ownerID], doc)
	return doc, nil
}

// ListByOwner returns the owner's documents in insertion order.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.data[ownerID]
	out := make([]Document, len(docs))
	copy(out, docs)
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
