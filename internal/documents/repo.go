package documents

import "context"

// Repo defines persistence operations for document metadata. Insert appends a
// row and returns it with the store-assigned id and timestamp; ListByOwner is
// the complementary read, ordered by insertion.
type Repo interface {
	Insert(ctx context.Context, ownerID, filename string) (Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Document, error)
}
