package documents

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres. Single-row inserts are serialized by
// the database; no application-level locking is layered on top.
type PGRepo struct {
	DB *sql.DB
}

// Insert appends a metadata row. The id and uploaded_at come back from the
// database so they are authoritative even under concurrent inserts.
func (r *PGRepo) Insert(ctx context.Context, ownerID, filename string) (Document, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(filename) == "" {
		return Document{}, ErrInvalidInput
	}

	const query = `
INSERT INTO documents (owner_id, filename)
VALUES ($1, $2)
RETURNING id, uploaded_at`

	doc := Document{
		OwnerID:  ownerID,
		Filename: filename,
	}
	err := r.DB.QueryRowContext(ctx, query, ownerID, filename).Scan(&doc.ID, &doc.UploadedAt)
	if err != nil {
		return Document{}, fmt.Errorf("insert document owner=%s: %w", ownerID, err)
	}
	return doc, nil
}

// ListByOwner returns all documents for an owner in insertion order.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidInput
	}

	const query = `
SELECT id, owner_id, filename, uploaded_at
FROM documents
WHERE owner_id = $1
ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents owner=%s: %w", ownerID, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.OwnerID, &doc.Filename, &doc.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
