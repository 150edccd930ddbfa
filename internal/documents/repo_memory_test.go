package documents

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoInsertListRoundTrip(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	first, err := repo.Insert(ctx, "u1", "report.pdf")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	second, err := repo.Insert(ctx, "u1", "notes.pdf")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if second.ID <= first.ID {
		t.Fatalf("expected non-decreasing ids, got %d then %d", first.ID, second.ID)
	}
	if first.UploadedAt.IsZero() {
		t.Fatalf("expected uploadedAt to be assigned")
	}

	docs, err := repo.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Filename != "report.pdf" || docs[1].Filename != "notes.pdf" {
		t.Fatalf("unexpected listing: %+v", docs)
	}
}

func TestMemoryRepoIDsMonotonicAcrossOwners(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	a, _ := repo.Insert(ctx, "u1", "a.pdf")
	b, _ := repo.Insert(ctx, "u2", "b.pdf")
	c, _ := repo.Insert(ctx, "u1", "c.pdf")

	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Fatalf("expected monotonic ids, got %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestMemoryRepoListUnknownOwnerIsEmpty(t *testing.T) {
	repo := NewMemoryRepo()

	docs, err := repo.ListByOwner(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestMemoryRepoRejectsEmptyOwner(t *testing.T) {
	repo := NewMemoryRepo()

	if _, err := repo.Insert(context.Background(), "", "a.pdf"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := repo.ListByOwner(context.Background(), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
