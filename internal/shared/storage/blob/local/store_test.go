package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"docingest-backend/internal/shared/storage/blob"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	size, err := store.Save(ctx, "report.pdf", strings.NewReader("hello pdf"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("hello pdf")) {
		t.Fatalf("expected size %d, got %d", len("hello pdf"), size)
	}

	rc, err := store.Open(ctx, "report.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(data) != "hello pdf" {
		t.Fatalf("unexpected blob contents: %q", data)
	}
}

func TestSaveOverwritesExistingName(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	if _, err := store.Save(ctx, "report.pdf", strings.NewReader("first")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := store.Save(ctx, "report.pdf", strings.NewReader("second")); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	rc, err := store.Open(ctx, "report.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if !bytes.Equal(data, []byte("second")) {
		t.Fatalf("expected overwrite to win, got %q", data)
	}
}

func TestOpenMissingBlobReturnsNotFound(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Open(context.Background(), "missing.pdf")
	if err == nil {
		t.Fatalf("expected error for missing blob")
	}
	if !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected blob.ErrNotFound, got %v", err)
	}
}

func TestSaveRejectsTraversalNames(t *testing.T) {
	store := New(t.TempDir())

	if _, err := store.Save(context.Background(), "../escape.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal name to be rejected")
	}
}
