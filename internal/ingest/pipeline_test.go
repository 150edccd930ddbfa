package ingest

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"docingest-backend/internal/documents"
	"docingest-backend/internal/extract"
	"docingest-backend/internal/index"
	"docingest-backend/internal/shared/storage/blob"
	"docingest-backend/internal/shared/storage/blob/local"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Text(ctx context.Context, name string) (string, error) {
	return f.text, f.err
}

type failingBlobStore struct {
	saveErr error
}

func (s failingBlobStore) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	// Writes are discarded, so Open never finds anything.
	n, err := io.Copy(io.Discard, r)
	return n, err
}

func (s failingBlobStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	return nil, blob.ErrNotFound
}

func newTestPipeline(t *testing.T, extractor Extractor) (*Pipeline, *documents.MemoryRepo, string, string) {
	t.Helper()
	uploadsDir := t.TempDir()
	indexDir := t.TempDir()
	repo := documents.NewMemoryRepo()
	p := &Pipeline{
		Blobs:     local.New(uploadsDir),
		Repo:      repo,
		Extractor: extractor,
		Indexer:   &index.Builder{Dir: indexDir, Embedder: index.LocalEmbedder{}},
	}
	return p, repo, uploadsDir, indexDir
}

func validUpload() RawUpload {
	return RawUpload{
		ContentType: "application/pdf",
		SizeBytes:   2048,
		Name:        "report.pdf",
		Bytes:       []byte("%PDF-1.4 fake body"),
	}
}

func TestIngestDoneEndToEnd(t *testing.T) {
	p, repo, uploadsDir, indexDir := newTestPipeline(t, fakeExtractor{text: "Quarterly results..."})

	result := p.Ingest(context.Background(), validUpload(), "u1")

	if !result.Ok() {
		t.Fatalf("expected Done, got %s (%s)", result.Outcome, result.Detail())
	}
	if result.Document.ID == 0 {
		t.Fatalf("expected assigned document id")
	}
	if result.IndexKey != "report" {
		t.Fatalf("expected index key report, got %q", result.IndexKey)
	}

	docs, err := repo.ListByOwner(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(docs) != 1 || docs[0].OwnerID != "u1" || docs[0].Filename != "report.pdf" {
		t.Fatalf("unexpected metadata rows: %+v", docs)
	}

	if _, err := os.Stat(filepath.Join(uploadsDir, "report.pdf")); err != nil {
		t.Fatalf("expected blob on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(indexDir, "report", "vector_store.json")); err != nil {
		t.Fatalf("expected persisted index: %v", err)
	}
}

func TestIngestRejectsWrongType(t *testing.T) {
	p, repo, uploadsDir, _ := newTestPipeline(t, fakeExtractor{text: "ignored"})

	up := RawUpload{ContentType: "text/plain", SizeBytes: 10, Name: "notes.txt", Bytes: []byte("hello")}
	result := p.Ingest(context.Background(), up, "u1")

	if result.Outcome != OutcomeRejectedInvalid {
		t.Fatalf("expected RejectedInvalid, got %s", result.Outcome)
	}
	if result.Reason != ReasonInvalidType {
		t.Fatalf("expected reason %q, got %q", ReasonInvalidType, result.Reason)
	}

	// Nothing persisted: no blob, no metadata row.
	if _, err := os.Stat(filepath.Join(uploadsDir, "notes.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected no blob for rejected upload")
	}
	docs, _ := repo.ListByOwner(context.Background(), "u1")
	if len(docs) != 0 {
		t.Fatalf("expected no metadata rows, got %d", len(docs))
	}
}

func TestIngestRejectsOversize(t *testing.T) {
	p, _, _, _ := newTestPipeline(t, fakeExtractor{text: "ignored"})

	up := RawUpload{ContentType: "application/pdf", SizeBytes: 2_000_000, Name: "big.pdf", Bytes: []byte("x")}
	result := p.Ingest(context.Background(), up, "u1")

	if result.Outcome != OutcomeRejectedInvalid {
		t.Fatalf("expected RejectedInvalid, got %s", result.Outcome)
	}
	if result.Reason != ReasonInvalidSize {
		t.Fatalf("expected reason %q, got %q", ReasonInvalidSize, result.Reason)
	}
}

func TestIngestEmptyTextFailsIndexing(t *testing.T) {
	p, repo, uploadsDir, indexDir := newTestPipeline(t, fakeExtractor{text: ""})

	result := p.Ingest(context.Background(), validUpload(), "u1")

	if result.Outcome != OutcomeIndexingFailed {
		t.Fatalf("expected IndexingFailed, got %s (%s)", result.Outcome, result.Detail())
	}
	if !errors.Is(result.Err, index.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", result.Err)
	}

	// Prior stages' writes survive: blob and metadata row exist, no index.
	if _, err := os.Stat(filepath.Join(uploadsDir, "report.pdf")); err != nil {
		t.Fatalf("expected blob to survive indexing failure: %v", err)
	}
	docs, _ := repo.ListByOwner(context.Background(), "u1")
	if len(docs) != 1 {
		t.Fatalf("expected metadata row to survive indexing failure, got %d", len(docs))
	}
	if _, err := os.Stat(filepath.Join(indexDir, "report")); !os.IsNotExist(err) {
		t.Fatalf("expected no index artifact")
	}
}

func TestIngestMissingBlobFailsExtraction(t *testing.T) {
	// A blob store that accepts writes but never finds them again: the real
	// extractor must surface the missing blob, not crash.
	store := failingBlobStore{}
	repo := documents.NewMemoryRepo()
	p := &Pipeline{
		Blobs:     store,
		Repo:      repo,
		Extractor: &extract.Service{Blobs: store},
		Indexer:   &index.Builder{Dir: t.TempDir(), Embedder: index.LocalEmbedder{}},
	}

	result := p.Ingest(context.Background(), validUpload(), "u1")

	if result.Outcome != OutcomeExtractionFailed {
		t.Fatalf("expected ExtractionFailed, got %s (%s)", result.Outcome, result.Detail())
	}
	if !errors.Is(result.Err, blob.ErrNotFound) {
		t.Fatalf("expected blob.ErrNotFound, got %v", result.Err)
	}
}

func TestIngestBlobWriteFailureIsStorageFailed(t *testing.T) {
	repo := documents.NewMemoryRepo()
	p := &Pipeline{
		Blobs:     failingBlobStore{saveErr: errors.New("disk full")},
		Repo:      repo,
		Extractor: fakeExtractor{text: "ignored"},
		Indexer:   &index.Builder{Dir: t.TempDir(), Embedder: index.LocalEmbedder{}},
	}

	result := p.Ingest(context.Background(), validUpload(), "u1")

	if result.Outcome != OutcomeStorageFailed {
		t.Fatalf("expected StorageFailed, got %s", result.Outcome)
	}
	docs, _ := repo.ListByOwner(context.Background(), "u1")
	if len(docs) != 0 {
		t.Fatalf("metadata row written despite blob failure")
	}
}

func TestIngestMetadataFailureIsStorageFailed(t *testing.T) {
	p, _, uploadsDir, _ := newTestPipeline(t, fakeExtractor{text: "ignored"})

	// Empty owner is rejected by the metadata store after the blob write;
	// the orphan blob is the accepted gap, not rolled back.
	result := p.Ingest(context.Background(), validUpload(), "")

	if result.Outcome != OutcomeStorageFailed {
		t.Fatalf("expected StorageFailed, got %s", result.Outcome)
	}
	if !errors.Is(result.Err, documents.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", result.Err)
	}
	if _, err := os.Stat(filepath.Join(uploadsDir, "report.pdf")); err != nil {
		t.Fatalf("expected orphan blob to remain: %v", err)
	}
}

func TestIngestExtractionFailureKeepsStoredWrites(t *testing.T) {
	p, repo, uploadsDir, _ := newTestPipeline(t, fakeExtractor{err: extract.ErrUnparseable})

	result := p.Ingest(context.Background(), validUpload(), "u1")

	if result.Outcome != OutcomeExtractionFailed {
		t.Fatalf("expected ExtractionFailed, got %s", result.Outcome)
	}
	if result.Document.ID == 0 {
		t.Fatalf("expected stored document to be reported on extraction failure")
	}
	if _, err := os.Stat(filepath.Join(uploadsDir, "report.pdf")); err != nil {
		t.Fatalf("expected blob to survive extraction failure: %v", err)
	}
	docs, _ := repo.ListByOwner(context.Background(), "u1")
	if len(docs) != 1 {
		t.Fatalf("expected metadata row to survive extraction failure, got %d", len(docs))
	}
}

func TestIngestSameNameOverwritesBlobKeepsBothRows(t *testing.T) {
	p, repo, _, _ := newTestPipeline(t, fakeExtractor{text: "some text"})
	ctx := context.Background()

	first := p.Ingest(ctx, validUpload(), "u1")
	second := p.Ingest(ctx, validUpload(), "u2")

	if !first.Ok() || !second.Ok() {
		t.Fatalf("expected both ingests to succeed: %s, %s", first.Outcome, second.Outcome)
	}

	u1Docs, _ := repo.ListByOwner(ctx, "u1")
	u2Docs, _ := repo.ListByOwner(ctx, "u2")
	if len(u1Docs) != 1 || len(u2Docs) != 1 {
		t.Fatalf("expected one metadata row per owner, got %d and %d", len(u1Docs), len(u2Docs))
	}
	if second.IndexKey != first.IndexKey {
		t.Fatalf("expected same index key for same filename")
	}
}
