package ingest

import (
	"bytes"
	"context"
	"time"

	"docingest-backend/internal/documents"
	"docingest-backend/internal/index"
	"docingest-backend/internal/shared/metrics"
	"docingest-backend/internal/shared/storage/blob"
	"docingest-backend/internal/shared/telemetry"
)

// Extractor is the consumed text-extraction capability: the name of a stored
// blob in, its plain text out. A missing blob surfaces blob.ErrNotFound.
type Extractor interface {
	Text(ctx context.Context, name string) (string, error)
}

// Indexer is the consumed indexing capability. Empty text must fail, never
// silently succeed.
type Indexer interface {
	BuildAndPersist(ctx context.Context, text, key string) error
}

// Pipeline orchestrates one ingestion: validate, store the blob, record
// metadata, extract text, build the index. Each stage's success is a
// precondition for the next; the first failure is terminal for the invocation
// and nothing is retried or rolled back. Dependencies are passed in by the
// caller, which owns their lifecycle; a Pipeline holds no global state and
// independent invocations may run concurrently.
type Pipeline struct {
	Blobs     blob.Store
	Repo      documents.Repo
	Extractor Extractor
	Indexer   Indexer
}

// Ingest runs the pipeline for one upload and returns the tagged outcome.
//
// The blob is written before the metadata row, so a row never references a
// missing blob. A crash between the two writes can leave an orphan blob; that
// gap is accepted rather than papered over with a transaction spanning two
// stores. Same-name uploads overwrite the blob while both metadata rows
// remain (last writer wins).
func (p *Pipeline) Ingest(ctx context.Context, up RawUpload, ownerID string) Result {
	start := time.Now()
	result := p.run(ctx, up, ownerID)
	elapsed := time.Since(start)

	metrics.ObserveIngest(string(result.Outcome), float64(elapsed.Microseconds())/1000.0)

	fields := map[string]any{
		"owner_id":    ownerID,
		"filename":    up.Name,
		"size_bytes":  up.SizeBytes,
		"outcome":     string(result.Outcome),
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	}
	if result.Ok() {
		fields["document_id"] = result.Document.ID
		fields["index_key"] = result.IndexKey
		telemetry.Info("ingest.done", fields)
	} else {
		fields["detail"] = result.Detail()
		telemetry.Warn("ingest.failed", fields)
	}

	return result
}

func (p *Pipeline) run(ctx context.Context, up RawUpload, ownerID string) Result {
	ok, reason := Validate(up)
	if !ok {
		return rejected(reason)
	}

	if _, err := p.Blobs.Save(ctx, up.Name, bytes.NewReader(up.Bytes)); err != nil {
		return failed(OutcomeStorageFailed, err)
	}

	doc, err := p.Repo.Insert(ctx, ownerID, up.Name)
	if err != nil {
		return failed(OutcomeStorageFailed, err)
	}

	text, err := p.Extractor.Text(ctx, up.Name)
	if err != nil {
		return Result{Outcome: OutcomeExtractionFailed, Err: err, Document: doc}
	}

	key := index.Key(up.Name)
	if err := p.Indexer.BuildAndPersist(ctx, text, key); err != nil {
		return Result{Outcome: OutcomeIndexingFailed, Err: err, Document: doc, IndexKey: key}
	}

	return Result{Outcome: OutcomeDone, Document: doc, IndexKey: key}
}
