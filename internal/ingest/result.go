package ingest

import "docingest-backend/internal/documents"

// Outcome tags which pipeline stage an invocation ended on. Exactly one
// outcome is produced per invocation; every failure outcome names the stage
// that failed.
type Outcome string

const (
	OutcomeDone             Outcome = "done"
	OutcomeRejectedInvalid  Outcome = "rejected_invalid"
	OutcomeStorageFailed    Outcome = "storage_failed"
	OutcomeExtractionFailed Outcome = "extraction_failed"
	OutcomeIndexingFailed   Outcome = "indexing_failed"
)

// Result is the tagged outcome of one pipeline invocation.
//
// Reason carries the validator's rejection reason for OutcomeRejectedInvalid.
// Err carries the stage error for the other failure outcomes. Document is set
// once the metadata row was written, which means it survives extraction and
// indexing failures: those stages never roll back prior writes. IndexKey is
// set once indexing was attempted.
type Result struct {
	Outcome  Outcome
	Reason   string
	Err      error
	Document documents.Document
	IndexKey string
}

// Ok reports whether the invocation completed every stage.
func (r Result) Ok() bool {
	return r.Outcome == OutcomeDone
}

// Detail returns a human-readable description of the failure, empty on
// success.
func (r Result) Detail() string {
	switch {
	case r.Outcome == OutcomeDone:
		return ""
	case r.Reason != "":
		return r.Reason
	case r.Err != nil:
		return r.Err.Error()
	default:
		return string(r.Outcome)
	}
}

func rejected(reason string) Result {
	return Result{Outcome: OutcomeRejectedInvalid, Reason: reason}
}

func failed(outcome Outcome, err error) Result {
	return Result{Outcome: outcome, Err: err}
}
