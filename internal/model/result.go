package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentResult records everything produced while redacting one document.
// Pipeline steps fill it in progressively.
type DocumentResult struct {
	// Path is the source path of the document.
	Path string `json:"path"`

	// OutputPath is where the censored copy was (or would be) written.
	OutputPath string `json:"output_path,omitempty"`

	// SourceHash is the hex SHA3-256 digest of the source text.
	SourceHash string `json:"source_hash,omitempty"`

	// Document is the loaded source. It is never serialized.
	Document *Document `json:"-"`

	// Detections are all accepted candidate spans, in detector order.
	Detections []Detection `json:"detections,omitempty"`

	// Plan is the merged, non-overlapping span list applied to the text.
	Plan []Span `json:"plan,omitempty"`

	// Redacted is the masked text. It is never serialized.
	Redacted string `json:"-"`

	// Counters holds this document's per-category detection counts.
	Counters *Counters `json:"-"`

	// Written is true once the censored copy is on disk.
	Written bool `json:"written"`

	// StartedAt is when processing of the document began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long processing took.
	Duration time.Duration `json:"duration"`

	// Error is the failure that stopped processing, if any.
	Error error `json:"-"`

	// ErrorMessage mirrors Error for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`
}

// NewDocumentResult creates an empty result for the given source path.
func NewDocumentResult(path string) *DocumentResult {
	return &DocumentResult{
		Path:      path,
		Counters:  NewCounters(),
		StartedAt: time.Now(),
	}
}

// Failed reports whether processing of the document stopped with an error.
func (r *DocumentResult) Failed() bool {
	return r.Error != nil
}

// SetError records the processing error.
func (r *DocumentResult) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Run summarizes one invocation of the redactor over a batch of files.
type Run struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last document completed.
	FinishedAt time.Time `json:"finished_at"`

	// Categories lists the active categories.
	Categories []string `json:"categories"`

	// Concepts is the number of concept phrases supplied.
	Concepts int `json:"concepts"`

	// Documents is the number of documents attempted.
	Documents int `json:"documents"`

	// Failed is the number of documents that could not be redacted.
	Failed int `json:"failed"`

	// Counters is the run-wide tally.
	Counters *Counters `json:"-"`
}

// NewRun creates a run with a fresh random ID.
func NewRun(active CategorySet, concepts int) *Run {
	return &Run{
		ID:         uuid.NewString(),
		StartedAt:  time.Now(),
		Categories: active.Strings(),
		Concepts:   concepts,
		Counters:   NewCounters(),
	}
}

// Record folds a finished document into the run totals.
//
// Counts are merged even when the document failed: detections are counted
// once emitted, so a document that fails after detection (for example while
// writing its censored copy) still contributes. A document that failed
// before or during detection carries no counts.
func (r *Run) Record(doc *DocumentResult) {
	r.Documents++
	if doc.Failed() {
		r.Failed++
	}
	r.Counters.Merge(doc.Counters)
}
