package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/redactor/internal/model"
)

// BatchProcessor redacts many documents concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each document.
	pipelineFactory func() *Pipeline

	// concurrency is the maximum number of documents in flight.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// onDocument is called after each document, under mu.
	onDocument func(result *model.DocumentResult)

	// mu serializes merges into the run and onDocument calls.
	mu sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent documents.
// Default is runtime.NumCPU().
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithDocumentCallback registers fn to be called once per finished document.
// Calls are serialized, so fn may touch shared state without locking.
func WithDocumentCallback(fn func(result *model.DocumentResult)) BatchOption {
	return func(b *BatchProcessor) {
		b.onDocument = fn
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch redacts every path and folds each finished document into run.
//
// A failing document is recorded in its result and never stops the others.
// When ctx is cancelled no new documents are started; the ones not started
// are left out of run and their slots in the returned slice stay nil. The
// returned error is ctx.Err() in that case and nil otherwise.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, run *model.Run, paths []string) ([]*model.DocumentResult, error) {
	bp.logger.Info("starting batch",
		"run", run.ID,
		"documents", len(paths),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()
	results := make([]*model.DocumentResult, len(paths))

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := model.NewDocumentResult(path)
			if err := bp.pipelineFactory().Execute(ctx, result); err != nil {
				bp.logger.Warn("document failed",
					"path", path,
					"error", err,
				)
			}

			bp.mu.Lock()
			defer bp.mu.Unlock()
			results[i] = result
			run.Record(result)
			if bp.onDocument != nil {
				bp.onDocument(result)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	run.FinishedAt = time.Now()

	bp.logger.Info("batch complete",
		"run", run.ID,
		"documents", run.Documents,
		"failed", run.Failed,
		"elapsed", time.Since(startTime),
	)

	return results, err
}
