package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"

	"github.com/nao1215/redactor/internal/model"
	"github.com/nao1215/redactor/internal/redact"
)

const (
	// OutputSuffix is appended to the base name of every censored copy.
	OutputSuffix = ".censored"

	// DefaultMaxFileSize is the largest source document read (64 MiB).
	DefaultMaxFileSize int64 = 64 << 20

	// outputFileMode keeps censored copies private to the invoking user.
	outputFileMode os.FileMode = 0o600

	// outputDirMode is used when the output directory has to be created.
	outputDirMode os.FileMode = 0o750
)

// OutputPathFor returns where the censored copy of source is written.
func OutputPathFor(outputDir, source string) string {
	return filepath.Join(outputDir, filepath.Base(source)+OutputSuffix)
}

// EnsureOutputDir creates the output directory if it does not exist.
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, outputDirMode); err != nil {
		return fmt.Errorf("%w: create output directory %s: %w", ErrWriteOutput, dir, err)
	}
	return nil
}

// ReadStep loads the source document and fingerprints it.
type ReadStep struct {
	maxSize int64
}

// NewReadStep creates a ReadStep refusing files larger than maxSize bytes.
// A non-positive maxSize selects DefaultMaxFileSize.
func NewReadStep(maxSize int64) *ReadStep {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &ReadStep{maxSize: maxSize}
}

// Name returns the step name.
func (s *ReadStep) Name() string {
	return "read"
}

// Do reads result.Path as UTF-8 text and records its SHA3-256 digest.
func (s *ReadStep) Do(_ context.Context, result *model.DocumentResult) error {
	info, err := os.Stat(result.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrReadInput, result.Path)
	}
	if info.Size() > s.maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrReadInput, result.Path, info.Size(), s.maxSize)
	}

	data, err := os.ReadFile(result.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrReadInput, result.Path)
	}

	sum := sha3.Sum256(data)
	result.SourceHash = hex.EncodeToString(sum[:])
	result.Document = model.NewDocument(result.Path, string(data))
	return nil
}

// DetectStep runs the detectors and counts their detections.
type DetectStep struct {
	aggregator *redact.Aggregator
	active     model.CategorySet
}

// NewDetectStep creates a DetectStep for the active categories.
func NewDetectStep(aggregator *redact.Aggregator, active model.CategorySet) *DetectStep {
	return &DetectStep{aggregator: aggregator, active: active}
}

// Name returns the step name.
func (s *DetectStep) Name() string {
	return "detect"
}

// Do fills result.Detections and result.Counters.
func (s *DetectStep) Do(ctx context.Context, result *model.DocumentResult) error {
	if result.Document == nil {
		return ErrNoDocument
	}
	detections, counters, err := s.aggregator.Aggregate(ctx, result.Document, s.active)
	if err != nil {
		return err
	}
	result.Detections = detections
	result.Counters = counters
	return nil
}

// ResolveStep merges the detections into a redaction plan.
type ResolveStep struct{}

// NewResolveStep creates a ResolveStep.
func NewResolveStep() *ResolveStep {
	return &ResolveStep{}
}

// Name returns the step name.
func (s *ResolveStep) Name() string {
	return "resolve"
}

// Do fills result.Plan.
func (s *ResolveStep) Do(_ context.Context, result *model.DocumentResult) error {
	result.Plan = redact.Resolve(model.Spans(result.Detections))
	return nil
}

// RenderStep applies the plan to the document text.
type RenderStep struct {
	logger *slog.Logger
}

// NewRenderStep creates a RenderStep.
func NewRenderStep(logger *slog.Logger) *RenderStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderStep{logger: logger}
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do fills result.Redacted.
func (s *RenderStep) Do(_ context.Context, result *model.DocumentResult) error {
	if result.Document == nil {
		return ErrNoDocument
	}
	redacted, err := redact.Render(result.Document.Text(), result.Plan)
	if err != nil {
		return err
	}
	result.Redacted = redacted

	masked := 0
	for _, s := range result.Plan {
		masked += s.Len()
	}
	s.logger.Debug("document rendered",
		"path", result.Path,
		"detections", len(result.Detections),
		"regions", len(result.Plan),
		"masked_characters", masked,
	)
	return nil
}

// WriteStep stores the censored copy in the output directory.
type WriteStep struct {
	outputDir string
	dryRun    bool
}

// NewWriteStep creates a WriteStep. With dryRun set the output path is
// computed but nothing is written.
func NewWriteStep(outputDir string, dryRun bool) *WriteStep {
	return &WriteStep{outputDir: outputDir, dryRun: dryRun}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do writes result.Redacted to <output>/<basename>.censored.
func (s *WriteStep) Do(_ context.Context, result *model.DocumentResult) error {
	result.OutputPath = OutputPathFor(s.outputDir, result.Path)
	if s.dryRun {
		return nil
	}
	if err := os.WriteFile(result.OutputPath, []byte(result.Redacted), outputFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	result.Written = true
	return nil
}

// DocumentOptions configures the standard per-document pipeline.
type DocumentOptions struct {
	Aggregator  *redact.Aggregator
	Active      model.CategorySet
	OutputDir   string
	DryRun      bool
	MaxFileSize int64
	Logger      *slog.Logger
}

// NewDocumentPipeline builds the read, detect, resolve, render and write
// pipeline for one document.
func NewDocumentPipeline(opts DocumentOptions) *Pipeline {
	p := New(WithLogger(opts.Logger))
	p.AddSteps(
		NewReadStep(opts.MaxFileSize),
		NewDetectStep(opts.Aggregator, opts.Active),
		NewResolveStep(),
		NewRenderStep(opts.Logger),
		NewWriteStep(opts.OutputDir, opts.DryRun),
	)
	return p
}
