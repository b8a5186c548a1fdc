package redact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/redactor/internal/detect"
	"github.com/nao1215/redactor/internal/model"
)

// Aggregator runs a list of detectors over a document and counts what
// they find. Detectors run sequentially in registration order.
//
// An Aggregator is safe for concurrent use once registration is done; it
// keeps no per-document state.
type Aggregator struct {
	detectors []detect.Detector
	logger    *slog.Logger
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithLogger sets the logger used for dropped spans.
func WithLogger(logger *slog.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an Aggregator with no detectors.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register appends a detector. Nil detectors are ignored.
func (a *Aggregator) Register(d detect.Detector) {
	if d == nil {
		return
	}
	a.detectors = append(a.detectors, d)
}

// Detectors returns the names of the registered detectors in run order.
func (a *Aggregator) Detectors() []string {
	names := make([]string, len(a.detectors))
	for i, d := range a.detectors {
		names[i] = d.Name()
	}
	return names
}

// Aggregate runs every detector and returns the accepted detections in
// detector order, together with one count per accepted detection.
//
// Detections are not deduplicated. Empty or inverted spans, and spans of a
// category that is not active, are dropped with a warning and not counted.
// A span outside the document fails the whole document, as does any
// detector error; both come back as a *DetectorError.
func (a *Aggregator) Aggregate(ctx context.Context, doc *model.Document, active model.CategorySet) ([]model.Detection, *model.Counters, error) {
	counters := model.NewCounters()
	var accepted []model.Detection

	for _, d := range a.detectors {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		found, err := d.Detect(ctx, doc, active)
		if err != nil {
			return nil, nil, &DetectorError{Detector: d.Name(), Err: err}
		}

		kept := 0
		for _, det := range found {
			if err := det.Check(); err != nil {
				a.logger.Warn("dropping invalid span",
					"detector", d.Name(),
					"path", doc.Path,
					"span", det.Span.String(),
				)
				continue
			}
			if !doc.InBounds(det.Span) {
				return nil, nil, &DetectorError{
					Detector: d.Name(),
					Err: fmt.Errorf("%w: %s in document of %d characters",
						ErrSpanOutOfRange, det.Span, doc.Len()),
				}
			}
			if !active.Has(det.Category) {
				a.logger.Warn("dropping span of inactive category",
					"detector", d.Name(),
					"path", doc.Path,
					"category", det.Category.String(),
				)
				continue
			}

			counters.Inc(det.Category)
			accepted = append(accepted, det)
			kept++
		}

		a.logger.Debug("detector finished",
			"detector", d.Name(),
			"path", doc.Path,
			"detections", kept,
		)
	}
	return accepted, counters, nil
}

// Recognizers holds the optional statistical recognizers of a run.
// A nil recognizer disables its detector.
type Recognizers struct {
	General     detect.Recognizer
	Transformer detect.Recognizer
}

// NewStandardAggregator registers the built-in detectors in their fixed order:
// header, general NER, transformer NER, pattern, concept.
func NewStandardAggregator(recognizers Recognizers, concepts []string, opts ...AggregatorOption) *Aggregator {
	a := NewAggregator(opts...)
	a.Register(detect.NewHeaderDetector())
	if recognizers.General != nil {
		a.Register(detect.NewNERDetector(detect.NameNER, recognizers.General, detect.GeneralLabels))
	}
	if recognizers.Transformer != nil {
		a.Register(detect.NewNERDetector(detect.NameTransformer, recognizers.Transformer, detect.TransformerLabels))
	}
	a.Register(detect.NewPatternDetector())
	a.Register(detect.NewConceptDetector(concepts))
	return a
}
