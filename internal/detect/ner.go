package detect

import (
	"context"
	"strings"

	"github.com/nao1215/redactor/internal/model"
)

// Entity is a labelled character range reported by a Recognizer.
type Entity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// Recognizer is a statistical entity recognizer, usually a sidecar service.
// Implementations must be safe for concurrent use; one handle is shared by
// every worker of a run.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, text string) ([]Entity, error)

// Recognize calls f(ctx, text).
func (f RecognizerFunc) Recognize(ctx context.Context, text string) ([]Entity, error) {
	return f(ctx, text)
}

// LabelMap maps recognizer labels to redaction categories.
// A LabelMap is immutable once built.
type LabelMap struct {
	labels map[string]model.Category
}

// NewLabelMap copies the given table into a LabelMap.
// Labels are compared upper-case.
func NewLabelMap(table map[string]model.Category) LabelMap {
	labels := make(map[string]model.Category, len(table))
	for label, cat := range table {
		labels[strings.ToUpper(label)] = cat
	}
	return LabelMap{labels: labels}
}

// Lookup returns the category for a label. IOB prefixes ("B-PER", "I-PER")
// are stripped before the lookup.
func (m LabelMap) Lookup(label string) (model.Category, bool) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) > 2 && (label[:2] == "B-" || label[:2] == "I-") {
		label = label[2:]
	}
	cat, ok := m.labels[label]
	return cat, ok
}

// Categories returns the distinct categories the map can produce.
func (m LabelMap) Categories() model.CategorySet {
	var set model.CategorySet
	for _, cat := range m.labels {
		set.Add(cat)
	}
	return set
}

// Label tables for the two recognizers.
var (
	// GeneralLabels maps the general-purpose recognizer's labels.
	GeneralLabels = NewLabelMap(map[string]model.Category{
		"PERSON": model.CategoryNames,
		"DATE":   model.CategoryDates,
		"PHONE":  model.CategoryPhones,
		"GPE":    model.CategoryAddresses,
		"LOC":    model.CategoryAddresses,
	})

	// TransformerLabels maps the transformer recognizer's labels.
	TransformerLabels = NewLabelMap(map[string]model.Category{
		"PER": model.CategoryNames,
		"LOC": model.CategoryAddresses,
	})
)

// NERDetector turns the entities of a Recognizer into detections.
type NERDetector struct {
	name       string
	recognizer Recognizer
	labels     LabelMap
}

// NewNERDetector creates a detector named name that maps the recognizer's
// entities through labels.
func NewNERDetector(name string, recognizer Recognizer, labels LabelMap) *NERDetector {
	return &NERDetector{
		name:       name,
		recognizer: recognizer,
		labels:     labels,
	}
}

// Name returns the detector name.
func (d *NERDetector) Name() string {
	return d.name
}

// Detect sends the whole document to the recognizer. Entities whose label is
// unmapped, or mapped to an inactive category, are ignored. The recognizer is
// not called at all when none of its categories are active. Offsets are
// passed through as reported; the aggregator rejects spans outside the
// document.
func (d *NERDetector) Detect(ctx context.Context, doc *model.Document, active model.CategorySet) ([]model.Detection, error) {
	if d.recognizer == nil {
		return nil, ErrNilRecognizer
	}
	if !d.wants(active) {
		return nil, nil
	}

	entities, err := d.recognizer.Recognize(ctx, doc.Text())
	if err != nil {
		return nil, err
	}

	out := make([]model.Detection, 0, len(entities))
	for _, e := range entities {
		cat, ok := d.labels.Lookup(e.Label)
		if !ok || !active.Has(cat) {
			continue
		}
		out = append(out, model.Detection{
			Span:     model.Span{Start: e.Start, End: e.End},
			Category: cat,
			Source:   d.name,
		})
	}
	return out, nil
}

func (d *NERDetector) wants(active model.CategorySet) bool {
	for _, cat := range d.labels.Categories().Slice() {
		if active.Has(cat) {
			return true
		}
	}
	return false
}
