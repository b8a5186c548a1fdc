package report

import (
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/nao1215/redactor/internal/model"
)

// JSONWriter outputs statistics as a single JSON object.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Summary is the JSON shape of a run's statistics.
type Summary struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Categories []string       `json:"categories"`
	Concepts   int            `json:"concepts"`
	Documents  int            `json:"documents"`
	Failed     int            `json:"failed"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
}

// NewSummary builds the JSON summary of run. Every category appears in
// Counts, including those with a zero count.
func NewSummary(run *model.Run) *Summary {
	c := counters(run)
	s := &Summary{
		Categories: []string{},
		Counts:     c.Map(),
		Total:      c.Total(),
	}
	if run != nil {
		s.RunID = run.ID
		s.StartedAt = run.StartedAt
		s.FinishedAt = run.FinishedAt
		s.Concepts = run.Concepts
		s.Documents = run.Documents
		s.Failed = run.Failed
		if run.Categories != nil {
			s.Categories = run.Categories
		}
	}
	return s
}

// Write outputs the run summary in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	return w.writeJSON(NewSummary(run))
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
