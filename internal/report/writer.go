package report

import (
	"errors"
	"io"
	"strings"

	"github.com/nao1215/redactor/internal/model"
)

// Format names accepted by NewWriter.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = errors.New("unknown statistics format")

// Writer defines the interface for statistics output.
type Writer interface {
	// Write renders the run's statistics.
	// Returns the number of bytes written and any error encountered.
	Write(run *model.Run) (int, error)
}

// NewWriter returns the writer for format. An empty format selects text.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, ErrUnknownFormat
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// counters returns the run tally, never nil.
func counters(run *model.Run) *model.Counters {
	if run == nil || run.Counters == nil {
		return model.NewCounters()
	}
	return run.Counters
}
