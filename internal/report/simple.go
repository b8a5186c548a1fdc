package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/redactor/internal/model"
)

// SimpleWriter outputs the plain text statistics report: one
// "<Label> redacted: N" line per category, always all five, in report order.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the five statistics lines.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	return io.WriteString(w.output, FormatLines(counters(run)))
}

// FormatLines returns the canonical five line statistics block.
func FormatLines(c *model.Counters) string {
	var sb strings.Builder
	for _, cat := range model.AllCategories() {
		sb.WriteString(fmt.Sprintf("%s redacted: %d\n", cat.Label(), c.Get(cat)))
	}
	return sb.String()
}
