package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/redactor/internal/model"
)

// MarkdownWriter outputs statistics as a Markdown document built with
// nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the run statistics in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeCounts(md, counters(run))
	w.writeFooter(md, run)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Redaction Statistics")
	md.PlainText("")

	if run == nil {
		return
	}

	rows := [][]string{
		{"Run", "`" + run.ID + "`"},
		{"Documents", strconv.Itoa(run.Documents)},
		{"Failed", strconv.Itoa(run.Failed)},
		{"Concept phrases", strconv.Itoa(run.Concepts)},
	}
	if !run.StartedAt.IsZero() {
		rows = append(rows, []string{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, c *model.Counters) {
	md.H2("Redactions")
	md.PlainText("")

	cats := model.AllCategories()
	rows := make([][]string, 0, len(cats)+1)
	for _, cat := range cats {
		rows = append(rows, []string{cat.Label(), strconv.Itoa(c.Get(cat))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(c.Total()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Category", "Redacted"},
		Rows:   rows,
	})
	md.PlainText("")

	if c.Total() > 0 {
		w.writePieChart(md, c)
	}
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, c *model.Counters) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Redactions by Category"),
		piechart.WithShowData(true),
	)
	for _, cat := range model.AllCategories() {
		if n := c.Get(cat); n > 0 {
			chart.LabelAndIntValue(cat.Label(), uint64(n))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, run *model.Run) {
	if run != nil && run.Failed > 0 {
		md.Warningf("%d document(s) could not be redacted. Detections made before a failure are counted.", run.Failed)
		md.PlainText("")
	}
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by redactor*")
}
