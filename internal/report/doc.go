// Package report renders redaction statistics.
//
// Three formats are provided:
//   - SimpleWriter: the five line "Names redacted: N" report
//   - JSONWriter: counts plus run metadata for tool integration
//   - MarkdownWriter: a table suitable for pasting into tickets or wikis
//
// Emit resolves a statistics destination (stderr, stdout or a file path)
// and writes the run with the selected format.
package report
