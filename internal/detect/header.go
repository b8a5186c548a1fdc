package detect

import (
	"context"
	"regexp"

	"github.com/nao1215/redactor/internal/model"
)

var (
	// headerLine matches an address header and captures its value.
	headerLine = regexp.MustCompile(`(?im)^(From|To|Cc|Bcc|X-From|X-To|X-cc|X-bcc):\s*(.*)`)

	// headerName matches runs of capitalized words inside a header value.
	headerName = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)*\b`)

	// headerEmail matches an email address and captures its local part.
	headerEmail = regexp.MustCompile(`(?i)\b([\w.-]+)@([\w.-]+\.\w+)\b`)
)

// HeaderDetector extracts person names from email address headers.
// It emits only names and does nothing when names are inactive.
type HeaderDetector struct{}

// NewHeaderDetector creates a HeaderDetector.
func NewHeaderDetector() *HeaderDetector {
	return &HeaderDetector{}
}

// Name returns the detector name.
func (d *HeaderDetector) Name() string {
	return NameHeader
}

// Detect scans every header line. Capitalized word runs in the value are
// names, and so is every alphabetic token of an email local part.
func (d *HeaderDetector) Detect(ctx context.Context, doc *model.Document, active model.CategorySet) ([]model.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !active.Has(model.CategoryNames) {
		return nil, nil
	}

	text := doc.Text()
	var out []model.Detection
	for _, m := range headerLine.FindAllStringSubmatchIndex(text, -1) {
		valueStart, valueEnd := m[4], m[5]
		if valueStart < 0 {
			continue
		}
		value := text[valueStart:valueEnd]

		for _, nm := range headerName.FindAllStringIndex(value, -1) {
			out = append(out, model.Detection{
				Span:     doc.SpanFromBytes(valueStart+nm[0], valueStart+nm[1]),
				Category: model.CategoryNames,
				Source:   NameHeader,
			})
		}

		for _, em := range headerEmail.FindAllStringSubmatchIndex(value, -1) {
			local := value[em[2]:em[3]]
			out = append(out, localPartNames(doc, valueStart+em[2], local, NameHeader)...)
		}
	}
	return out, nil
}
