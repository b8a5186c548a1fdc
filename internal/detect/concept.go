package detect

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/nao1215/redactor/internal/model"
)

// ConceptDetector selects whole sentences that mention one of a set of
// phrases. Matching is case-insensitive and on whole words only, so the
// phrase "confidential" does not select "confidentiality".
type ConceptDetector struct {
	phrases []string
	fold    cases.Caser
	pattern *regexp.Regexp
}

// NewConceptDetector creates a detector for the given phrases.
// Phrases are trimmed, case folded and deduplicated; blank phrases are
// dropped. With no phrases left the detector never emits anything.
func NewConceptDetector(phrases []string) *ConceptDetector {
	fold := cases.Fold()
	d := &ConceptDetector{fold: fold}

	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = fold.String(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		d.phrases = append(d.phrases, p)
	}
	if len(d.phrases) == 0 {
		return d
	}

	quoted := make([]string, len(d.phrases))
	for i, p := range d.phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	// \b is ASCII-only in RE2, so word edges are spelled out to keep
	// phrases such as "café" whole-word.
	d.pattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` +
		strings.Join(quoted, "|") + `)(?:$|[^\p{L}\p{N}_])`)
	return d
}

// Name returns the detector name.
func (d *ConceptDetector) Name() string {
	return NameConcept
}

// Phrases returns the normalized phrases.
func (d *ConceptDetector) Phrases() []string {
	out := make([]string, len(d.phrases))
	copy(out, d.phrases)
	return out
}

// Detect emits one concepts span per sentence unit containing a phrase.
func (d *ConceptDetector) Detect(ctx context.Context, doc *model.Document, active model.CategorySet) ([]model.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d.pattern == nil || !active.Has(model.CategoryConcepts) {
		return nil, nil
	}

	runes := []rune(doc.Text())
	var out []model.Detection
	for _, unit := range SentenceUnits(runes) {
		if d.pattern.MatchString(d.fold.String(string(runes[unit.Start:unit.End]))) {
			out = append(out, model.Detection{
				Span:     unit,
				Category: model.CategoryConcepts,
				Source:   NameConcept,
			})
		}
	}
	return out, nil
}

// SentenceUnits splits text into consecutive sentence units covering all of it.
//
// A unit always takes its first character. It then ends after a '.', '!' or
// '?' that is followed by whitespace, after a newline, or at the end of the
// text. The split is a heuristic: abbreviations like "Mr. Smith" end a unit.
func SentenceUnits(runes []rune) []model.Span {
	var units []model.Span
	start := 0
	for start < len(runes) {
		end := len(runes)
		for p := start + 1; p < len(runes); p++ {
			r := runes[p]
			if r == '\n' {
				end = p + 1
				break
			}
			if (r == '.' || r == '!' || r == '?') && p+1 < len(runes) && unicode.IsSpace(runes[p+1]) {
				end = p + 1
				break
			}
		}
		units = append(units, model.Span{Start: start, End: end})
		start = end
	}
	return units
}
