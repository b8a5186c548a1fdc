package detect

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/nao1215/redactor/internal/model"
)

// Detector names used in logs and in model.Detection.Source.
const (
	NameHeader      = "header"
	NameNER         = "ner"
	NameTransformer = "transformer"
	NamePattern     = "pattern"
	NameConcept     = "concept"
)

// Detector finds candidate spans in a document.
//
// Implementations must only emit categories present in active, may emit no
// spans at all, and must return an error rather than a partial result when
// they cannot finish. The caller fails the whole document on error.
type Detector interface {
	// Name returns the detector's name for logging.
	Name() string

	// Detect returns the candidate spans found in doc.
	Detect(ctx context.Context, doc *model.Document, active model.CategorySet) ([]model.Detection, error)
}

// localPartSplit separates the name tokens of an email local part.
var localPartSplit = regexp.MustCompile(`[._]`)

// localPartNames returns a name detection for every purely alphabetic token
// of an email local part. localStart is the byte offset of the local part in
// the document. The cursor advances past every token and its separator, so
// tokens such as "2019" or "" still shift the following offsets.
func localPartNames(doc *model.Document, localStart int, local, source string) []model.Detection {
	var out []model.Detection
	cursor := localStart
	for _, part := range localPartSplit.Split(local, -1) {
		if isAlpha(part) {
			out = append(out, model.Detection{
				Span:     doc.SpanFromBytes(cursor, cursor+len(part)),
				Category: model.CategoryNames,
				Source:   source,
			})
		}
		cursor += len(part) + 1
	}
	return out
}

// isAlpha reports whether s is non-empty and made only of letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) < 0
}
