package redact

import (
	"fmt"

	"github.com/nao1215/redactor/internal/model"
)

// MaskGlyph replaces every redacted character.
const MaskGlyph = '█'

// Render applies plan to text. Each covered character becomes MaskGlyph
// except the line breaks '\n' and '\r', which are kept so CRLF documents
// keep their line endings. The output has as many characters as text.
//
// A plan span that is empty, inverted or reaches past the end of text is an
// error wrapping ErrSpanOutOfRange; the text is never silently truncated.
func Render(text string, plan []model.Span) (string, error) {
	runes := []rune(text)
	for _, s := range plan {
		if s.Check() != nil || s.End > len(runes) {
			return "", fmt.Errorf("%w: %s, text has %d characters", ErrSpanOutOfRange, s, len(runes))
		}
	}

	for _, s := range plan {
		for i := s.Start; i < s.End; i++ {
			if !isLineBreak(runes[i]) {
				runes[i] = MaskGlyph
			}
		}
	}
	return string(runes), nil
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}
