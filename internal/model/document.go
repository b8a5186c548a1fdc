package model

import (
	"unicode/utf8"
)

// Document is an immutable text read once from a source path.
//
// Detectors that work on byte offsets (Go's regexp package) convert them to
// character offsets with RuneOffset so that every span in the system uses the
// same unit.
type Document struct {
	// Path is the source path the text was read from.
	Path string

	// text is the full document content.
	text string

	// runeAt maps a byte offset to the index of the rune starting there.
	// It has len(text)+1 entries so the end offset is addressable.
	runeAt []int

	// runeCount is the number of characters in the document.
	runeCount int
}

// NewDocument builds a Document and its byte-to-character offset index.
func NewDocument(path, text string) *Document {
	runeAt := make([]int, len(text)+1)
	n := 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		for j := 0; j < size; j++ {
			runeAt[i+j] = n
		}
		i += size
		n++
	}
	runeAt[len(text)] = n

	return &Document{
		Path:      path,
		text:      text,
		runeAt:    runeAt,
		runeCount: n,
	}
}

// Text returns the document content.
func (d *Document) Text() string {
	return d.text
}

// Len returns the number of characters in the document.
func (d *Document) Len() int {
	return d.runeCount
}

// RuneOffset converts a byte offset into a character offset.
// Offsets outside the text are clamped to its bounds.
func (d *Document) RuneOffset(byteOffset int) int {
	switch {
	case byteOffset <= 0:
		return 0
	case byteOffset >= len(d.text):
		return d.runeCount
	default:
		return d.runeAt[byteOffset]
	}
}

// SpanFromBytes converts a byte range, as returned by regexp index methods,
// into a character Span.
func (d *Document) SpanFromBytes(start, end int) Span {
	return Span{Start: d.RuneOffset(start), End: d.RuneOffset(end)}
}

// InBounds reports whether the span lies entirely inside the document.
func (d *Document) InBounds(s Span) bool {
	return s.Start >= 0 && s.End <= d.runeCount
}
