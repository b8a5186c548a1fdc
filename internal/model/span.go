package model

import "fmt"

// Span is a half-open interval [Start, End) of character offsets into a document.
// Offsets count Unicode code points, not bytes.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Check asserts that the span has a positive, non-zero length.
func (s Span) Check() error {
	if s.Start >= 0 && s.Start < s.End {
		return nil
	}
	return fmt.Errorf("bad span: start must precede end [%d,%d)", s.Start, s.End)
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the character offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Overlaps reports whether the two spans share at least one character.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Touches reports whether the two spans overlap or are directly adjacent.
func (s Span) Touches(other Span) bool {
	return s.Start <= other.End && other.Start <= s.End
}

// String formats the span as [start,end).
func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Detection is a candidate span emitted by a detector together with the
// category that justified it.
type Detection struct {
	Span

	// Category is the reason the span should be redacted.
	Category Category `json:"category"`

	// Source is the name of the detector that produced the span.
	Source string `json:"source,omitempty"`
}

// Spans strips categories from detections, keeping their order.
func Spans(detections []Detection) []Span {
	out := make([]Span, len(detections))
	for i, d := range detections {
		out[i] = d.Span
	}
	return out
}
