package redact

import (
	"cmp"
	"slices"

	"github.com/nao1215/redactor/internal/model"
)

// Resolve merges spans into a redaction plan.
//
// The result is sorted by start and every span ends strictly before the
// next one begins. Spans that overlap or touch (one ends where the next
// starts) are merged. The input is not modified. An empty input yields an
// empty, non-nil plan.
func Resolve(spans []model.Span) []model.Span {
	plan := make([]model.Span, 0, len(spans))
	if len(spans) == 0 {
		return plan
	}

	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b model.Span) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	plan = append(plan, sorted[0])
	for _, cur := range sorted[1:] {
		last := &plan[len(plan)-1]
		if cur.Start <= last.End {
			last.End = max(last.End, cur.End)
			continue
		}
		plan = append(plan, cur)
	}
	return plan
}
