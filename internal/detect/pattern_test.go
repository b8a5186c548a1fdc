package detect

import (
	"context"
	"reflect"
	"testing"

	"github.com/nao1215/redactor/internal/model"
)

func detectPatterns(t *testing.T, text string, cats ...model.Category) []model.Detection {
	t.Helper()

	doc := model.NewDocument("doc.txt", text)
	got, err := NewPatternDetector().Detect(context.Background(), doc, model.NewCategorySet(cats...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}

func countCategory(detections []model.Detection, cat model.Category) int {
	n := 0
	for _, d := range detections {
		if d.Category == cat {
			n++
		}
	}
	return n
}

func TestPatternDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		active    []model.Category
		wantCount map[model.Category]int
		wantTexts []string
	}{
		{
			name:      "no sensitive information",
			text:      "No sensitive information here.",
			active:    model.AllCategories(),
			wantCount: map[model.Category]int{},
		},
		{
			name:      "capitalized name sequences",
			text:      "Meet John Doe and Jane Smith.",
			active:    []model.Category{model.CategoryNames},
			wantCount: map[model.Category]int{model.CategoryNames: 2},
			wantTexts: []string{"Meet John Doe", "Jane Smith"},
		},
		{
			name:      "email local part names",
			text:      "Write to jane_doe@example.com today",
			active:    []model.Category{model.CategoryNames},
			wantCount: map[model.Category]int{model.CategoryNames: 2},
			wantTexts: []string{"jane", "doe"},
		},
		{
			name:      "parenthesized and dotted phones",
			text:      "Contact me at (123) 456-7890 or 987.654.3210.",
			active:    []model.Category{model.CategoryPhones},
			wantCount: map[model.Category]int{model.CategoryPhones: 2},
			wantTexts: []string{"(123) 456-7890", "987.654.3210"},
		},
		{
			name:      "international phones",
			text:      "Dial +1 123-456-7890 or +441234567890 now",
			active:    []model.Category{model.CategoryPhones},
			wantCount: map[model.Category]int{model.CategoryPhones: 2},
			wantTexts: []string{"+1 123-456-7890", "+441234567890"},
		},
		{
			name:      "numeric dates",
			text:      "The meeting is scheduled for 14-08-2020 and 08/14/2020.",
			active:    []model.Category{model.CategoryDates},
			wantCount: map[model.Category]int{model.CategoryDates: 2},
			wantTexts: []string{"14-08-2020", "08/14/2020"},
		},
		{
			name:      "written dates",
			text:      "Born march 10, 1985 and moved Dec 1 2001.",
			active:    []model.Category{model.CategoryDates},
			wantCount: map[model.Category]int{model.CategoryDates: 2},
			wantTexts: []string{"march 10, 1985", "Dec 1 2001"},
		},
		{
			name:      "street address with abbreviation",
			text:      "Visit us at 789 Elm St., Springfield, IL 62704.",
			active:    []model.Category{model.CategoryAddresses},
			wantCount: map[model.Category]int{model.CategoryAddresses: 1},
			wantTexts: []string{"789 Elm St."},
		},
		{
			name:      "address requires a suffix",
			text:      "Meeting at 530 Broadway, San Diego.",
			active:    []model.Category{model.CategoryAddresses},
			wantCount: map[model.Category]int{},
		},
		{
			name:      "address stays on one line",
			text:      "Apt 12\nMain Street",
			active:    []model.Category{model.CategoryAddresses},
			wantCount: map[model.Category]int{},
		},
		{
			name:   "inactive categories are skipped",
			text:   "John Doe called 123-456-7890 on 05/20/2021.",
			active: []model.Category{model.CategoryPhones},
			wantCount: map[model.Category]int{
				model.CategoryPhones: 1,
			},
			wantTexts: []string{"123-456-7890"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := detectPatterns(t, tt.text, tt.active...)
			for _, cat := range model.AllCategories() {
				if n := countCategory(got, cat); n != tt.wantCount[cat] {
					t.Errorf("expected %d %s detections, got %d (%v)", tt.wantCount[cat], cat, n, got)
				}
			}

			runes := []rune(tt.text)
			var texts []string
			for _, d := range got {
				texts = append(texts, string(runes[d.Start:d.End]))
			}
			if tt.wantTexts != nil && !reflect.DeepEqual(texts, tt.wantTexts) {
				t.Errorf("expected matches %q, got %q", tt.wantTexts, texts)
			}
		})
	}
}

func TestPatternDetector_OverlappingRules(t *testing.T) {
	t.Parallel()

	got := detectPatterns(t, "Johnathan Doe's phone is 1234567890 and he lives at 123 Main St.", model.AllCategories()...)

	want := []model.Detection{
		{Span: model.Span{Start: 0, End: 13}, Category: model.CategoryNames, Source: NamePattern},
		{Span: model.Span{Start: 56, End: 63}, Category: model.CategoryNames, Source: NamePattern},
		{Span: model.Span{Start: 25, End: 35}, Category: model.CategoryPhones, Source: NamePattern},
		{Span: model.Span{Start: 52, End: 64}, Category: model.CategoryAddresses, Source: NamePattern},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestPatternDetector_CharacterOffsets(t *testing.T) {
	t.Parallel()

	got := detectPatterns(t, "Café owner Jean Dupont called 555-123-4567",
		model.CategoryNames, model.CategoryPhones)

	want := []model.Span{{Start: 11, End: 22}, {Start: 30, End: 42}}
	if !reflect.DeepEqual(model.Spans(got), want) {
		t.Errorf("expected spans %v, got %v", want, model.Spans(got))
	}
}
