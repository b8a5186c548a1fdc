package model

import (
	"testing"
)

func TestCategory(t *testing.T) {
	t.Parallel()

	t.Run("String returns correct value", func(t *testing.T) {
		t.Parallel()
		if got := CategoryNames.String(); got != "names" {
			t.Errorf("expected names, got %s", got)
		}
		if got := CategoryUnknown.String(); got != "unknown" {
			t.Errorf("expected unknown, got %s", got)
		}
	})

	t.Run("IsValid returns true for known categories", func(t *testing.T) {
		t.Parallel()
		for _, c := range AllCategories() {
			if !c.IsValid() {
				t.Errorf("expected %s to be valid", c)
			}
		}
		if CategoryUnknown.IsValid() {
			t.Error("expected unknown to be invalid")
		}
		if Category("ssn").IsValid() {
			t.Error("expected ssn to be invalid")
		}
	})

	t.Run("Label matches stats report wording", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			category Category
			want     string
		}{
			{CategoryNames, "Names"},
			{CategoryDates, "Dates"},
			{CategoryPhones, "Phone numbers"},
			{CategoryAddresses, "Addresses"},
			{CategoryConcepts, "Concepts"},
		}
		for _, tt := range tests {
			if got := tt.category.Label(); got != tt.want {
				t.Errorf("%s.Label() = %q, want %q", tt.category, got, tt.want)
			}
		}
	})

	t.Run("ParseCategory parses correctly", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			input string
			want  Category
		}{
			{"names", CategoryNames},
			{"Dates", CategoryDates},
			{" phones ", CategoryPhones},
			{"address", CategoryAddresses},
			{"addresses", CategoryAddresses},
			{"concept", CategoryConcepts},
			{"invalid", CategoryUnknown},
			{"", CategoryUnknown},
		}
		for _, tt := range tests {
			if got := ParseCategory(tt.input); got != tt.want {
				t.Errorf("ParseCategory(%q) = %v, want %v", tt.input, got, tt.want)
			}
		}
	})
}

func TestCategorySet(t *testing.T) {
	t.Parallel()

	t.Run("zero value is empty", func(t *testing.T) {
		t.Parallel()
		var s CategorySet
		if s.Len() != 0 {
			t.Errorf("expected empty set, got %d members", s.Len())
		}
		if s.Has(CategoryNames) {
			t.Error("expected empty set not to contain names")
		}
	})

	t.Run("ignores unknown categories", func(t *testing.T) {
		t.Parallel()
		s := NewCategorySet(CategoryNames, Category("bogus"), CategoryUnknown)
		if s.Len() != 1 {
			t.Errorf("expected 1 member, got %d", s.Len())
		}
	})

	t.Run("Slice returns report order", func(t *testing.T) {
		t.Parallel()
		s := NewCategorySet(CategoryConcepts, CategoryPhones, CategoryNames, CategoryPhones)
		got := s.Strings()
		want := []string{"names", "phones", "concepts"}
		if len(got) != len(want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
			}
		}
	})
}
