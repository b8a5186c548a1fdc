package model

import (
	"sort"
	"strings"
)

// categoryUnknownStr is the string representation for unknown category values.
const categoryUnknownStr = "unknown"

// Category classifies why a region of a document is redacted.
type Category string

// Redaction category constants.
const (
	// CategoryUnknown represents an unrecognized category.
	CategoryUnknown Category = ""
	// CategoryNames covers person names.
	CategoryNames Category = "names"
	// CategoryDates covers calendar dates.
	CategoryDates Category = "dates"
	// CategoryPhones covers phone numbers.
	CategoryPhones Category = "phones"
	// CategoryAddresses covers street addresses and locations.
	CategoryAddresses Category = "addresses"
	// CategoryConcepts covers whole sentences mentioning a user-supplied concept.
	CategoryConcepts Category = "concepts"
)

// AllCategories returns every known category in report order.
func AllCategories() []Category {
	return []Category{
		CategoryNames,
		CategoryDates,
		CategoryPhones,
		CategoryAddresses,
		CategoryConcepts,
	}
}

// String returns the string representation of the Category.
func (c Category) String() string {
	if c == CategoryUnknown {
		return categoryUnknownStr
	}
	return string(c)
}

// IsValid returns true if this is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryNames, CategoryDates, CategoryPhones, CategoryAddresses, CategoryConcepts:
		return true
	default:
		return false
	}
}

// Label returns the human-readable label used in the stats report.
func (c Category) Label() string {
	switch c {
	case CategoryNames:
		return "Names"
	case CategoryDates:
		return "Dates"
	case CategoryPhones:
		return "Phone numbers"
	case CategoryAddresses:
		return "Addresses"
	case CategoryConcepts:
		return "Concepts"
	default:
		return "Unknown"
	}
}

// order returns the position of the category in report order.
func (c Category) order() int {
	for i, known := range AllCategories() {
		if c == known {
			return i
		}
	}
	return len(AllCategories())
}

// ParseCategory converts a string to a Category.
// The CLI flag spelling "address" is accepted as an alias for addresses.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "names", "name":
		return CategoryNames
	case "dates", "date":
		return CategoryDates
	case "phones", "phone":
		return CategoryPhones
	case "addresses", "address":
		return CategoryAddresses
	case "concepts", "concept":
		return CategoryConcepts
	default:
		return CategoryUnknown
	}
}

// CategorySet is the set of categories active for a redaction run.
// The zero value is an empty set ready for use.
type CategorySet struct {
	members map[Category]struct{}
}

// NewCategorySet creates a set containing the given categories.
// Unknown categories are ignored.
func NewCategorySet(categories ...Category) CategorySet {
	var s CategorySet
	for _, c := range categories {
		s.Add(c)
	}
	return s
}

// Add inserts a category into the set. Unknown categories are ignored.
func (s *CategorySet) Add(c Category) {
	if !c.IsValid() {
		return
	}
	if s.members == nil {
		s.members = make(map[Category]struct{})
	}
	s.members[c] = struct{}{}
}

// Has reports whether the category is active.
func (s CategorySet) Has(c Category) bool {
	_, ok := s.members[c]
	return ok
}

// Len returns the number of active categories.
func (s CategorySet) Len() int {
	return len(s.members)
}

// Slice returns the active categories in report order.
func (s CategorySet) Slice() []Category {
	out := make([]Category, 0, len(s.members))
	for c := range s.members {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].order() < out[j].order()
	})
	return out
}

// Strings returns the active categories as strings in report order.
func (s CategorySet) Strings() []string {
	cats := s.Slice()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.String()
	}
	return out
}
