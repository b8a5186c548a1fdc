package model

import "fmt"

// Counters tallies redactions per category.
//
// Counters only ever grow. They count detections, not masked regions: two
// detectors that flag the same name both increment CategoryNames even though
// the overlapping ranges collapse into a single mask.
//
// Counters is not safe for concurrent use. Concurrent workers keep a local
// Counters per document and Merge it into a shared tally under their own lock.
type Counters struct {
	counts map[Category]int
}

// NewCounters creates an empty set of counters.
func NewCounters() *Counters {
	return &Counters{counts: make(map[Category]int)}
}

// Inc increments the counter for the category by one.
func (c *Counters) Inc(cat Category) {
	c.Add(cat, 1)
}

// Add increments the counter for the category by n.
// Negative increments and unknown categories are ignored.
func (c *Counters) Add(cat Category, n int) {
	if n <= 0 || !cat.IsValid() {
		return
	}
	if c.counts == nil {
		c.counts = make(map[Category]int)
	}
	c.counts[cat] += n
}

// Get returns the current count for the category.
func (c *Counters) Get(cat Category) int {
	if c == nil {
		return 0
	}
	return c.counts[cat]
}

// Total returns the sum of all category counts.
func (c *Counters) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Merge adds every count from other into c.
func (c *Counters) Merge(other *Counters) {
	if other == nil {
		return
	}
	for cat, n := range other.counts {
		c.Add(cat, n)
	}
}

// Map returns a copy of the counts keyed by category name.
// Every known category is present, including those with a zero count.
func (c *Counters) Map() map[string]int {
	out := make(map[string]int, len(AllCategories()))
	for _, cat := range AllCategories() {
		out[cat.String()] = c.Get(cat)
	}
	return out
}

// CountersFromMap rebuilds counters from a category-name keyed map.
// Unknown keys are ignored.
func CountersFromMap(m map[string]int) *Counters {
	c := NewCounters()
	for k, n := range m {
		c.Add(ParseCategory(k), n)
	}
	return c
}

// String returns a compact single-line summary.
func (c *Counters) String() string {
	return fmt.Sprintf("names=%d dates=%d phones=%d addresses=%d concepts=%d",
		c.Get(CategoryNames),
		c.Get(CategoryDates),
		c.Get(CategoryPhones),
		c.Get(CategoryAddresses),
		c.Get(CategoryConcepts),
	)
}
