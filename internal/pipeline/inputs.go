package pipeline

import "path/filepath"

// ExpandInputs expands glob patterns into a list of paths.
//
// Matches keep the order of the patterns and duplicates are dropped. A
// pattern that matches nothing, malformed ones included, is reported through
// onEmpty and skipped; the remaining patterns are still expanded.
func ExpandInputs(patterns []string, onEmpty func(pattern string)) []string {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			if onEmpty != nil {
				onEmpty(pattern)
			}
			continue
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	return paths
}
