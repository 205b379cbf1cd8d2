// Package batch expands doublestar glob patterns into concrete file
// lists for pie's "check" subcommand, grounded on the teacher's
// core/filewalker.go use of bmatcuk/doublestar for ignore-pattern
// matching.
package batch

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves each pattern (a plain path or a doublestar glob like
// "**/*.pie") against the filesystem and returns the deduplicated,
// sorted union of matches. A pattern that doesn't match anything (a
// plain path or a glob) is passed through unchanged, so a single
// explicit file path always works even if it doesn't exist yet (the
// driver reports that as a read error instead of silently no-op'ing).
func Expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			if !seen[pattern] {
				seen[pattern] = true
				out = append(out, pattern)
			}
			continue
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
