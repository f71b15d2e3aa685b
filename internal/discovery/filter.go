package discovery

import (
	"iter"
	"path"
	"strings"

	"caserun/internal/domain"
)

var globEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

// Filter selects test cases by name pattern
type Filter struct {
	pattern string
}

// NewFilter creates a Filter for pattern. An empty pattern matches everything.
func NewFilter(pattern string) *Filter {
	return &Filter{pattern: pattern}
}

// Match reports whether name matches the pattern.
// Supports patterns like "test*", "*Launch*" or a plain substring.
func (f *Filter) Match(name string) bool {
	pattern := f.pattern
	if pattern == "" {
		return true
	}

	// Try glob matching first (supports * and ? wildcards). Brackets are literal
	// so configuration suffixes like "[dark]" are not read as character classes.
	if matched, err := path.Match(globEscaper.Replace(pattern), name); err == nil && matched {
		return true
	}

	// Flexible match for patterns like "*Launch*": every non-empty part must appear in order
	if strings.Contains(pattern, "*") {
		rest := name
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			i := strings.Index(rest, part)
			if i < 0 {
				return false
			}
			rest = rest[i+len(part):]
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}

// FilterByName returns the names matching the pattern, keeping their order
func (f *Filter) FilterByName(names []string) []string {
	var filtered []string
	for _, name := range names {
		if f.Match(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// Cases returns the cases of seq whose names match, lazily and in order
func (f *Filter) Cases(seq iter.Seq[domain.TestCase]) iter.Seq[domain.TestCase] {
	return func(yield func(domain.TestCase) bool) {
		for tc := range seq {
			if !f.Match(tc.Name) {
				continue
			}
			if !yield(tc) {
				return
			}
		}
	}
}
