package discovery

import (
	"context"
	"testing"

	"caserun/internal/registry"
)

func TestFilter_FilterByName(t *testing.T) {
	tests := []struct {
		name     string
		cases    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			cases:    []string{"addition", "strings", "testLaunch"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches prefix",
			cases:    []string{"addition", "asyncValue", "strings"},
			pattern:  "a*",
			expected: 2,
		},
		{
			name:     "wildcard pattern matches substring",
			cases:    []string{"testLaunch[light]", "testLaunch[dark]", "addition"},
			pattern:  "*Launch*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			cases:    []string{"addition", "subtraction", "strings"},
			pattern:  "tion",
			expected: 2,
		},
		{
			name:     "no matches",
			cases:    []string{"addition", "strings"},
			pattern:  "*NonExistent*",
			expected: 0,
		},
		{
			name:     "question mark wildcard",
			cases:    []string{"case1", "case2", "case10"},
			pattern:  "case?",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewFilter(tt.pattern).FilterByName(tt.cases)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	t.Run("empty case list", func(t *testing.T) {
		result := NewFilter("test*").FilterByName([]string{})
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("pattern parts must appear in order", func(t *testing.T) {
		f := NewFilter("*Launch*dark*")
		if !f.Match("testLaunch[dark]") {
			t.Error("expected match")
		}
		if f.Match("dark-Launch") {
			t.Error("parts out of order must not match")
		}
	})

	t.Run("brackets are literal", func(t *testing.T) {
		f := NewFilter("*[dark]")
		if !f.Match("testLaunch[dark]") {
			t.Error("expected configuration suffix to match")
		}
		if f.Match("build") {
			t.Error("brackets must not act as a character class")
		}
		if f.Match("testLaunch[light]") {
			t.Error("other configurations must not match")
		}
	})

	t.Run("bare stars match nothing special", func(t *testing.T) {
		if !NewFilter("*").Match("anything") {
			t.Error("single star is a valid glob for any name")
		}
	})
}

func TestFilter_Cases(t *testing.T) {
	reg := registry.New()
	for _, name := range []string{"addition", "testLaunch[light]", "strings", "testLaunch[dark]"} {
		reg.MustRegister(name, func(context.Context) error { return nil })
	}

	var got []string
	for tc := range NewFilter("testLaunch*").Cases(reg.All()) {
		got = append(got, tc.Name)
	}
	if len(got) != 2 || got[0] != "testLaunch[light]" || got[1] != "testLaunch[dark]" {
		t.Errorf("unexpected selection %v", got)
	}
}
