package index

import (
	"strings"

	"github.com/eringen/inkwell/search"
)

// FilterState is the list page's current tag and search term.
type FilterState struct {
	ActiveTag  string
	SearchTerm string
}

// NewFilterState builds a state from raw user input. The search term is
// trimmed and case-folded.
func NewFilterState(tag, term string) FilterState {
	return FilterState{
		ActiveTag:  tag,
		SearchTerm: search.Normalize(strings.TrimSpace(term)),
	}
}

// Matches reports whether p satisfies both the tag and the search predicate.
func (s FilterState) Matches(p PostSummary) bool {
	if s.ActiveTag != "" && !p.HasTag(s.ActiveTag) {
		return false
	}
	return search.Contains(p.SearchText(), s.SearchTerm)
}

// Filter returns the posts of idx that match state, in index order. The
// result is always a new slice; idx is not modified.
func Filter(idx PostIndex, state FilterState) PostIndex {
	out := make(PostIndex, 0, len(idx))
	for _, p := range idx {
		if state.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
