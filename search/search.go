// Package search canonicalizes text for substring matching and provides the
// highlight and scoring helpers used by the post list.
package search

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Hangul syllable block. Syllables in this range are split into conjoining
// jamo so that a partially typed syllable still matches.
const (
	hangulFirst = 0xAC00
	hangulLast  = 0xD7A3
)

// Normalize case-folds text and decomposes Hangul syllables into their
// leading, vowel and (when present) trailing jamo. Runes outside the syllable
// block pass through unchanged.
//
// The output uses the conjoining jamo range, so Normalize(Normalize(s)) is not
// guaranteed to equal Normalize(s) for every input.
func Normalize(text string) string {
	folded := cases.Fold().String(text)
	if !hasHangul(folded) {
		return folded
	}
	var b strings.Builder
	b.Grow(len(folded) * 2)
	for _, r := range folded {
		if r >= hangulFirst && r <= hangulLast {
			b.WriteString(norm.NFD.String(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hasHangul(s string) bool {
	for _, r := range s {
		if r >= hangulFirst && r <= hangulLast {
			return true
		}
	}
	return false
}

// Contains reports whether the normalized text contains the normalized term.
// An empty term matches everything.
func Contains(text, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(Normalize(text), Normalize(term))
}

// Highlight returns text HTML-escaped with every case-insensitive occurrence
// of term wrapped in <mark>. The result is safe to emit as raw HTML.
func Highlight(text, term string) string {
	if strings.TrimSpace(term) == "" || text == "" || !Contains(text, term) {
		return html.EscapeString(text)
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
	if err != nil {
		return html.EscapeString(text)
	}
	var b strings.Builder
	last := 0
	for _, m := range re.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		b.WriteString("<mark>")
		b.WriteString(html.EscapeString(text[m[0]:m[1]]))
		b.WriteString("</mark>")
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// Score ranks how well text matches term: 100 for a full substring match,
// otherwise 50 per matching word of term, capped at 99.
func Score(text, term string) int {
	if term == "" {
		return 0
	}
	normalizedText := Normalize(text)
	normalizedTerm := Normalize(term)
	if strings.Contains(normalizedText, normalizedTerm) {
		return 100
	}
	score := 0
	for _, word := range strings.Fields(normalizedTerm) {
		if strings.Contains(normalizedText, word) {
			score += 50
		}
	}
	return min(score, 99)
}
