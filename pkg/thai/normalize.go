// Package thai normalizes Thai text for tone-mark-insensitive search.
package thai

import (
	"strings"
	"unicode"
)

// Combining characters stripped before comparison: MAI HAN-AKAT (U+0E31),
// the above/below vowels SARA I..PHINTHU (U+0E34–U+0E3A) and the tone and
// sign marks MAITAIKHU..YAMAKKAN (U+0E47–U+0E4E). Visually similar strings
// compare equal once these are removed.
func isStrippedMark(r rune) bool {
	return r == 0x0E31 || (r >= 0x0E34 && r <= 0x0E3A) || (r >= 0x0E47 && r <= 0x0E4E)
}

// Normalize lower-cases ASCII, strips Thai combining marks and collapses
// whitespace. Text without Thai characters passes through unchanged apart
// from case folding and trimming.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range strings.ToLower(text) {
		if isStrippedMark(r) {
			continue
		}
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// MatchesQuery reports whether text contains query, comparing both after
// normalization. Empty text or query never match.
func MatchesQuery(text, query string) bool {
	if text == "" || query == "" {
		return false
	}
	return strings.Contains(Normalize(text), Normalize(query))
}

// SearchRange returns the [start, end] bounds for a Firestore prefix range
// query over a name_normalized field.
func SearchRange(query string) (start, end string) {
	start = Normalize(query)
	return start, start + "\uf8ff"
}

// HighlightMatch wraps the first normalized occurrence of query inside text
// with <mark> tags. The offsets are computed on the normalized strings, so
// the result is only used where text itself normalizes cleanly (names do).
func HighlightMatch(text, query string) string {
	if text == "" || query == "" {
		return text
	}
	nt := Normalize(text)
	nq := Normalize(query)
	idx := strings.Index(nt, nq)
	if idx < 0 || idx+len(nq) > len(text) {
		return text
	}
	return text[:idx] + "<mark>" + text[idx:idx+len(nq)] + "</mark>" + text[idx+len(nq):]
}
