package thai

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"ascii lowercased", "Siam Paragon", "siam paragon"},
		{"whitespace collapsed", "  Central   World  ", "central world"},
		// ก๋วยเตี๋ยว → tone marks and above-vowels stripped
		{"tone marks stripped", "ก๋วยเตี๋ยว", "กวยเตยว"},
		// น้ำ vs นำ้ style variants compare equal after stripping
		{"sara am words", "ร้านกาแฟ", "รานกาแฟ"},
		{"no thai passthrough", "starbucks", "starbucks"},
		{"mixed", "ร้าน Starbucks สาขา G", "ราน starbucks สาขา g"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeEqualUnderToneVariants(t *testing.T) {
	// Visually similar spellings must compare equal after normalization.
	a := Normalize("เซ็นทรัลเวิลด์")
	b := Normalize("เซนทรลเวลด")
	if a != b {
		t.Errorf("expected tone-insensitive equality, got %q vs %q", a, b)
	}
}

func TestMatchesQuery(t *testing.T) {
	if !MatchesQuery("Siam Paragon", "siam") {
		t.Error("case-insensitive substring should match")
	}
	if !MatchesQuery("ก๋วยเตี๋ยวเรือ", "กวยเตยว") {
		t.Error("tone-stripped query should match")
	}
	if MatchesQuery("", "siam") || MatchesQuery("Siam", "") {
		t.Error("empty text or query must not match")
	}
	if MatchesQuery("Central World", "paragon") {
		t.Error("unrelated query must not match")
	}
}

func TestSearchRange(t *testing.T) {
	start, end := SearchRange("Siam")
	if start != "siam" {
		t.Errorf("start = %q, want %q", start, "siam")
	}
	if end != "siam\uf8ff" {
		t.Errorf("end should carry the \\uf8ff sentinel, got %q", end)
	}
}

func TestHighlightMatch(t *testing.T) {
	got := HighlightMatch("siam paragon", "siam")
	want := "<mark>siam</mark> paragon"
	if got != want {
		t.Errorf("HighlightMatch = %q, want %q", got, want)
	}
	if got := HighlightMatch("central", "siam"); got != "central" {
		t.Errorf("no-match input should pass through, got %q", got)
	}
}
