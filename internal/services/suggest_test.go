package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/haanaihang/server/internal/models"
)

func clockAt(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 15, hour, 30, 0, 0, time.UTC)
	}
}

func TestHistoryDedupMovesToFront(t *testing.T) {
	e := NewSuggestionEngine()
	e.AddToHistory("กาแฟ")
	e.AddToHistory("Uniqlo")
	e.AddToHistory("กาแฟ")

	h := e.History()
	if len(h) != 2 {
		t.Fatalf("history length = %d, want 2", len(h))
	}
	if h[0] != "กาแฟ" || h[1] != "Uniqlo" {
		t.Errorf("history = %v", h)
	}
}

func TestHistoryDedupIsCaseInsensitive(t *testing.T) {
	e := NewSuggestionEngine()
	e.AddToHistory("uniqlo")
	e.AddToHistory("UNIQLO")

	h := e.History()
	if len(h) != 1 {
		t.Fatalf("history = %v, want one entry", h)
	}
	if h[0] != "UNIQLO" {
		t.Errorf("latest casing should win, got %q", h[0])
	}
}

func TestHistoryCapped(t *testing.T) {
	e := NewSuggestionEngine()
	for i := 0; i < historyCap+4; i++ {
		e.AddToHistory(fmt.Sprintf("term-%d", i))
	}

	h := e.History()
	if len(h) != historyCap {
		t.Fatalf("history length = %d, want %d", len(h), historyCap)
	}
	if h[0] != fmt.Sprintf("term-%d", historyCap+3) {
		t.Errorf("newest entry = %q", h[0])
	}
}

func TestHistoryIgnoresBlank(t *testing.T) {
	e := NewSuggestionEngine()
	e.AddToHistory("   ")
	e.AddToHistory("")
	if len(e.History()) != 0 {
		t.Errorf("blank terms must not be recorded: %v", e.History())
	}
}

func TestClearHistory(t *testing.T) {
	e := NewSuggestionEngine()
	e.AddToHistory("กาแฟ")
	e.ClearHistory()
	if len(e.History()) != 0 {
		t.Error("history not cleared")
	}
}

func TestSuggestionsMorningBracket(t *testing.T) {
	e := NewSuggestionEngine(WithSuggestionClock(clockAt(9)))
	got := e.GetSuggestions()

	if len(got) != suggestionCap {
		t.Fatalf("got %d suggestions, want %d", len(got), suggestionCap)
	}
	// No history: morning picks lead, trending fills the rest.
	for i, want := range morningSuggestions {
		if got[i].Text != want || got[i].Type != models.SuggestionTimeBased {
			t.Errorf("suggestion %d = %+v, want morning pick %q", i, got[i], want)
		}
	}
	if got[len(morningSuggestions)].Type != models.SuggestionTrending {
		t.Errorf("filler should be trending, got %+v", got[len(morningSuggestions)])
	}
}

func TestSuggestionsEveningBracket(t *testing.T) {
	e := NewSuggestionEngine(WithSuggestionClock(clockAt(19)))
	got := e.GetSuggestions()

	if got[0].Text != eveningSuggestions[0] || got[0].Type != models.SuggestionTimeBased {
		t.Errorf("first suggestion = %+v", got[0])
	}
}

func TestSuggestionsMiddayHasNoTimeBracket(t *testing.T) {
	e := NewSuggestionEngine(WithSuggestionClock(clockAt(13)))
	for _, s := range e.GetSuggestions() {
		if s.Type == models.SuggestionTimeBased {
			t.Errorf("midday must not emit time-based picks: %+v", s)
		}
	}
}

func TestSuggestionsHistoryFirstAndDeduped(t *testing.T) {
	e := NewSuggestionEngine(WithSuggestionClock(clockAt(9)))
	e.AddToHistory("starbucks") // also a morning pick, differing only in case
	e.AddToHistory("ชาบู")

	got := e.GetSuggestions()
	if got[0].Text != "ชาบู" || got[0].Type != models.SuggestionHistory {
		t.Errorf("first = %+v, want newest history entry", got[0])
	}
	if got[1].Text != "starbucks" {
		t.Errorf("second = %+v", got[1])
	}

	count := 0
	for _, s := range got {
		if s.Text == "starbucks" || s.Text == "Starbucks" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate across sources survived: %+v", got)
	}
	if len(got) > suggestionCap {
		t.Errorf("got %d suggestions, cap is %d", len(got), suggestionCap)
	}
}

func TestSuggestionsDeterministic(t *testing.T) {
	e := NewSuggestionEngine(WithSuggestionClock(clockAt(9)))
	e.AddToHistory("กาแฟ")

	a := e.GetSuggestions()
	b := e.GetSuggestions()
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("suggestion %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
