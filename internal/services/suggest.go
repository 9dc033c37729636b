package services

import (
	"strings"
	"sync"
	"time"

	"github.com/haanaihang/server/internal/models"
)

// History and display bounds for the suggestion box.
const (
	historyCap    = 8
	suggestionCap = 6
	morningStart  = 6
	morningEnd    = 11
	eveningStart  = 17
	eveningEnd    = 22
)

// Static suggestion pools. เมนูแนะนำตามช่วงเวลา
var (
	morningSuggestions  = []string{"กาแฟ", "Starbucks", "เบเกอรี่"}
	eveningSuggestions  = []string{"ร้านอาหาร", "อาหารญี่ปุ่น", "ชาบู"}
	trendingSuggestions = []string{
		"Siam Paragon", "Central World", "Uniqlo", "H&M", "MUJI", "ICONSIAM",
	}
)

// SuggestionEngine produces quick-pick suggestions for an empty search box
// and keeps the bounded history ring of submitted terms.
type SuggestionEngine struct {
	mu      sync.Mutex
	history []string
	now     func() time.Time
}

// SuggestionOption configures a SuggestionEngine.
type SuggestionOption func(*SuggestionEngine)

// WithSuggestionClock substitutes the time source for the time-of-day
// brackets in tests.
func WithSuggestionClock(now func() time.Time) SuggestionOption {
	return func(e *SuggestionEngine) { e.now = now }
}

// NewSuggestionEngine creates an engine with empty history.
func NewSuggestionEngine(opts ...SuggestionOption) *SuggestionEngine {
	e := &SuggestionEngine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddToHistory records a successfully submitted search term at the front
// of the ring. Duplicate terms (case-insensitive) move to the front
// instead of repeating; the ring keeps the most recent entries only.
func (e *SuggestionEngine) AddToHistory(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]string, 0, historyCap)
	next = append(next, term)
	for _, h := range e.history {
		if strings.EqualFold(h, term) {
			continue
		}
		next = append(next, h)
		if len(next) == historyCap {
			break
		}
	}
	e.history = next
}

// History returns a copy of the current history, newest first.
func (e *SuggestionEngine) History() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}

// ClearHistory empties the ring.
func (e *SuggestionEngine) ClearHistory() {
	e.mu.Lock()
	e.history = nil
	e.mu.Unlock()
}

// GetSuggestions merges history, time-of-day picks and trending filler,
// in that order, truncated to the display cap. Deterministic for a given
// clock and history; no network involved.
func (e *SuggestionEngine) GetSuggestions() []models.Suggestion {
	e.mu.Lock()
	history := make([]string, len(e.history))
	copy(history, e.history)
	e.mu.Unlock()

	seen := make(map[string]bool, suggestionCap)
	out := make([]models.Suggestion, 0, suggestionCap)

	add := func(typ models.SuggestionType, label string, texts []string) {
		for _, text := range texts {
			if len(out) == suggestionCap {
				return
			}
			key := strings.ToLower(text)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, models.Suggestion{Type: typ, Text: text, Label: label})
		}
	}

	add(models.SuggestionHistory, "ค้นหาล่าสุด", history)

	hour := e.now().Hour()
	switch {
	case hour >= morningStart && hour < morningEnd:
		add(models.SuggestionTimeBased, "ยามเช้า", morningSuggestions)
	case hour >= eveningStart && hour < eveningEnd:
		add(models.SuggestionTimeBased, "มื้อเย็น", eveningSuggestions)
	}

	add(models.SuggestionTrending, "ยอดนิยม", trendingSuggestions)

	return out
}
