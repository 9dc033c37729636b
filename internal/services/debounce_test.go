package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

// stateRecorder collects every published state for later inspection.
type stateRecorder struct {
	mu     sync.Mutex
	states []SearchState
}

func (r *stateRecorder) record(s SearchState) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *stateRecorder) snapshot() []SearchState {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SearchState, len(r.states))
	copy(out, r.states)
	return out
}

func TestDebounceCoalescesRapidInput(t *testing.T) {
	dir := seedDirectory()
	rec := &stateRecorder{}
	d := NewDebouncedSearch(newTestEngine(dir), 30*time.Millisecond, rec.record)
	defer d.Close()

	// Keystrokes arriving faster than the window: only the last fires.
	for _, q := range []string{"s", "si", "sia", "siam"} {
		d.Update(context.Background(), q, nil)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	dir.mu.Lock()
	reads := dir.mallListReads
	dir.mu.Unlock()
	if reads != 1 {
		t.Errorf("backend consulted %d times for a burst, want 1", reads)
	}

	state := d.State()
	if state.Query != "siam" || state.Loading {
		t.Errorf("final state = %+v", state)
	}
	if len(state.Results) != 1 || state.Results[0].Name != "Siam Paragon" {
		t.Errorf("results = %+v", state.Results)
	}
}

func TestDebounceLastQueryWins(t *testing.T) {
	// The first search is held up long enough that its response lands after
	// the second search has already completed. The stale response must be
	// dropped, not applied.
	dir := seedDirectory()
	dir.firstMallListDelay = 120 * time.Millisecond
	rec := &stateRecorder{}
	d := NewDebouncedSearch(newTestEngine(dir), 10*time.Millisecond, rec.record)
	defer d.Close()

	d.Update(context.Background(), "starbucks", nil)
	time.Sleep(30 * time.Millisecond) // first search now in flight
	d.Update(context.Background(), "siam", nil)
	time.Sleep(250 * time.Millisecond)

	state := d.State()
	if state.Query != "siam" {
		t.Fatalf("final query = %q, stale response overwrote the newer one", state.Query)
	}
	if len(state.Results) != 1 || state.Results[0].Name != "Siam Paragon" {
		t.Errorf("results = %+v", state.Results)
	}

	// The stale query must never be published as a settled (non-loading)
	// state.
	for _, s := range rec.snapshot() {
		if s.Query == "starbucks" && !s.Loading {
			t.Errorf("stale response was published: %+v", s)
		}
	}
}

func TestDebounceBlankQueryClearsImmediately(t *testing.T) {
	dir := seedDirectory()
	rec := &stateRecorder{}
	d := NewDebouncedSearch(newTestEngine(dir), 20*time.Millisecond, rec.record)
	defer d.Close()

	d.Update(context.Background(), "siam", nil)
	time.Sleep(60 * time.Millisecond)
	d.Update(context.Background(), "", nil)

	state := d.State()
	if state.Query != "" || state.Loading || len(state.Results) != 0 {
		t.Errorf("blank query state = %+v, want empty and settled", state)
	}

	// Clearing must also cancel any pending search.
	time.Sleep(60 * time.Millisecond)
	if got := d.State(); got.Query != "" || len(got.Results) != 0 {
		t.Errorf("state changed after clear: %+v", got)
	}
}

func TestDebounceErrorState(t *testing.T) {
	dir := seedDirectory()
	dir.failMalls = true
	d := NewDebouncedSearch(newTestEngine(dir), 10*time.Millisecond, nil)
	defer d.Close()

	d.Update(context.Background(), "siam", nil)
	time.Sleep(60 * time.Millisecond)

	state := d.State()
	if state.Err == nil {
		t.Fatal("expected the backend error to surface")
	}
	if len(state.Results) != 0 {
		t.Errorf("results should be empty on error: %+v", state.Results)
	}
}

func TestDebounceCloseSuppressesPending(t *testing.T) {
	dir := seedDirectory()
	rec := &stateRecorder{}
	d := NewDebouncedSearch(newTestEngine(dir), 20*time.Millisecond, rec.record)

	d.Update(context.Background(), "siam", nil)
	d.Close()
	published := len(rec.snapshot()) // the loading state only
	time.Sleep(80 * time.Millisecond)

	if got := len(rec.snapshot()); got != published {
		t.Errorf("notifications after Close: %d then %d", published, got)
	}

	// Updates after Close are no-ops.
	d.Update(context.Background(), "starbucks", nil)
	time.Sleep(80 * time.Millisecond)
	if got := len(rec.snapshot()); got != published {
		t.Errorf("Update after Close published a state")
	}
}
