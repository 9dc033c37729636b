package services

import (
	"context"
	"sync"
	"time"

	"github.com/haanaihang/server/internal/models"
)

// SearchState is what a live-search consumer renders: the latest results,
// whether a search is in flight, and the latest error (nil once a newer
// search succeeds).
type SearchState struct {
	Query   string
	Results []models.SearchResult
	Loading bool
	Err     error
}

// DebouncedSearch bridges a stream of query updates to the search engine
// without issuing a call per keystroke. A search fires only after the
// debounce window passes with no newer input, and result application is
// last-query-wins: a slow response for an old query is dropped when a
// newer one has been issued since. Cancellation is cooperative — the old
// call keeps running but its result is ignored by generation check.
type DebouncedSearch struct {
	engine *SearchEngine
	window time.Duration
	notify func(SearchState)

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64 // latest issued request generation
	state  SearchState
	closed bool
}

// NewDebouncedSearch wires the engine to a consumer callback. notify is
// invoked on every state transition (loading, results, error) and must be
// cheap; it runs on the timer goroutine.
func NewDebouncedSearch(engine *SearchEngine, window time.Duration, notify func(SearchState)) *DebouncedSearch {
	return &DebouncedSearch{
		engine: engine,
		window: window,
		notify: notify,
	}
}

// Update feeds the current query text. The pending timer, if any, is
// reset; the search runs once input pauses for the debounce window. A
// blank query resolves immediately to the empty state without consulting
// the engine.
func (d *DebouncedSearch) Update(ctx context.Context, query string, userLoc *models.LatLng) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if query == "" {
		d.state = SearchState{Query: "", Results: []models.SearchResult{}}
		d.publishLocked()
		return
	}

	d.state = SearchState{Query: query, Results: d.state.Results, Loading: true}
	d.publishLocked()

	d.timer = time.AfterFunc(d.window, func() {
		d.run(ctx, gen, query, userLoc)
	})
}

// run performs the search for one generation and applies the result only
// if it is still the newest request.
func (d *DebouncedSearch) run(ctx context.Context, gen uint64, query string, userLoc *models.LatLng) {
	results, err := d.engine.Search(ctx, query, userLoc)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen {
		// Superseded by a newer query; drop this response.
		return
	}
	if err != nil {
		d.state = SearchState{Query: query, Results: []models.SearchResult{}, Err: err}
	} else {
		d.state = SearchState{Query: query, Results: results}
	}
	d.publishLocked()
}

// State returns the current state snapshot.
func (d *DebouncedSearch) State() SearchState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Close stops the pending timer and suppresses any further notifications,
// including from searches already in flight.
func (d *DebouncedSearch) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *DebouncedSearch) publishLocked() {
	if d.notify != nil {
		d.notify(d.state)
	}
}
