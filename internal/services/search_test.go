package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haanaihang/server/internal/cache"
	"github.com/haanaihang/server/internal/config"
	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/pkg/thai"
)

// fakeDirectory is an in-memory Directory with per-call failure switches
// and read counters.
type fakeDirectory struct {
	mu     sync.Mutex
	malls  []models.Mall
	floors map[string][]models.Floor
	stores map[string][]models.Store

	failMalls  bool
	failStores bool
	failFloors bool

	mallListReads  int
	storeListReads int
	mallGetReads   int
	floorReads     int

	firstMallListDelay time.Duration
}

var errFakeBackend = errors.New("backend unavailable")

func (f *fakeDirectory) ListMalls(ctx context.Context) ([]models.Mall, error) {
	f.mu.Lock()
	f.mallListReads++
	reads := f.mallListReads
	delay := f.firstMallListDelay
	fail := f.failMalls
	f.mu.Unlock()

	if delay > 0 && reads == 1 {
		time.Sleep(delay)
	}
	if fail {
		return nil, errFakeBackend
	}
	return f.malls, nil
}

func (f *fakeDirectory) GetMall(ctx context.Context, id string) (*models.Mall, error) {
	f.mu.Lock()
	f.mallGetReads++
	fail := f.failMalls
	f.mu.Unlock()
	if fail {
		return nil, errFakeBackend
	}
	for i := range f.malls {
		if f.malls[i].ID == id {
			return &f.malls[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDirectory) ListFloors(ctx context.Context, mallID string) ([]models.Floor, error) {
	f.mu.Lock()
	f.floorReads++
	fail := f.failFloors
	f.mu.Unlock()
	if fail {
		return nil, errFakeBackend
	}
	return f.floors[mallID], nil
}

func (f *fakeDirectory) ListStoresInMall(ctx context.Context, mallID string) ([]models.Store, error) {
	return f.stores[mallID], nil
}

func (f *fakeDirectory) ListAllStores(ctx context.Context) ([]models.Store, error) {
	f.mu.Lock()
	f.storeListReads++
	fail := f.failStores
	f.mu.Unlock()
	if fail {
		return nil, errFakeBackend
	}
	var all []models.Store
	for mallID, stores := range f.stores {
		for _, s := range stores {
			s.MallID = mallID
			all = append(all, s)
		}
	}
	return all, nil
}

func testConfig() *config.Config {
	return &config.Config{
		MallListTTL:  10 * time.Minute,
		StoreListTTL: 5 * time.Minute,
		AllStoresTTL: 5 * time.Minute,
		Weights: config.SearchWeights{
			ExactMatch:     100,
			PrefixMatch:    80,
			WordBoundary:   70,
			SubstringMatch: 60,
			CategoryMatch:  15,
			ProximityMax:   25,
			MallKindBias:   5,
		},
		MaxResults:     20,
		DebounceWindow: 300 * time.Millisecond,
	}
}

func seedDirectory() *fakeDirectory {
	return &fakeDirectory{
		malls: []models.Mall{
			{
				ID:          "siam-paragon",
				Name:        "siam-paragon",
				DisplayName: "Siam Paragon",
				Coords:      &models.LatLng{Lat: 13.746, Lng: 100.535},
			},
			{
				ID:          "central-world",
				Name:        "central-world",
				DisplayName: "Central World",
				Coords:      &models.LatLng{Lat: 13.747, Lng: 100.540},
			},
		},
		floors: map[string][]models.Floor{
			"siam-paragon": {
				{ID: "G", Label: "G", Order: 0},
				{ID: "F1", Label: "1", Order: 1},
			},
		},
		stores: map[string][]models.Store{
			"siam-paragon": {
				{
					ID:       "starbucks",
					Name:     "Starbucks",
					Category: models.CategoryCafe,
					FloorID:  "G",
					Status:   models.StatusActive,
				},
				{
					ID:       "nike",
					Name:     "Nike",
					Category: models.CategorySports,
					FloorID:  "F1",
					Status:   models.StatusActive,
				},
			},
		},
	}
}

func newTestEngine(dir Directory) *SearchEngine {
	cfg := testConfig()
	return NewSearchEngine(NewCachedDirectory(dir, cache.New(), cfg), cfg)
}

func TestSearchEmptyQuery(t *testing.T) {
	e := newTestEngine(seedDirectory())
	for _, q := range []string{"", "   ", "\t"} {
		results, err := e.Search(context.Background(), q, nil)
		if err != nil {
			t.Fatalf("blank query must not error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("blank query %q returned %d results", q, len(results))
		}
	}
}

func TestSearchHardFilter(t *testing.T) {
	e := newTestEngine(seedDirectory())
	results, err := e.Search(context.Background(), "siam", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one result for 'siam'")
	}
	for _, r := range results {
		if !strings.Contains(thai.Normalize(r.Name), "siam") {
			t.Errorf("hard filter violated: %q in results for 'siam'", r.Name)
		}
	}
}

func TestSearchSiamScenario(t *testing.T) {
	e := newTestEngine(seedDirectory())
	results, err := e.Search(context.Background(), "siam", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only Siam Paragon, got %d results", len(results))
	}
	r := results[0]
	if r.Kind != models.KindMall || r.Name != "Siam Paragon" {
		t.Errorf("unexpected top result: %+v", r)
	}
	if r.DistanceKm != nil {
		t.Error("distance must be absent without a user location")
	}
}

func TestSearchStarbucksCarriesMallName(t *testing.T) {
	e := newTestEngine(seedDirectory())
	results, err := e.Search(context.Background(), "starbucks", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	r := results[0]
	if r.Kind != models.KindStore || r.Name != "Starbucks" {
		t.Errorf("unexpected result: %+v", r)
	}
	if r.MallName != "Siam Paragon" {
		t.Errorf("mallName = %q, want Siam Paragon", r.MallName)
	}
	if r.FloorLabel != "G" {
		t.Errorf("floorLabel = %q, want G", r.FloorLabel)
	}
}

func TestSearchProximityBreaksTie(t *testing.T) {
	e := newTestEngine(seedDirectory())
	// "mall" matches both malls through the generic keyword list; the user
	// stands at Siam Paragon, which must therefore rank first.
	loc := &models.LatLng{Lat: 13.746, Lng: 100.535}
	results, err := e.Search(context.Background(), "mall", loc)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected both malls, got %d results", len(results))
	}
	if results[0].Name != "Siam Paragon" || results[1].Name != "Central World" {
		t.Errorf("order = [%s, %s]", results[0].Name, results[1].Name)
	}
	if results[0].DistanceKm == nil || *results[0].DistanceKm != 0 {
		t.Error("co-located mall should report zero distance")
	}
}

func TestSearchCategoryKeyword(t *testing.T) {
	e := newTestEngine(seedDirectory())
	results, err := e.Search(context.Background(), "cafe", nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range results {
		if r.ID == "starbucks" {
			found = true
		}
	}
	if !found {
		t.Error("category keyword 'cafe' should surface Starbucks")
	}
}

func TestSearchDeterministicTieBreaks(t *testing.T) {
	dir := &fakeDirectory{
		stores: map[string][]models.Store{
			"m1": {
				{ID: "3", Name: "zzaa", Category: models.CategoryFashion},
				{ID: "2", Name: "zzb", Category: models.CategoryFashion},
				{ID: "1", Name: "zza", Category: models.CategoryFashion},
			},
		},
	}
	e := newTestEngine(dir)

	var first []string
	for run := 0; run < 3; run++ {
		results, err := e.Search(context.Background(), "zz", nil)
		if err != nil {
			t.Fatal(err)
		}
		names := make([]string, len(results))
		for i, r := range results {
			names[i] = r.Name
		}
		if run == 0 {
			first = names
			want := []string{"zza", "zzb", "zzaa"}
			for i := range want {
				if names[i] != want[i] {
					t.Fatalf("tie-break order = %v, want %v", names, want)
				}
			}
			continue
		}
		for i := range first {
			if names[i] != first[i] {
				t.Errorf("run %d order differs: %v vs %v", run, names, first)
			}
		}
	}
}

func TestSearchScoresNonIncreasing(t *testing.T) {
	e := newTestEngine(seedDirectory())
	results, err := e.Search(context.Background(), "s", nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores increase at %d: %v after %v", i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestSearchUpstreamError(t *testing.T) {
	dir := seedDirectory()
	dir.failMalls = true
	e := newTestEngine(dir)

	_, err := e.Search(context.Background(), "siam", nil)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestSearchReadsThroughCache(t *testing.T) {
	dir := seedDirectory()
	e := newTestEngine(dir)

	for i := 0; i < 3; i++ {
		if _, err := e.Search(context.Background(), "siam", nil); err != nil {
			t.Fatal(err)
		}
	}

	dir.mu.Lock()
	defer dir.mu.Unlock()
	if dir.mallListReads != 1 {
		t.Errorf("mall list fetched %d times, want 1", dir.mallListReads)
	}
	if dir.storeListReads != 1 {
		t.Errorf("store list fetched %d times, want 1", dir.storeListReads)
	}
}

func TestSearchNoMatchIsEmptyNotError(t *testing.T) {
	e := newTestEngine(seedDirectory())
	results, err := e.Search(context.Background(), "nonexistent query", nil)
	if err != nil {
		t.Fatalf("no-match must not be an error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}
