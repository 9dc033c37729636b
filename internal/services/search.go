package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/haanaihang/server/internal/config"
	"github.com/haanaihang/server/internal/logger"
	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/pkg/geo"
	"github.com/haanaihang/server/pkg/thai"
)

// ErrUpstream marks a failed backend read. Handlers translate it into a
// retry-able error response so the UI never confuses it with an empty
// result list.
var ErrUpstream = errors.New("directory read failed")

// Generic keywords that make a mall findable by what it is rather than by
// its name. คำทั่วไปสำหรับค้นหาห้าง
var mallKeywords = []string{"mall", "shopping", "ห้าง", "ห้างสรรพสินค้า"}

// SearchEngine ranks malls and stores against a free-text query.
type SearchEngine struct {
	dir        *CachedDirectory
	weights    config.SearchWeights
	maxResults int
}

// NewSearchEngine builds the engine over the cached directory.
func NewSearchEngine(dir *CachedDirectory, cfg *config.Config) *SearchEngine {
	return &SearchEngine{
		dir:        dir,
		weights:    cfg.Weights,
		maxResults: cfg.MaxResults,
	}
}

// Search returns the merged, best-first result list for query. A blank
// query yields an empty list, never an error. A failed backend read
// returns ErrUpstream so callers can offer a retry instead of rendering
// "no results".
func (e *SearchEngine) Search(ctx context.Context, query string, userLoc *models.LatLng) ([]models.SearchResult, error) {
	nq := thai.Normalize(strings.TrimSpace(query))
	if nq == "" {
		return []models.SearchResult{}, nil
	}

	malls, err := e.dir.ListMalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: malls: %v", ErrUpstream, err)
	}
	stores, err := e.dir.ListAllStores(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: stores: %v", ErrUpstream, err)
	}

	mallByID := make(map[string]*models.Mall, len(malls))
	for i := range malls {
		mallByID[malls[i].ID] = &malls[i]
	}

	results := make([]models.SearchResult, 0, e.maxResults)
	for i := range malls {
		if r, ok := e.scoreMall(&malls[i], nq, userLoc); ok {
			results = append(results, r)
		}
	}
	for i := range stores {
		if r, ok := e.scoreStore(&stores[i], mallByID[stores[i].MallID], nq, userLoc); ok {
			results = append(results, r)
		}
	}

	sortResults(results)
	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}

	logger.Named("search").Debugw("search done",
		"query", query, "candidates", len(malls)+len(stores), "results", len(results))
	return results, nil
}

// scoreMall filters and scores one mall candidate.
func (e *SearchEngine) scoreMall(mall *models.Mall, nq string, userLoc *models.LatLng) (models.SearchResult, bool) {
	name := mall.DisplayName
	nn := mall.NameNormalized
	if nn == "" {
		nn = thai.Normalize(name)
	}

	score, nameHit := e.nameScore(nn, nq)
	if keywordHit(mallKeywords, nq) {
		score += e.weights.CategoryMatch
	} else if !nameHit {
		return models.SearchResult{}, false
	}

	score += e.weights.MallKindBias

	r := models.SearchResult{
		ID:      mall.ID,
		Kind:    models.KindMall,
		Name:    name,
		LogoURL: mall.LogoURL,
		Coords:  mall.Coords,
		Score:   score,
	}
	if mall.Hours != nil {
		r.OpenHours = mall.Hours.Open + "-" + mall.Hours.Close
	}
	if userLoc != nil && mall.Coords != nil {
		d := geo.DistanceKm(*userLoc, *mall.Coords)
		r.DistanceKm = &d
		r.Score += e.proximityBoost(d)
	}
	return r, true
}

// scoreStore filters and scores one store candidate. The owning mall (when
// loaded) supplies display context and fallback coordinates.
func (e *SearchEngine) scoreStore(store *models.Store, mall *models.Mall, nq string, userLoc *models.LatLng) (models.SearchResult, bool) {
	nn := store.NameNormalized
	if nn == "" {
		nn = thai.Normalize(store.Name)
	}

	score, nameHit := e.nameScore(nn, nq)
	keywords := append([]string{string(store.Category)}, store.Tags...)
	if keywordHit(keywords, nq) {
		score += e.weights.CategoryMatch
	} else if !nameHit {
		return models.SearchResult{}, false
	}

	r := models.SearchResult{
		ID:        store.ID,
		Kind:      models.KindStore,
		Name:      store.Name,
		MallID:    store.MallID,
		Category:  string(store.Category),
		Status:    string(store.Status),
		OpenHours: store.Hours,
		Score:     score,
	}

	// Display context: denormalized fields first, then the mall document.
	coords := store.Location
	if info := store.Denormalized; info != nil {
		r.MallName = info.MallName
		r.FloorLabel = info.FloorLabel
		if coords == nil {
			coords = info.MallCoords
		}
	}
	if mall != nil {
		if r.MallName == "" {
			r.MallName = mall.DisplayName
		}
		if coords == nil {
			coords = mall.Coords
		}
	}
	if r.FloorLabel == "" {
		r.FloorLabel = store.FloorID
	}
	r.Coords = coords

	if userLoc != nil && coords != nil {
		d := geo.DistanceKm(*userLoc, *coords)
		r.DistanceKm = &d
		r.Score += e.proximityBoost(d)
	}
	return r, true
}

// nameScore sums the name-relevance components. The boolean reports
// whether the normalized name contains the query at all — the hard filter.
func (e *SearchEngine) nameScore(normalizedName, nq string) (float64, bool) {
	if !strings.Contains(normalizedName, nq) {
		return 0, false
	}

	score := e.weights.SubstringMatch
	if normalizedName == nq {
		score += e.weights.ExactMatch
	}
	if strings.HasPrefix(normalizedName, nq) {
		score += e.weights.PrefixMatch
	}
	for _, token := range strings.Fields(normalizedName) {
		if strings.HasPrefix(token, nq) {
			score += e.weights.WordBoundary
			break
		}
	}
	return score, true
}

// keywordHit reports whether the query hits a category or tag keyword.
func keywordHit(keywords []string, nq string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(thai.Normalize(kw), nq) {
			return true
		}
	}
	return false
}

// proximityBoost converts distance into a bounded additive bonus. The cap
// keeps proximity a tie-breaker: at zero distance the boost equals
// ProximityMax, well under a prefix or exact name hit.
func (e *SearchEngine) proximityBoost(distanceKm float64) float64 {
	return e.weights.ProximityMax / (1 + distanceKm)
}

// sortResults orders best-first with full determinism: score descending,
// then shorter name, then lexicographic.
func sortResults(results []models.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if len(results[i].Name) != len(results[j].Name) {
			return len(results[i].Name) < len(results[j].Name)
		}
		return results[i].Name < results[j].Name
	})
}
