package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/haanaihang/server/internal/database"
	"github.com/haanaihang/server/internal/logger"
	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/internal/services"
	"github.com/haanaihang/server/pkg/geo"
)

type SearchHandler struct {
	engine      *services.SearchEngine
	suggestions *services.SuggestionEngine
	db          *database.DB
}

func NewSearchHandler(engine *services.SearchEngine, suggestions *services.SuggestionEngine, db *database.DB) *SearchHandler {
	return &SearchHandler{
		engine:      engine,
		suggestions: suggestions,
		db:          db,
	}
}

func SetupSearchRoutes(router fiber.Router, engine *services.SearchEngine, suggestions *services.SuggestionEngine, db *database.DB) {
	h := NewSearchHandler(engine, suggestions, db)

	router.Get("/", h.Search)
	router.Get("/history", h.History)
	router.Delete("/history", h.ClearHistory)
}

// SearchResponse is the search endpoint payload.
type SearchResponse struct {
	Query   string                `json:"query"`
	Results []SearchResultPayload `json:"results"`
	Total   int                   `json:"total"`
}

// SearchResultPayload is one ranked hit with its display context.
type SearchResultPayload struct {
	models.SearchResult
	Distance string `json:"distance,omitempty"` // "350 ม.", "1.2 กม."
}

// parseLocation reads optional lat/lng query params. Both must be present
// and in range or the location is ignored.
func parseLocation(c *fiber.Ctx) *models.LatLng {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	loc := models.LatLng{Lat: lat, Lng: lng}
	if !loc.Valid() {
		return nil
	}
	return &loc
}

// Search godoc
// @Summary Search malls and stores
// @Description Ranked full-directory search; optional user location adds distance and proximity ranking
// @Tags search
// @Accept json
// @Produce json
// @Param q query string true "Search text (Thai or English)"
// @Param lat query number false "User latitude"
// @Param lng query number false "User longitude"
// @Success 200 {object} SearchResponse
// @Failure 502 {object} ErrorResponse
// @Router /search [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	loc := parseLocation(c)

	results, err := h.engine.Search(c.Context(), query, loc)
	if err != nil {
		return serviceError(c, err)
	}
	// Optional client-side cap below the engine's own maximum.
	if limit, err := strconv.Atoi(c.Query("limit", "0")); err == nil && limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	if query != "" {
		h.suggestions.AddToHistory(query)
		// Analytics write is best-effort and off the request path. The
		// request context is recycled once the handler returns, so the
		// goroutine gets its own.
		go func(q string, n int, hasLoc bool) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			entry := database.SearchLog{Query: q, ResultCount: n, HasLocation: hasLoc}
			if err := h.db.LogSearch(ctx, entry); err != nil {
				logger.Named("search").Warnw("search log write failed", "error", err)
			}
		}(query, len(results), loc != nil)
	}

	payload := make([]SearchResultPayload, len(results))
	for i, r := range results {
		payload[i] = SearchResultPayload{SearchResult: r}
		if r.DistanceKm != nil {
			payload[i].Distance = geo.FormatDistance(*r.DistanceKm)
		}
	}

	return c.JSON(SearchResponse{
		Query:   query,
		Results: payload,
		Total:   len(payload),
	})
}

// History godoc
// @Summary Recent search terms
// @Tags search
// @Produce json
// @Success 200 {array} string
// @Router /search/history [get]
func (h *SearchHandler) History(c *fiber.Ctx) error {
	return c.JSON(h.suggestions.History())
}

// ClearHistory godoc
// @Summary Clear search history
// @Tags search
// @Produce json
// @Success 204
// @Router /search/history [delete]
func (h *SearchHandler) ClearHistory(c *fiber.Ctx) error {
	h.suggestions.ClearHistory()
	return c.SendStatus(fiber.StatusNoContent)
}
