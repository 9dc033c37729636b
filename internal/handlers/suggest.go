package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haanaihang/server/internal/services"
)

type SuggestHandler struct {
	engine *services.SuggestionEngine
}

func NewSuggestHandler(engine *services.SuggestionEngine) *SuggestHandler {
	return &SuggestHandler{engine: engine}
}

func SetupSuggestRoutes(router fiber.Router, engine *services.SuggestionEngine) {
	h := NewSuggestHandler(engine)

	router.Get("/", h.List)
	router.Post("/history", h.AddHistory)
	router.Delete("/history", h.ClearHistory)
}

// AddHistoryRequest records one submitted search term.
type AddHistoryRequest struct {
	Term string `json:"term"`
}

// List godoc
// @Summary Suggestions for an empty search box
// @Description Recent history first, then time-of-day picks, then trending terms
// @Tags suggestions
// @Produce json
// @Success 200 {array} models.Suggestion
// @Router /suggestions [get]
func (h *SuggestHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.engine.GetSuggestions())
}

// AddHistory godoc
// @Summary Record a submitted search term
// @Tags suggestions
// @Accept json
// @Produce json
// @Param request body AddHistoryRequest true "Search term"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /suggestions/history [post]
func (h *SuggestHandler) AddHistory(c *fiber.Ctx) error {
	var req AddHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Term == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "term is required"})
	}
	h.engine.AddToHistory(req.Term)
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearHistory godoc
// @Summary Clear search history
// @Tags suggestions
// @Produce json
// @Success 204
// @Router /suggestions/history [delete]
func (h *SuggestHandler) ClearHistory(c *fiber.Ctx) error {
	h.engine.ClearHistory()
	return c.SendStatus(fiber.StatusNoContent)
}
