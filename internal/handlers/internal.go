package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/haanaihang/server/internal/config"
	"github.com/haanaihang/server/internal/database"
)

type InternalHandler struct {
	db  *database.DB
	cfg *config.Config
}

func NewInternalHandler(db *database.DB, cfg *config.Config) *InternalHandler {
	return &InternalHandler{
		db:  db,
		cfg: cfg,
	}
}

func SetupInternalRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewInternalHandler(db, cfg)

	// Analytics export, API-key protected.
	router.Get("/search-logs", h.SearchLogs)
}

// SearchLogs godoc
// @Summary Recent search log entries
// @Description Raw submitted-search records for the analytics pipeline
// @Tags internal
// @Produce json
// @Param X-API-Key header string true "Internal API Key"
// @Param limit query int false "Max entries (default 50)"
// @Success 200 {array} database.SearchLog
// @Failure 401 {object} ErrorResponse
// @Router /internal/search-logs [get]
func (h *InternalHandler) SearchLogs(c *fiber.Ctx) error {
	apiKey := c.Get("X-API-Key")
	if apiKey == "" || apiKey != h.cfg.InternalAPIKey {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or missing API key",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	logs, err := h.db.RecentSearchLogs(c.Context(), limit)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(logs)
}
