package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haanaihang/server/internal/models"
)

func SetupCategoryRoutes(router fiber.Router) {
	router.Get("/", ListCategories)
}

// ListCategories godoc
// @Summary List store categories
// @Description The fixed category taxonomy, in display order
// @Tags categories
// @Accept json
// @Produce json
// @Success 200 {array} string
// @Router /categories [get]
func ListCategories(c *fiber.Ctx) error {
	return c.JSON(models.StoreCategories)
}
