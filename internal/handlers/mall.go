package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haanaihang/server/internal/database"
	"github.com/haanaihang/server/internal/logger"
	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/internal/services"
	"github.com/haanaihang/server/pkg/storage"
)

type MallHandler struct {
	db       *database.DB
	dir      *services.CachedDirectory
	uploader *storage.Uploader
}

func NewMallHandler(db *database.DB, dir *services.CachedDirectory, uploader *storage.Uploader) *MallHandler {
	return &MallHandler{
		db:       db,
		dir:      dir,
		uploader: uploader,
	}
}

// SetupMallRoutes registers public mall reads. Mutations are registered
// separately under the admin group.
func SetupMallRoutes(router fiber.Router, db *database.DB, dir *services.CachedDirectory, uploader *storage.Uploader) {
	h := NewMallHandler(db, dir, uploader)

	router.Get("/", h.List)
	router.Get("/:id", h.Get)
	router.Get("/:id/floors", h.ListFloors)
}

// SetupMallAdminRoutes registers mall mutations.
func SetupMallAdminRoutes(router fiber.Router, db *database.DB, dir *services.CachedDirectory, uploader *storage.Uploader) {
	h := NewMallHandler(db, dir, uploader)

	router.Post("/", h.Create)
	router.Patch("/:id", h.Update)
	router.Delete("/:id", h.Delete)
	router.Post("/:id/logo", h.UploadLogo)
}

// CreateMallRequest is the admin payload for a new mall.
type CreateMallRequest struct {
	DisplayName string            `json:"display_name"`
	Address     string            `json:"address"`
	District    string            `json:"district"`
	Contact     *models.Contact   `json:"contact"`
	Coords      *models.LatLng    `json:"coords"`
	Hours       *models.OpenHours `json:"hours"`
}

// List godoc
// @Summary List malls
// @Tags malls
// @Produce json
// @Success 200 {array} models.Mall
// @Router /malls [get]
func (h *MallHandler) List(c *fiber.Ctx) error {
	malls, err := h.dir.ListMalls(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(malls)
}

// Get godoc
// @Summary Get mall by ID
// @Tags malls
// @Produce json
// @Param id path string true "Mall ID"
// @Success 200 {object} models.Mall
// @Failure 404 {object} ErrorResponse
// @Router /malls/{id} [get]
func (h *MallHandler) Get(c *fiber.Ctx) error {
	mall, err := h.dir.GetMall(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(mall)
}

// ListFloors godoc
// @Summary List a mall's floors
// @Tags malls
// @Produce json
// @Param id path string true "Mall ID"
// @Success 200 {array} models.Floor
// @Router /malls/{id}/floors [get]
func (h *MallHandler) ListFloors(c *fiber.Ctx) error {
	floors, err := h.dir.ListFloors(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(floors)
}

// Create godoc
// @Summary Create a mall
// @Tags malls
// @Accept json
// @Produce json
// @Param mall body CreateMallRequest true "Mall fields"
// @Success 201 {object} models.Mall
// @Failure 400 {object} ErrorResponse
// @Router /admin/malls [post]
func (h *MallHandler) Create(c *fiber.Ctx) error {
	var req CreateMallRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.DisplayName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "display_name is required"})
	}
	if req.Coords != nil && !req.Coords.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coords out of range"})
	}

	mall := models.Mall{
		DisplayName: req.DisplayName,
		Address:     req.Address,
		District:    req.District,
		Contact:     req.Contact,
		Coords:      req.Coords,
		Hours:       req.Hours,
	}
	id, err := h.db.CreateMall(c.Context(), &mall)
	if err != nil {
		return serviceError(c, err)
	}

	// Invalidate before responding so an immediate re-read sees the write.
	h.dir.InvalidateMall(id)
	logger.Named("malls").Infow("mall created", "mall_id", id, "name", mall.DisplayName)
	return c.Status(fiber.StatusCreated).JSON(mall)
}

// Update godoc
// @Summary Update a mall
// @Tags malls
// @Accept json
// @Produce json
// @Param id path string true "Mall ID"
// @Param updates body map[string]interface{} true "Field updates"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /admin/malls/{id} [patch]
func (h *MallHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var updates map[string]any
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No updates given"})
	}

	if err := h.db.UpdateMall(c.Context(), id, updates); err != nil {
		return serviceError(c, err)
	}

	h.dir.InvalidateMall(id)
	return c.JSON(fiber.Map{"status": "updated"})
}

// Delete godoc
// @Summary Delete a mall and its floors and stores
// @Tags malls
// @Produce json
// @Param id path string true "Mall ID"
// @Success 204
// @Router /admin/malls/{id} [delete]
func (h *MallHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	// Best-effort logo cleanup before the document goes away.
	if h.uploader != nil {
		if mall, err := h.dir.GetMall(c.Context(), id); err == nil && mall.LogoURL != "" {
			if err := h.uploader.DeleteObject(c.Context(), mall.LogoURL); err != nil {
				logger.Named("malls").Warnw("logo cleanup failed", "mall_id", id, "error", err)
			}
		}
	}

	if err := h.db.DeleteMall(c.Context(), id); err != nil {
		return serviceError(c, err)
	}

	h.dir.InvalidateMall(id)
	logger.Named("malls").Infow("mall deleted", "mall_id", id)
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadLogo godoc
// @Summary Upload a mall logo
// @Tags malls
// @Accept mpfd
// @Produce json
// @Param id path string true "Mall ID"
// @Param logo formData file true "Logo image (png, jpeg, webp, svg)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Router /admin/malls/{id}/logo [post]
func (h *MallHandler) UploadLogo(c *fiber.Ctx) error {
	if h.uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Storage not configured"})
	}
	id := c.Params("id")

	// Confirm the mall exists before accepting the object.
	if _, err := h.dir.GetMall(c.Context(), id); err != nil {
		return serviceError(c, err)
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "logo file is required"})
	}
	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read upload"})
	}
	defer src.Close()

	url, err := h.uploader.UploadLogo(c.Context(), id, file.Header.Get("Content-Type"), src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.db.UpdateMall(c.Context(), id, map[string]any{"logoUrl": url}); err != nil {
		return serviceError(c, err)
	}

	h.dir.InvalidateMall(id)
	return c.JSON(fiber.Map{"logo_url": url})
}
