package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/haanaihang/server/internal/database"
	"github.com/haanaihang/server/internal/logger"
	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/internal/services"
	"github.com/haanaihang/server/pkg/geo"
)

type StoreHandler struct {
	db       *database.DB
	dir      *services.CachedDirectory
	resolver *services.StoreResolver
}

func NewStoreHandler(db *database.DB, dir *services.CachedDirectory, resolver *services.StoreResolver) *StoreHandler {
	return &StoreHandler{
		db:       db,
		dir:      dir,
		resolver: resolver,
	}
}

// SetupStoreRoutes registers public store reads under /malls/:id/stores.
func SetupStoreRoutes(router fiber.Router, db *database.DB, dir *services.CachedDirectory, resolver *services.StoreResolver) {
	h := NewStoreHandler(db, dir, resolver)

	router.Get("/", h.ListInMall)
}

// SetupGlobalStoreRoutes registers cross-mall store reads under /stores.
func SetupGlobalStoreRoutes(router fiber.Router, db *database.DB, dir *services.CachedDirectory, resolver *services.StoreResolver) {
	h := NewStoreHandler(db, dir, resolver)

	router.Get("/", h.ListAll)
	router.Get("/resolve", h.Resolve)
}

// SetupStoreAdminRoutes registers store mutations.
func SetupStoreAdminRoutes(router fiber.Router, db *database.DB, dir *services.CachedDirectory, resolver *services.StoreResolver) {
	h := NewStoreHandler(db, dir, resolver)

	router.Post("/", h.Create)
	router.Patch("/:storeId", h.Update)
	router.Delete("/:storeId", h.Delete)
}

// CreateStoreRequest is the admin payload for a new store.
type CreateStoreRequest struct {
	Name     string               `json:"name"`
	Category models.StoreCategory `json:"category"`
	FloorID  string               `json:"floor_id"`
	Unit     string               `json:"unit"`
	Phone    string               `json:"phone"`
	Hours    string               `json:"hours"`
	Status   models.StoreStatus   `json:"status"`
	Location *models.LatLng       `json:"location"`
	Tags     []string             `json:"tags"`
}

// ResolvedStorePayload is a store card with formatted display distance.
type ResolvedStorePayload struct {
	models.ResolvedStore
	Distance string `json:"distance,omitempty"`
}

// ListInMall godoc
// @Summary List a mall's stores with resolved display fields
// @Tags stores
// @Produce json
// @Param id path string true "Mall ID"
// @Param lat query number false "User latitude"
// @Param lng query number false "User longitude"
// @Success 200 {array} ResolvedStorePayload
// @Router /malls/{id}/stores [get]
func (h *StoreHandler) ListInMall(c *fiber.Ctx) error {
	mallID := c.Params("id")
	loc := parseLocation(c)

	stores, err := h.dir.ListStoresInMall(c.Context(), mallID)
	if err != nil {
		return serviceError(c, err)
	}

	resolved := h.resolver.ResolveMany(c.Context(), stores, loc)
	payload := make([]ResolvedStorePayload, len(resolved))
	for i, r := range resolved {
		payload[i] = ResolvedStorePayload{ResolvedStore: r}
		if r.DistanceKm != nil {
			payload[i].Distance = geo.FormatDistance(*r.DistanceKm)
		}
	}
	return c.JSON(payload)
}

// ListAll godoc
// @Summary List every store across malls
// @Tags stores
// @Produce json
// @Success 200 {array} models.Store
// @Router /stores [get]
func (h *StoreHandler) ListAll(c *fiber.Ctx) error {
	stores, err := h.dir.ListAllStores(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(stores)
}

// Resolve godoc
// @Summary Resolve one store's display context
// @Description Mall name, floor label and optional distance for a store card
// @Tags stores
// @Produce json
// @Param mall_id query string true "Mall ID"
// @Param store_id query string true "Store ID"
// @Param lat query number false "User latitude"
// @Param lng query number false "User longitude"
// @Success 200 {object} ResolvedStorePayload
// @Failure 404 {object} ErrorResponse
// @Router /stores/resolve [get]
func (h *StoreHandler) Resolve(c *fiber.Ctx) error {
	mallID := c.Query("mall_id")
	storeID := c.Query("store_id")
	if mallID == "" || storeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "mall_id and store_id are required"})
	}

	stores, err := h.dir.ListStoresInMall(c.Context(), mallID)
	if err != nil {
		return serviceError(c, err)
	}
	for _, s := range stores {
		if s.ID != storeID {
			continue
		}
		s.MallID = mallID
		resolved := h.resolver.Resolve(c.Context(), s, parseLocation(c))
		payload := ResolvedStorePayload{ResolvedStore: resolved}
		if resolved.DistanceKm != nil {
			payload.Distance = geo.FormatDistance(*resolved.DistanceKm)
		}
		return c.JSON(payload)
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Store not found"})
}

// Create godoc
// @Summary Create a store in a mall
// @Tags stores
// @Accept json
// @Produce json
// @Param id path string true "Mall ID"
// @Param store body CreateStoreRequest true "Store fields"
// @Success 201 {object} models.Store
// @Failure 400 {object} ErrorResponse
// @Router /admin/malls/{id}/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	mallID := c.Params("id")

	var req CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if !models.ValidCategory(req.Category) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
	}
	if req.Status == "" {
		req.Status = models.StatusActive
	}
	if !models.ValidStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}
	if req.Location != nil && !req.Location.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "location out of range"})
	}

	// The mall must exist; CreateStore would otherwise orphan the doc.
	if _, err := h.dir.GetMall(c.Context(), mallID); err != nil {
		return serviceError(c, err)
	}

	store := models.Store{
		Name:     req.Name,
		Category: req.Category,
		FloorID:  req.FloorID,
		Unit:     req.Unit,
		Phone:    req.Phone,
		Hours:    req.Hours,
		Status:   req.Status,
		Location: req.Location,
		Tags:     req.Tags,
	}
	id, err := h.db.CreateStore(c.Context(), mallID, &store)
	if err != nil {
		return serviceError(c, err)
	}

	h.dir.InvalidateStores(mallID)
	logger.Named("stores").Infow("store created", "store_id", id, "mall_id", mallID, "name", store.Name)
	return c.Status(fiber.StatusCreated).JSON(store)
}

// Update godoc
// @Summary Update a store
// @Tags stores
// @Accept json
// @Produce json
// @Param id path string true "Mall ID"
// @Param storeId path string true "Store ID"
// @Param updates body map[string]interface{} true "Field updates"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /admin/malls/{id}/stores/{storeId} [patch]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	mallID := c.Params("id")
	storeID := c.Params("storeId")

	var updates map[string]any
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No updates given"})
	}
	if cat, ok := updates["category"].(string); ok && !models.ValidCategory(models.StoreCategory(cat)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown category"})
	}
	if st, ok := updates["status"].(string); ok && !models.ValidStatus(models.StoreStatus(st)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}

	if err := h.db.UpdateStore(c.Context(), mallID, storeID, updates); err != nil {
		return serviceError(c, err)
	}

	h.dir.InvalidateStores(mallID)
	return c.JSON(fiber.Map{"status": "updated"})
}

// Delete godoc
// @Summary Delete a store
// @Tags stores
// @Produce json
// @Param id path string true "Mall ID"
// @Param storeId path string true "Store ID"
// @Success 204
// @Router /admin/malls/{id}/stores/{storeId} [delete]
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	mallID := c.Params("id")
	storeID := c.Params("storeId")

	if err := h.db.DeleteStore(c.Context(), mallID, storeID); err != nil {
		return serviceError(c, err)
	}

	h.dir.InvalidateStores(mallID)
	logger.Named("stores").Infow("store deleted", "store_id", storeID, "mall_id", mallID)
	return c.SendStatus(fiber.StatusNoContent)
}
