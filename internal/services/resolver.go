package services

import (
	"context"

	"github.com/haanaihang/server/internal/logger"
	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/pkg/geo"
)

// StoreResolver fills in a store's denormalized display fields (mall name,
// floor label, distance) for detail views and cards.
type StoreResolver struct {
	dir *CachedDirectory
}

// NewStoreResolver builds a resolver over the cached directory.
func NewStoreResolver(dir *CachedDirectory) *StoreResolver {
	return &StoreResolver{dir: dir}
}

// Resolve produces a ResolvedStore. It never returns an error: fetch
// failures degrade to whatever display data is at hand — the raw floorId
// as the label, nil distance — because a card with a partial footer beats
// a broken list. Safe to call concurrently for many stores; the shared
// cache keeps duplicate mall fetches to the TTL window.
func (r *StoreResolver) Resolve(ctx context.Context, store models.Store, userLoc *models.LatLng) models.ResolvedStore {
	resolved := models.ResolvedStore{Store: store}
	log := logger.Named("resolver")

	var mallCoords *models.LatLng

	// Fast path: denormalized fields cached on the record at write time.
	if info := store.Denormalized; info != nil {
		resolved.MallName = info.MallName
		resolved.FloorLabel = info.FloorLabel
		mallCoords = info.MallCoords
	}

	// Fetch path for whatever the fast path left blank.
	if (resolved.MallName == "" || mallCoords == nil) && store.MallID != "" {
		mall, err := r.dir.GetMall(ctx, store.MallID)
		switch {
		case err != nil:
			log.Warnw("mall lookup failed", "mall_id", store.MallID, "error", err)
		case mall != nil:
			if resolved.MallName == "" {
				resolved.MallName = mall.DisplayName
			}
			if mallCoords == nil {
				mallCoords = mall.Coords
			}
		}
	}

	if resolved.FloorLabel == "" && store.MallID != "" && store.FloorID != "" {
		floors, err := r.dir.ListFloors(ctx, store.MallID)
		if err != nil {
			log.Warnw("floor lookup failed", "mall_id", store.MallID, "error", err)
		} else {
			for _, f := range floors {
				if f.ID == store.FloorID {
					resolved.FloorLabel = f.Label
					break
				}
			}
		}
	}
	if resolved.FloorLabel == "" {
		// Best available label when the floor list has no match.
		resolved.FloorLabel = store.FloorID
	}

	coords := store.Location
	if coords == nil {
		coords = mallCoords
	}
	resolved.CoordsUsed = coords
	if userLoc != nil && coords != nil {
		d := geo.DistanceKm(*userLoc, *coords)
		resolved.DistanceKm = &d
	}

	return resolved
}

// ResolveMany resolves a batch of stores. Lookups for stores of the same
// mall hit the cache after the first one.
func (r *StoreResolver) ResolveMany(ctx context.Context, stores []models.Store, userLoc *models.LatLng) []models.ResolvedStore {
	resolved := make([]models.ResolvedStore, len(stores))
	for i, s := range stores {
		resolved[i] = r.Resolve(ctx, s, userLoc)
	}
	return resolved
}
