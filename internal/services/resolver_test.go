package services

import (
	"context"
	"testing"

	"github.com/haanaihang/server/internal/cache"
	"github.com/haanaihang/server/internal/models"
)

func newTestResolver(dir Directory) *StoreResolver {
	return NewStoreResolver(NewCachedDirectory(dir, cache.New(), testConfig()))
}

func TestResolveDenormalizedFastPath(t *testing.T) {
	// Backend is fully broken; the denormalized block must be enough.
	dir := &fakeDirectory{failMalls: true, failFloors: true}
	r := newTestResolver(dir)

	store := models.Store{
		ID:     "starbucks",
		Name:   "Starbucks",
		MallID: "siam-paragon",
		Denormalized: &models.DenormalizedMallInfo{
			MallName:   "Siam Paragon",
			MallCoords: &models.LatLng{Lat: 13.746, Lng: 100.535},
			FloorLabel: "G",
		},
	}
	resolved := r.Resolve(context.Background(), store, nil)

	if resolved.MallName != "Siam Paragon" {
		t.Errorf("mallName = %q", resolved.MallName)
	}
	if resolved.FloorLabel != "G" {
		t.Errorf("floorLabel = %q", resolved.FloorLabel)
	}
	dir.mu.Lock()
	defer dir.mu.Unlock()
	if dir.mallGetReads != 0 || dir.floorReads != 0 {
		t.Errorf("fast path still hit the backend: %d mall reads, %d floor reads",
			dir.mallGetReads, dir.floorReads)
	}
}

func TestResolveFetchPath(t *testing.T) {
	r := newTestResolver(seedDirectory())

	store := models.Store{ID: "starbucks", Name: "Starbucks", MallID: "siam-paragon", FloorID: "F1"}
	resolved := r.Resolve(context.Background(), store, nil)

	if resolved.MallName != "Siam Paragon" {
		t.Errorf("mallName = %q", resolved.MallName)
	}
	if resolved.FloorLabel != "1" {
		t.Errorf("floorLabel = %q, want display label from the floor doc", resolved.FloorLabel)
	}
	if resolved.CoordsUsed == nil || resolved.CoordsUsed.Lat != 13.746 {
		t.Errorf("coords should fall back to the mall: %+v", resolved.CoordsUsed)
	}
}

func TestResolveFloorLabelFallsBackToID(t *testing.T) {
	r := newTestResolver(seedDirectory())

	store := models.Store{ID: "s1", Name: "Shop", MallID: "siam-paragon", FloorID: "B2"}
	resolved := r.Resolve(context.Background(), store, nil)

	if resolved.FloorLabel != "B2" {
		t.Errorf("floorLabel = %q, want raw floor id B2", resolved.FloorLabel)
	}
}

func TestResolveDegradesOnBackendFailure(t *testing.T) {
	dir := seedDirectory()
	dir.failMalls = true
	dir.failFloors = true
	r := newTestResolver(dir)

	store := models.Store{ID: "s1", Name: "Shop", MallID: "siam-paragon", FloorID: "G"}
	resolved := r.Resolve(context.Background(), store, nil)

	if resolved.MallName != "" {
		t.Errorf("mallName = %q, want empty on failure", resolved.MallName)
	}
	if resolved.FloorLabel != "G" {
		t.Errorf("floorLabel = %q, want raw floor id", resolved.FloorLabel)
	}
	if resolved.DistanceKm != nil {
		t.Error("distance must be nil with no usable coordinates")
	}
}

func TestResolveDistance(t *testing.T) {
	r := newTestResolver(seedDirectory())

	store := models.Store{
		ID: "s1", Name: "Shop", MallID: "siam-paragon",
		Location: &models.LatLng{Lat: 13.746, Lng: 100.535},
	}
	loc := &models.LatLng{Lat: 13.746, Lng: 100.535}
	resolved := r.Resolve(context.Background(), store, loc)

	if resolved.DistanceKm == nil {
		t.Fatal("expected a distance")
	}
	if *resolved.DistanceKm != 0 {
		t.Errorf("distance = %v, want 0", *resolved.DistanceKm)
	}
	if resolved.CoordsUsed != store.Location {
		t.Error("store's own location must win over the mall's")
	}
}

func TestResolveManySharesCache(t *testing.T) {
	dir := seedDirectory()
	r := newTestResolver(dir)

	stores := []models.Store{
		{ID: "a", Name: "A", MallID: "siam-paragon", FloorID: "G"},
		{ID: "b", Name: "B", MallID: "siam-paragon", FloorID: "G"},
		{ID: "c", Name: "C", MallID: "siam-paragon", FloorID: "F1"},
	}
	resolved := r.ResolveMany(context.Background(), stores, nil)
	if len(resolved) != 3 {
		t.Fatalf("got %d resolved stores", len(resolved))
	}

	dir.mu.Lock()
	defer dir.mu.Unlock()
	if dir.mallGetReads != 1 {
		t.Errorf("mall fetched %d times for one mall, want 1", dir.mallGetReads)
	}
	if dir.floorReads != 1 {
		t.Errorf("floors fetched %d times for one mall, want 1", dir.floorReads)
	}
}
