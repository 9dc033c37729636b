package services

import (
	"context"
	"time"

	"github.com/haanaihang/server/internal/cache"
	"github.com/haanaihang/server/internal/config"
	"github.com/haanaihang/server/internal/logger"
	"github.com/haanaihang/server/internal/models"
)

// Directory is the read surface of the document store. *database.DB
// satisfies it; tests substitute an in-memory fake.
type Directory interface {
	ListMalls(ctx context.Context) ([]models.Mall, error)
	GetMall(ctx context.Context, id string) (*models.Mall, error)
	ListFloors(ctx context.Context, mallID string) ([]models.Floor, error)
	ListStoresInMall(ctx context.Context, mallID string) ([]models.Store, error)
	ListAllStores(ctx context.Context) ([]models.Store, error)
}

// CachedDirectory layers the shared TTL cache over a Directory. A burst of
// reads inside the TTL window costs at most one backend round trip per
// collection. Concurrent misses for the same key may fetch twice; reads
// are idempotent so the duplicate write is harmless.
type CachedDirectory struct {
	dir   Directory
	cache *cache.Cache

	mallListTTL  time.Duration
	storeListTTL time.Duration
	allStoresTTL time.Duration
}

// NewCachedDirectory wires a Directory to the shared cache with the
// configured TTLs.
func NewCachedDirectory(dir Directory, c *cache.Cache, cfg *config.Config) *CachedDirectory {
	return &CachedDirectory{
		dir:          dir,
		cache:        c,
		mallListTTL:  cfg.MallListTTL,
		storeListTTL: cfg.StoreListTTL,
		allStoresTTL: cfg.AllStoresTTL,
	}
}

// ListMalls returns the mall list, cached for the mall-list TTL.
func (d *CachedDirectory) ListMalls(ctx context.Context) ([]models.Mall, error) {
	if v, ok := d.cache.Get(cache.KeyMalls); ok {
		return v.([]models.Mall), nil
	}
	malls, err := d.dir.ListMalls(ctx)
	if err != nil {
		return nil, err
	}
	d.cache.Set(cache.KeyMalls, malls, d.mallListTTL)
	return malls, nil
}

// GetMall returns one mall, cached under its own key.
func (d *CachedDirectory) GetMall(ctx context.Context, id string) (*models.Mall, error) {
	if v, ok := d.cache.Get(cache.KeyMall(id)); ok {
		return v.(*models.Mall), nil
	}
	mall, err := d.dir.GetMall(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Set(cache.KeyMall(id), mall, d.mallListTTL)
	return mall, nil
}

// ListFloors returns one mall's floors, cached alongside the store list.
func (d *CachedDirectory) ListFloors(ctx context.Context, mallID string) ([]models.Floor, error) {
	if v, ok := d.cache.Get(cache.KeyFloors(mallID)); ok {
		return v.([]models.Floor), nil
	}
	floors, err := d.dir.ListFloors(ctx, mallID)
	if err != nil {
		return nil, err
	}
	d.cache.Set(cache.KeyFloors(mallID), floors, d.storeListTTL)
	return floors, nil
}

// ListStoresInMall returns one mall's stores, cached per mall.
func (d *CachedDirectory) ListStoresInMall(ctx context.Context, mallID string) ([]models.Store, error) {
	if v, ok := d.cache.Get(cache.KeyStores(mallID)); ok {
		return v.([]models.Store), nil
	}
	stores, err := d.dir.ListStoresInMall(ctx, mallID)
	if err != nil {
		return nil, err
	}
	d.cache.Set(cache.KeyStores(mallID), stores, d.storeListTTL)
	return stores, nil
}

// ListAllStores returns every store across malls, cached as one entry.
func (d *CachedDirectory) ListAllStores(ctx context.Context) ([]models.Store, error) {
	if v, ok := d.cache.Get(cache.KeyAllStores); ok {
		return v.([]models.Store), nil
	}
	stores, err := d.dir.ListAllStores(ctx)
	if err != nil {
		return nil, err
	}
	d.cache.Set(cache.KeyAllStores, stores, d.allStoresTTL)
	return stores, nil
}

// InvalidateMall drops every cache entry a mall mutation can have made
// stale: the mall list, the single-mall entry, its floors, and all store
// lists (stores carry denormalized mall fields). Runs synchronously so
// the next read is fresh rather than waiting out the TTL.
func (d *CachedDirectory) InvalidateMall(mallID string) {
	d.cache.ClearByPrefix("malls")
	d.cache.Delete(cache.KeyFloors(mallID))
	d.cache.ClearByPrefix("stores:")
	logger.Named("cache").Debugw("invalidated mall", "mall_id", mallID)
}

// InvalidateStores drops the store lists affected by a store mutation.
func (d *CachedDirectory) InvalidateStores(mallID string) {
	d.cache.Delete(cache.KeyStores(mallID))
	d.cache.Delete(cache.KeyAllStores)
	logger.Named("cache").Debugw("invalidated stores", "mall_id", mallID)
}
