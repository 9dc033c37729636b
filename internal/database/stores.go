package database

import (
	"context"
	"time"

	firestore "cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/pkg/thai"
)

// ListStoresInMall returns one mall's stores.
func (db *DB) ListStoresInMall(ctx context.Context, mallID string) ([]models.Store, error) {
	start := time.Now()
	iter := db.client.Collection(colMalls).Doc(mallID).
		Collection(colStores).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var stores []models.Store
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			observeQuery("list", colStores, start, err)
			return nil, err
		}
		var s models.Store
		if err := doc.DataTo(&s); err != nil {
			observeQuery("list", colStores, start, err)
			return nil, err
		}
		s.ID = doc.Ref.ID
		s.MallID = mallID
		stores = append(stores, s)
	}
	observeQuery("list", colStores, start, nil)
	return stores, nil
}

// ListAllStores returns every store across all malls using a collection
// group query. The owning mall id is recovered from the document path
// (malls/{mallId}/stores/{storeId}).
func (db *DB) ListAllStores(ctx context.Context) ([]models.Store, error) {
	start := time.Now()
	iter := db.client.CollectionGroup(colStores).Documents(ctx)
	defer iter.Stop()

	var stores []models.Store
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			observeQuery("list_all", colStores, start, err)
			return nil, err
		}
		var s models.Store
		if err := doc.DataTo(&s); err != nil {
			observeQuery("list_all", colStores, start, err)
			return nil, err
		}
		s.ID = doc.Ref.ID
		if parent := doc.Ref.Parent.Parent; parent != nil {
			s.MallID = parent.ID
		}
		stores = append(stores, s)
	}
	observeQuery("list_all", colStores, start, nil)
	return stores, nil
}

// CreateStore writes a new store under its mall, caches the denormalized
// mall/floor display fields at write time and bumps the mall's storeCount.
func (db *DB) CreateStore(ctx context.Context, mallID string, store *models.Store) (string, error) {
	start := time.Now()
	now := time.Now()

	store.NameNormalized = thai.Normalize(store.Name)
	store.CreatedAt = now
	store.UpdatedAt = now

	if store.Denormalized == nil {
		if mall, err := db.GetMall(ctx, mallID); err == nil {
			info := &models.DenormalizedMallInfo{
				MallName:   mall.DisplayName,
				MallSlug:   mall.Name,
				MallCoords: mall.Coords,
			}
			if floors, err := db.ListFloors(ctx, mallID); err == nil {
				for _, f := range floors {
					if f.ID == store.FloorID {
						info.FloorLabel = f.Label
						break
					}
				}
			}
			store.Denormalized = info
		}
	}

	mallRef := db.client.Collection(colMalls).Doc(mallID)
	ref := mallRef.Collection(colStores).NewDoc()
	batch := db.client.Batch()
	batch.Set(ref, store)
	batch.Update(mallRef, []firestore.Update{
		{Path: "storeCount", Value: firestore.Increment(1)},
		{Path: "updatedAt", Value: now},
	})
	_, err := batch.Commit(ctx)
	observeQuery("create", colStores, start, err)
	if err != nil {
		return "", err
	}
	store.ID = ref.ID
	store.MallID = mallID
	return ref.ID, nil
}

// UpdateStore applies field updates to a store and refreshes the
// normalized name when the name changes.
func (db *DB) UpdateStore(ctx context.Context, mallID, storeID string, updates map[string]any) error {
	start := time.Now()
	fsUpdates := make([]firestore.Update, 0, len(updates)+2)
	for k, v := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: k, Value: v})
	}
	if name, ok := updates["name"].(string); ok {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "name_normalized", Value: thai.Normalize(name)})
	}
	fsUpdates = append(fsUpdates, firestore.Update{Path: "updatedAt", Value: time.Now()})

	_, err := db.client.Collection(colMalls).Doc(mallID).
		Collection(colStores).Doc(storeID).Update(ctx, fsUpdates)
	observeQuery("update", colStores, start, err)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// DeleteStore removes a store and decrements the mall's storeCount.
func (db *DB) DeleteStore(ctx context.Context, mallID, storeID string) error {
	start := time.Now()
	mallRef := db.client.Collection(colMalls).Doc(mallID)
	batch := db.client.Batch()
	batch.Delete(mallRef.Collection(colStores).Doc(storeID))
	batch.Update(mallRef, []firestore.Update{
		{Path: "storeCount", Value: firestore.Increment(-1)},
		{Path: "updatedAt", Value: time.Now()},
	})
	_, err := batch.Commit(ctx)
	observeQuery("delete", colStores, start, err)
	return err
}

// SearchLog records one submitted search for the admin analytics page.
type SearchLog struct {
	ID          string    `firestore:"-" json:"id"`
	Query       string    `firestore:"query" json:"query"`
	Normalized  string    `firestore:"normalized" json:"normalized"`
	ResultCount int       `firestore:"resultCount" json:"result_count"`
	HasLocation bool      `firestore:"hasLocation" json:"has_location"`
	CreatedAt   time.Time `firestore:"createdAt" json:"created_at"`
}

// LogSearch stores a search log entry. Failures are reported but callers
// treat logging as best-effort.
func (db *DB) LogSearch(ctx context.Context, entry SearchLog) error {
	start := time.Now()
	entry.CreatedAt = time.Now()
	entry.Normalized = thai.Normalize(entry.Query)
	_, err := db.client.Collection(colSearchLogs).Doc(uuid.NewString()).Set(ctx, entry)
	observeQuery("create", colSearchLogs, start, err)
	return err
}

// RecentSearchLogs returns the newest search logs for analytics.
func (db *DB) RecentSearchLogs(ctx context.Context, limit int) ([]SearchLog, error) {
	start := time.Now()
	if limit <= 0 {
		limit = 50
	}
	iter := db.client.Collection(colSearchLogs).
		OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var logs []SearchLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			observeQuery("list", colSearchLogs, start, err)
			return nil, err
		}
		var l SearchLog
		if err := doc.DataTo(&l); err != nil {
			observeQuery("list", colSearchLogs, start, err)
			return nil, err
		}
		l.ID = doc.Ref.ID
		logs = append(logs, l)
	}
	observeQuery("list", colSearchLogs, start, nil)
	return logs, nil
}
