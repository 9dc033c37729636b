package database

import (
	"context"
	"regexp"
	"strings"
	"time"

	firestore "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/haanaihang/server/internal/models"
	"github.com/haanaihang/server/pkg/thai"
)

var slugStrip = regexp.MustCompile(`[^\x{0E00}-\x{0E7F}a-z0-9\s-]`)
var slugDashes = regexp.MustCompile(`-+`)

// Slugify turns a display name into a canonical slug, keeping Thai
// characters, e.g. "Central Rama 3" → "central-rama-3".
func Slugify(displayName string) string {
	s := strings.ToLower(displayName)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), "-")
	return slugDashes.ReplaceAllString(s, "-")
}

// ListMalls returns every mall ordered by display name.
func (db *DB) ListMalls(ctx context.Context) ([]models.Mall, error) {
	start := time.Now()
	iter := db.client.Collection(colMalls).OrderBy("displayName", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var malls []models.Mall
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			observeQuery("list", colMalls, start, err)
			return nil, err
		}
		var m models.Mall
		if err := doc.DataTo(&m); err != nil {
			observeQuery("list", colMalls, start, err)
			return nil, err
		}
		m.ID = doc.Ref.ID
		malls = append(malls, m)
	}
	observeQuery("list", colMalls, start, nil)
	return malls, nil
}

// GetMall fetches one mall by document id.
func (db *DB) GetMall(ctx context.Context, id string) (*models.Mall, error) {
	start := time.Now()
	doc, err := db.client.Collection(colMalls).Doc(id).Get(ctx)
	if err != nil {
		observeQuery("get", colMalls, start, err)
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var m models.Mall
	if err := doc.DataTo(&m); err != nil {
		observeQuery("get", colMalls, start, err)
		return nil, err
	}
	m.ID = doc.Ref.ID
	observeQuery("get", colMalls, start, nil)
	return &m, nil
}

// ListFloors returns a mall's floors in display order.
func (db *DB) ListFloors(ctx context.Context, mallID string) ([]models.Floor, error) {
	start := time.Now()
	iter := db.client.Collection(colMalls).Doc(mallID).
		Collection(colFloors).OrderBy("order", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var floors []models.Floor
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			observeQuery("list", colFloors, start, err)
			return nil, err
		}
		var f models.Floor
		if err := doc.DataTo(&f); err != nil {
			observeQuery("list", colFloors, start, err)
			return nil, err
		}
		f.ID = doc.Ref.ID
		f.MallID = mallID
		floors = append(floors, f)
	}
	observeQuery("list", colFloors, start, nil)
	return floors, nil
}

// CreateMall writes a new mall document plus its default floor set and
// returns the new id. The normalized name is stored at write time so range
// queries never need to normalize server-side.
func (db *DB) CreateMall(ctx context.Context, mall *models.Mall) (string, error) {
	start := time.Now()
	now := time.Now()

	if mall.Name == "" {
		mall.Name = Slugify(mall.DisplayName)
	}
	mall.NameNormalized = thai.Normalize(mall.DisplayName)
	mall.CreatedAt = now
	mall.UpdatedAt = now
	mall.FloorCount = len(models.DefaultFloorLabels)

	ref := db.client.Collection(colMalls).NewDoc()
	batch := db.client.Batch()
	batch.Set(ref, mall)
	for i, label := range models.DefaultFloorLabels {
		batch.Set(ref.Collection(colFloors).NewDoc(), models.Floor{Label: label, Order: i})
	}
	_, err := batch.Commit(ctx)
	observeQuery("create", colMalls, start, err)
	if err != nil {
		return "", err
	}
	mall.ID = ref.ID
	return ref.ID, nil
}

// UpdateMall applies the given field updates and refreshes updatedAt and
// the normalized name when the display name changes.
func (db *DB) UpdateMall(ctx context.Context, id string, updates map[string]any) error {
	start := time.Now()
	fsUpdates := make([]firestore.Update, 0, len(updates)+2)
	for k, v := range updates {
		fsUpdates = append(fsUpdates, firestore.Update{Path: k, Value: v})
	}
	if dn, ok := updates["displayName"].(string); ok {
		fsUpdates = append(fsUpdates, firestore.Update{Path: "name_normalized", Value: thai.Normalize(dn)})
	}
	fsUpdates = append(fsUpdates, firestore.Update{Path: "updatedAt", Value: time.Now()})

	_, err := db.client.Collection(colMalls).Doc(id).Update(ctx, fsUpdates)
	observeQuery("update", colMalls, start, err)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// DeleteMall removes a mall and its floors and stores subcollections.
func (db *DB) DeleteMall(ctx context.Context, id string) error {
	start := time.Now()
	ref := db.client.Collection(colMalls).Doc(id)

	for _, sub := range []string{colFloors, colStores} {
		if err := db.deleteCollection(ctx, ref.Collection(sub)); err != nil {
			observeQuery("delete", colMalls, start, err)
			return err
		}
	}

	_, err := ref.Delete(ctx)
	observeQuery("delete", colMalls, start, err)
	return err
}

// deleteCollection removes every document of a subcollection in batches.
func (db *DB) deleteCollection(ctx context.Context, col *firestore.CollectionRef) error {
	const batchSize = 100
	for {
		iter := col.Limit(batchSize).Documents(ctx)
		n := 0
		batch := db.client.Batch()
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return err
			}
			batch.Delete(doc.Ref)
			n++
		}
		if n == 0 {
			return nil
		}
		if _, err := batch.Commit(ctx); err != nil {
			return err
		}
	}
}
