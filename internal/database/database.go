package database

import (
	"context"
	"errors"

	firestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/haanaihang/server/internal/config"
	"github.com/haanaihang/server/internal/logger"
)

// Collection names in Firestore.
const (
	colMalls      = "malls"
	colFloors     = "floors"
	colStores     = "stores"
	colSearchLogs = "searchLogs"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// DB wraps the Firestore client behind the directory's read/write surface.
type DB struct {
	client *firestore.Client
	app    *firebase.App
}

// Connect initializes the Firebase app and opens the Firestore client.
// Credentials come from FIREBASE_CREDENTIALS_PATH or the ambient service
// account when running inside GCP.
func Connect(ctx context.Context, cfg *config.Config) (*DB, error) {
	log := logger.Named("database")

	var opts []option.ClientOption
	if cfg.FirebaseCredentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsPath))
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{
			ProjectID:     cfg.FirebaseProjectID,
			StorageBucket: cfg.StorageBucket,
		}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, err
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, err
	}

	log.Infow("Firestore connected", "project", cfg.FirebaseProjectID)
	return &DB{client: client, app: app}, nil
}

// App exposes the Firebase app for sibling services (auth, storage).
func (db *DB) App() *firebase.App {
	return db.app
}

// Close releases the underlying client.
func (db *DB) Close() error {
	return db.client.Close()
}

// Ping performs a cheap read to verify connectivity, for readiness probes.
func (db *DB) Ping(ctx context.Context) error {
	_, err := db.client.Collections(ctx).Next()
	if err == iterator.Done {
		return nil
	}
	return err
}
