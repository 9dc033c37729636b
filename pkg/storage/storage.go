package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
)

// Allowed logo content types mapped to their object extension.
var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// Uploader writes mall logo images to the configured Cloud Storage bucket
// and returns their public URLs.
type Uploader struct {
	bucket *storage.BucketHandle
	name   string
}

// NewUploader opens the app's default bucket. The bucket name must be set
// in the Firebase app config.
func NewUploader(ctx context.Context, app *firebase.App, bucketName string) (*Uploader, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, err
	}
	return &Uploader{bucket: bucket, name: bucketName}, nil
}

// UploadLogo streams one logo image to logos/{mallId}/{uuid}{ext} and
// returns its public URL. The object name is random so a replaced logo
// never serves a stale CDN copy.
func (u *Uploader) UploadLogo(ctx context.Context, mallID string, contentType string, r io.Reader) (string, error) {
	ext, ok := logoExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported logo content type %q", contentType)
	}

	object := path.Join("logos", mallID, uuid.NewString()+ext)
	w := u.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.name, object), nil
}

// DeleteObject removes one object by its public URL prefix match. Used
// when a mall is deleted. Missing objects are not an error.
func (u *Uploader) DeleteObject(ctx context.Context, publicURL string) error {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", u.name)
	object := strings.TrimPrefix(publicURL, prefix)
	if object == publicURL || object == "" {
		return nil
	}
	err := u.bucket.Object(object).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return nil
	}
	return err
}
