package blob

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"

	"p9e.in/handoff/intake"
)

// GCS uploads files to a Google Cloud Storage bucket. Objects are publicly
// addressable through the standard storage URL.
type GCS struct {
	client *storage.Client
	bucket string
}

func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Upload writes each file to the bucket and returns the object URLs in input
// order.
func (g *GCS) Upload(ctx context.Context, files []intake.File) ([]string, error) {
	urls := make([]string, len(files))
	for i, f := range files {
		name := objectName(time.Now(), f.Name)
		obj := g.client.Bucket(g.bucket).Object(name)

		w := obj.NewWriter(ctx)
		w.ContentType = contentTypeOf(f)
		if _, err := w.Write(f.Data); err != nil {
			w.Close()
			return nil, fmt.Errorf("write object %q: %w", name, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("finalize object %q: %w", name, err)
		}

		urls[i] = fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, name)
	}
	return urls, nil
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
