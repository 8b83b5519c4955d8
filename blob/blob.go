// Package blob stores uploaded contract files and hands back their URLs.
// Production uses Google Cloud Storage; development falls back to local disk,
// mirroring the upload handling split used elsewhere in our services.
package blob

import (
	"context"
	"fmt"
	"os"
	"time"

	"p9e.in/handoff/intake"
)

// Uploader is re-exported here so callers can hold a blob.Uploader without
// importing intake.
type Uploader = intake.Uploader

// FromEnv picks the storage backend: GCS when USE_GCS is set or the process
// runs with ambient Google credentials (Cloud Run sets K_SERVICE), local disk
// otherwise.
func FromEnv() (Uploader, error) {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""

	if useGCS {
		bucket := os.Getenv("GCS_BUCKET")
		if bucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET must be set when GCS uploads are enabled")
		}
		return NewGCS(context.Background(), bucket)
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "./uploads"
	}
	return NewLocal(dir), nil
}

// objectName prefixes the original filename with a millisecond timestamp so
// repeated uploads of the same file never collide.
func objectName(now time.Time, name string) string {
	return fmt.Sprintf("%d_%s", now.UnixMilli(), name)
}

// contentTypeOf defaults unknown content types to octet-stream.
func contentTypeOf(f intake.File) string {
	if f.ContentType == "" {
		return "application/octet-stream"
	}
	return f.ContentType
}
