package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"p9e.in/handoff/intake"
)

// Local writes uploads to a directory on disk and returns /uploads/ URLs
// served by the router. Development only.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

// Upload saves each file under the upload directory, one URL per input in
// input order.
func (l *Local) Upload(ctx context.Context, files []intake.File) ([]string, error) {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	urls := make([]string, len(files))
	for i, f := range files {
		name := objectName(time.Now(), f.Name)
		path := filepath.Join(l.dir, name)
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return nil, fmt.Errorf("save file %q: %w", name, err)
		}
		urls[i] = "/uploads/" + name
	}
	return urls, nil
}
