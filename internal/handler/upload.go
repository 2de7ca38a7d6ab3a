package handler

import (
	"context"
	"mime/multipart"
	"path"

	"github.com/iliyamo/undangan-builder/internal/metrics"
	"github.com/iliyamo/undangan-builder/internal/storage"
)

// Directories below the storage root.
const (
	imageDir     = "images"
	thumbnailDir = "thumbnails"
	templateDir  = "templates"
)

type storageFile struct {
	field  string
	header *multipart.FileHeader
}

// Uploads bundles the file store with the configured size limits.
type Uploads struct {
	Store         storage.Store
	ImageMaxKB    int
	TemplateMaxKB int
}

func (u Uploads) image(dir string) storage.Constraints {
	return storage.ImageConstraints(dir, u.ImageMaxKB)
}

func (u Uploads) pkg() storage.Constraints {
	return storage.PackageConstraints(templateDir, u.TemplateMaxKB)
}

// check validates f without storing it.  A nil f is reported as missing.
func (u Uploads) check(f *storageFile, field string, c storage.Constraints) error {
	if f == nil {
		return fileError(field, storage.ErrMissingFile)
	}
	if _, err := storage.Validate(f.header, c); err != nil {
		metrics.Upload(c.Dir, "rejected")
		return fileError(f.field, err)
	}
	return nil
}

// save stores f and records the outcome.
func (u Uploads) save(ctx context.Context, f *storageFile, c storage.Constraints) (string, error) {
	p, err := u.Store.Save(ctx, f.header, c)
	if err != nil {
		metrics.Upload(c.Dir, "failed")
		return "", fileError(f.field, err)
	}
	metrics.Upload(c.Dir, "stored")
	return p, nil
}

// discard removes files stored for a request whose database write failed.
// Removal is best effort; failures only show up in the upload metrics.
func (u Uploads) discard(ctx context.Context, stored ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range stored {
		if p == "" {
			continue
		}
		if err := u.Store.Remove(ctx, p); err != nil {
			metrics.Upload(path.Dir(p), "orphaned")
			continue
		}
		metrics.Upload(path.Dir(p), "discarded")
	}
}
