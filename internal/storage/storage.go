// Package storage validates uploaded files and writes them below a public
// root.  Stored paths are relative to that root, e.g. "images/1718000000.png",
// and are served under the configured URL prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrMissingFile = errors.New("file is required")
	ErrInvalidType = errors.New("file type is not allowed")
	ErrTooLarge    = errors.New("file is too large")
)

// Constraints describe what a field accepts.  An empty Extensions list
// accepts any type.
type Constraints struct {
	Dir        string
	MaxBytes   int64
	Extensions []string // lower-case, without dot
	MIMETypes  []string // checked against the sniffed content type
}

// ImageConstraints accepts jpeg, png, gif and webp images up to maxKB.
func ImageConstraints(dir string, maxKB int) Constraints {
	return Constraints{
		Dir:        dir,
		MaxBytes:   int64(maxKB) * 1024,
		Extensions: []string{"jpeg", "png", "jpg", "gif", "webp"},
		MIMETypes:  []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}
}

// PackageConstraints accepts any file up to maxKB.
func PackageConstraints(dir string, maxKB int) Constraints {
	return Constraints{Dir: dir, MaxBytes: int64(maxKB) * 1024}
}

// Store persists an uploaded file and returns its stored path.  Remove
// deletes a stored path; removing a missing file is not an error.
type Store interface {
	Save(ctx context.Context, fh *multipart.FileHeader, c Constraints) (string, error)
	Remove(ctx context.Context, rel string) error
}

// Local writes files to a directory on disk.
type Local struct {
	Root string
	now  func() time.Time
}

func NewLocal(root string) *Local { return &Local{Root: root, now: time.Now} }

// Validate checks size, extension and sniffed content type of fh.
func Validate(fh *multipart.FileHeader, c Constraints) (ext string, err error) {
	if fh == nil {
		return "", ErrMissingFile
	}
	if c.MaxBytes > 0 && fh.Size > c.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, fh.Size, c.MaxBytes)
	}
	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if len(c.Extensions) == 0 {
		return ext, nil
	}
	if !contains(c.Extensions, ext) {
		return "", ErrInvalidType
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	for _, allowed := range c.MIMETypes {
		if mt.Is(allowed) {
			return ext, nil
		}
	}
	return "", ErrInvalidType
}

// Save validates fh and copies it to Root/Dir/{epoch}.{ext}.  Two uploads
// of the same extension in the same second share a name; the later wins.
func (l *Local) Save(ctx context.Context, fh *multipart.FileHeader, c Constraints) (string, error) {
	ext, err := Validate(fh, c)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := strconv.FormatInt(l.now().Unix(), 10)
	if ext != "" {
		name += "." + ext
	}
	rel := path.Join(c.Dir, name)

	dir := filepath.Join(l.Root, filepath.FromSlash(c.Dir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return rel, nil
}

// Remove deletes Root/rel.  Paths escaping Root are rejected.
func (l *Local) Remove(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := path.Clean("/" + rel)[1:]
	if clean == "" {
		return fmt.Errorf("invalid stored path %q", rel)
	}
	err := os.Remove(filepath.Join(l.Root, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
