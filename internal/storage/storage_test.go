package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes is a 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestSaveImageUsesEpochName(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root)
	l.now = func() time.Time { return time.Unix(1718000000, 0) }

	rel, err := l.Save(context.Background(), fileHeader(t, "image", "Foto Kami.PNG", pngBytes), ImageConstraints("images", 2048))
	require.NoError(t, err)
	assert.Equal(t, "images/1718000000.png", rel)

	got, err := os.ReadFile(filepath.Join(root, "images", "1718000000.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, got)
}

func TestValidateRejectsWrongExtension(t *testing.T) {
	_, err := Validate(fileHeader(t, "image", "script.exe", pngBytes), ImageConstraints("images", 2048))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestValidateRejectsSpoofedContent(t *testing.T) {
	_, err := Validate(fileHeader(t, "image", "photo.jpg", []byte("#!/bin/sh\necho hi\n")), ImageConstraints("images", 2048))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestValidateRejectsOversize(t *testing.T) {
	big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)
	_, err := Validate(fileHeader(t, "image", "big.png", big), ImageConstraints("images", 1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestPackageAcceptsAnyType(t *testing.T) {
	ext, err := Validate(fileHeader(t, "file", "tema.zip", []byte("PK\x03\x04rest")), PackageConstraints("templates", 2048))
	require.NoError(t, err)
	assert.Equal(t, "zip", ext)
}

func TestValidateMissingFile(t *testing.T) {
	_, err := Validate(nil, PackageConstraints("templates", 2048))
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestRemoveDeletesStoredFile(t *testing.T) {
	root := t.TempDir()
	l := NewLocal(root)
	rel, err := l.Save(context.Background(), fileHeader(t, "image", "a.png", pngBytes), ImageConstraints("images", 2048))
	require.NoError(t, err)

	require.NoError(t, l.Remove(context.Background(), rel))
	assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
	assert.NoError(t, l.Remove(context.Background(), rel), "missing file")
	assert.Error(t, l.Remove(context.Background(), "../"))
}
