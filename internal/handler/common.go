package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/storage"
)

// parseID reads a positive integer path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return id, nil
}

// formValue returns a trimmed multipart/urlencoded field and whether it was
// sent at all.
func formValue(c echo.Context, name string) (string, bool) {
	params, err := c.FormParams()
	if err != nil {
		return "", false
	}
	vals, ok := params[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

// formFile returns the uploaded file for name, or nil when none was sent.
func formFile(c echo.Context, name string) (*storageFile, error) {
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("invalid multipart body")
	}
	return &storageFile{field: name, header: fh}, nil
}

// fieldErrors collects validation messages for hand-read form fields.
type fieldErrors map[string]string

func (f fieldErrors) require(name, value string, present bool) {
	if !present || value == "" {
		f[name] = "is required"
	}
}

// notBlank flags a field that was sent but is empty.
func (f fieldErrors) notBlank(name, value string, present bool) {
	if present && value == "" {
		f[name] = "is required"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// fileError reports a storage failure against the form field it came from.
func fileError(field string, err error) error {
	switch {
	case errors.Is(err, storage.ErrMissingFile):
		return invalid(field, "is required")
	case errors.Is(err, storage.ErrInvalidType):
		return invalid(field, "must be a file of an allowed type")
	case errors.Is(err, storage.ErrTooLarge):
		return invalid(field, "is too large")
	}
	return err
}

// parseUintField reads an optional unsigned form field.
func parseUintField(errs fieldErrors, name, value string, present bool) *uint64 {
	if !present || value == "" {
		return nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		errs[name] = "must be an integer"
		return nil
	}
	return &n
}

// parseBoolField accepts the usual form spellings of a boolean.
func parseBoolField(errs fieldErrors, name, value string, present bool) *bool {
	if !present || value == "" {
		return nil
	}
	switch strings.ToLower(value) {
	case "1", "true", "on", "yes":
		b := true
		return &b
	case "0", "false", "off", "no":
		b := false
		return &b
	}
	errs[name] = "must be true or false"
	return nil
}
