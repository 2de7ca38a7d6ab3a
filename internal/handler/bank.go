package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/model"
	"github.com/iliyamo/undangan-builder/internal/repository"
)

// BankHandler serves the admin-managed bank list.
type BankHandler struct {
	Banks   *repository.BankRepo
	Uploads Uploads
}

// List returns the active banks.
func (h *BankHandler) List(c echo.Context) error {
	list, err := h.Banks.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list)
}

// Create adds a bank from a multipart name and logo image.
func (h *BankHandler) Create(c echo.Context) error {
	errs := fieldErrors{}
	name, hasName := formValue(c, "name")
	errs.require("name", name, hasName)
	img, err := formFile(c, "image")
	if err != nil {
		return err
	}
	if err := errs.err(); err != nil {
		return err
	}
	constraints := h.Uploads.image(imageDir)
	if err := h.Uploads.check(img, "image", constraints); err != nil {
		return err
	}

	ctx := c.Request().Context()
	stored, err := h.Uploads.save(ctx, img, constraints)
	if err != nil {
		return err
	}
	b := &model.Bank{Name: name, Image: stored, FlagActive: true}
	if err := h.Banks.Create(ctx, b); err != nil {
		h.Uploads.discard(ctx, stored)
		return err
	}
	return respond(c, http.StatusCreated, b)
}

// Update changes any of name, image and flag_active.
func (h *BankHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	errs := fieldErrors{}
	name, hasName := formValue(c, "name")
	errs.notBlank("name", name, hasName)
	rawActive, hasActive := formValue(c, "flag_active")
	active := parseBoolField(errs, "flag_active", rawActive, hasActive)
	img, err := formFile(c, "image")
	if err != nil {
		return err
	}
	if err := errs.err(); err != nil {
		return err
	}
	constraints := h.Uploads.image(imageDir)
	if img != nil {
		if err := h.Uploads.check(img, "image", constraints); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	b, err := h.Banks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if hasName {
		b.Name = name
	}
	if active != nil {
		b.FlagActive = *active
	}
	stored := ""
	if img != nil {
		if stored, err = h.Uploads.save(ctx, img, constraints); err != nil {
			return err
		}
		b.Image = stored
	}
	if err := h.Banks.Update(ctx, b); err != nil {
		h.Uploads.discard(ctx, stored)
		return err
	}
	return respond(c, http.StatusOK, b)
}

// Delete removes a bank.
func (h *BankHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Banks.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "bank deleted")
}
