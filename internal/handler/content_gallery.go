package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/model"
)

// CreateGalleryImage handles the multipart POST /undangan/:undangan_id/galery.
func (h *ContentHandler) CreateGalleryImage(c echo.Context) error {
	invitationID, err := parseID(c, invitationParam)
	if err != nil {
		return err
	}
	errs := fieldErrors{}
	rawClaim, hasClaim := formValue(c, "undangan_id")
	claimed := parseUintField(errs, "undangan_id", rawClaim, hasClaim)
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
	if err := h.authorize(c, invitationID, claimed); err != nil {
		return err
	}

	ctx := c.Request().Context()
	stored, err := h.Uploads.save(ctx, img, constraints)
	if err != nil {
		return err
	}
	g := &model.GalleryImage{InvitationID: invitationID, Image: stored}
	if err := h.Gallery.Create(ctx, g); err != nil {
		h.Uploads.discard(ctx, stored)
		return err
	}
	return respond(c, http.StatusCreated, g)
}

// ListGallery handles GET /undangan/:undangan_id/galery.
func (h *ContentHandler) ListGallery(c echo.Context) error {
	invitationID, err := h.readable(c)
	if err != nil {
		return err
	}
	list, err := h.Gallery.ListByInvitation(c.Request().Context(), invitationID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return notFound("no galery found for this undangan")
	}
	return respond(c, http.StatusOK, list)
}

// UpdateGalleryImage handles PUT and POST /galery/:id.  Without a new image
// the row is returned unchanged.
func (h *ContentHandler) UpdateGalleryImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	errs := fieldErrors{}
	rawClaim, hasClaim := formValue(c, "undangan_id")
	claimed := parseUintField(errs, "undangan_id", rawClaim, hasClaim)
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
	g, err := h.Gallery.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, g.InvitationID, claimed); err != nil {
		return err
	}
	if img == nil {
		return respond(c, http.StatusOK, g)
	}

	stored, err := h.Uploads.save(ctx, img, constraints)
	if err != nil {
		return err
	}
	g.Image = stored
	if err := h.Gallery.Update(ctx, g); err != nil {
		h.Uploads.discard(ctx, stored)
		return err
	}
	return respond(c, http.StatusOK, g)
}

// DeleteGalleryImage handles DELETE /galery/:id.
func (h *ContentHandler) DeleteGalleryImage(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	g, err := h.Gallery.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, g.InvitationID, nil); err != nil {
		return err
	}
	if err := h.Gallery.Delete(ctx, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "galery deleted")
}
