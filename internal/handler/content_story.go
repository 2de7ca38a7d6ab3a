package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/model"
)

// CreateStory handles the multipart POST /undangan/:undangan_id/story.
func (h *ContentHandler) CreateStory(c echo.Context) error {
	invitationID, err := parseID(c, invitationParam)
	if err != nil {
		return err
	}

	errs := fieldErrors{}
	title, hasTitle := formValue(c, "title")
	desc, hasDesc := formValue(c, "desc")
	errs.require("title", title, hasTitle)
	errs.require("desc", desc, hasDesc)
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
	st := &model.Story{InvitationID: invitationID, Title: title, Desc: desc, Image: stored}
	if err := h.Stories.Create(ctx, st); err != nil {
		h.Uploads.discard(ctx, stored)
		return err
	}
	return respond(c, http.StatusCreated, st)
}

// ListStories handles GET /undangan/:undangan_id/story.
func (h *ContentHandler) ListStories(c echo.Context) error {
	invitationID, err := h.readable(c)
	if err != nil {
		return err
	}
	list, err := h.Stories.ListByInvitation(c.Request().Context(), invitationID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return notFound("no story found for this undangan")
	}
	return respond(c, http.StatusOK, list)
}

// UpdateStory handles PUT and POST /story/:id.  Every field is optional; a
// new image replaces the stored path.
func (h *ContentHandler) UpdateStory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	errs := fieldErrors{}
	title, hasTitle := formValue(c, "title")
	desc, hasDesc := formValue(c, "desc")
	errs.notBlank("title", title, hasTitle)
	errs.notBlank("desc", desc, hasDesc)
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
	st, err := h.Stories.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, st.InvitationID, claimed); err != nil {
		return err
	}

	if hasTitle {
		st.Title = title
	}
	if hasDesc {
		st.Desc = desc
	}
	stored := ""
	if img != nil {
		if stored, err = h.Uploads.save(ctx, img, constraints); err != nil {
			return err
		}
		st.Image = stored
	}
	if err := h.Stories.Update(ctx, st); err != nil {
		h.Uploads.discard(ctx, stored)
		return err
	}
	return respond(c, http.StatusOK, st)
}

// DeleteStory handles DELETE /story/:id.
func (h *ContentHandler) DeleteStory(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	st, err := h.Stories.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, st.InvitationID, nil); err != nil {
		return err
	}
	if err := h.Stories.Delete(ctx, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "story deleted")
}
