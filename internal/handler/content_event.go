package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/model"
)

type createEventReq struct {
	UndanganID *uint64 `json:"undangan_id"`
	Title      string  `json:"title" validate:"required,notblank,max=255"`
	Desc       string  `json:"desc" validate:"required,notblank"`
	Date       string  `json:"date" validate:"required,notblank"`
	Icon       string  `json:"icon" validate:"required,notblank,max=255"`
}

// updateEventReq is partial: nil fields keep their stored value.
type updateEventReq struct {
	UndanganID *uint64 `json:"undangan_id"`
	Title      *string `json:"title" validate:"omitempty,notblank,max=255"`
	Desc       *string `json:"desc" validate:"omitempty,notblank"`
	Date       *string `json:"date" validate:"omitempty,notblank"`
	Icon       *string `json:"icon" validate:"omitempty,notblank,max=255"`
}

// CreateEvent handles POST /undangan/:undangan_id/acara.
func (h *ContentHandler) CreateEvent(c echo.Context) error {
	invitationID, err := parseID(c, invitationParam)
	if err != nil {
		return err
	}
	var req createEventReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return invalid("date", "is not a valid date")
	}
	if err := h.authorize(c, invitationID, req.UndanganID); err != nil {
		return err
	}

	e := &model.Event{
		InvitationID: invitationID,
		Title:        strings.TrimSpace(req.Title),
		Desc:         strings.TrimSpace(req.Desc),
		Date:         date,
		Icon:         strings.TrimSpace(req.Icon),
	}
	if err := h.Events.Create(c.Request().Context(), e); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, e)
}

// ListEvents handles GET /undangan/:undangan_id/acara.
func (h *ContentHandler) ListEvents(c echo.Context) error {
	invitationID, err := h.readable(c)
	if err != nil {
		return err
	}
	list, err := h.Events.ListByInvitation(c.Request().Context(), invitationID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return notFound("no acara found for this undangan")
	}
	return respond(c, http.StatusOK, list)
}

// UpdateEvent handles PUT /acara/:id.
func (h *ContentHandler) UpdateEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req updateEventReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	var date *time.Time
	if req.Date != nil {
		d, ok := parseDate(*req.Date)
		if !ok {
			return invalid("date", "is not a valid date")
		}
		date = &d
	}

	ctx := c.Request().Context()
	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, e.InvitationID, req.UndanganID); err != nil {
		return err
	}

	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Desc != nil {
		e.Desc = strings.TrimSpace(*req.Desc)
	}
	if date != nil {
		e.Date = *date
	}
	if req.Icon != nil {
		e.Icon = strings.TrimSpace(*req.Icon)
	}
	if err := h.Events.Update(ctx, e); err != nil {
		return err
	}
	return respond(c, http.StatusOK, e)
}

// DeleteEvent handles DELETE /acara/:id.
func (h *ContentHandler) DeleteEvent(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return rowMissing(err)
	}
	if err := h.authorize(c, e.InvitationID, nil); err != nil {
		return err
	}
	if err := h.Events.Delete(ctx, id); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "acara deleted")
}
