package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/undangan-builder/internal/metrics"
	"github.com/iliyamo/undangan-builder/internal/middleware"
	"github.com/iliyamo/undangan-builder/internal/model"
	"github.com/iliyamo/undangan-builder/internal/policy"
	"github.com/iliyamo/undangan-builder/internal/queue"
	"github.com/iliyamo/undangan-builder/internal/repository"
)

// InvitationHandler serves /undangan.
type InvitationHandler struct {
	Invitations  *repository.InvitationRepo
	Templates    *repository.TemplateRepo
	Events       *repository.EventRepo
	Stories      *repository.StoryRepo
	Gallery      *repository.GalleryRepo
	BankAccounts *repository.BankAccountRepo
	Policy       *policy.Authorizer
	Bus          queue.Publisher
	Log          *zap.Logger
}

type createInvitationReq struct {
	TemplateID    string `json:"template_id" validate:"required,notblank,max=36"`
	ManName       string `json:"man_name" validate:"required,notblank,max=255"`
	WomanName     string `json:"woman_name" validate:"required,notblank,max=255"`
	ManNickname   string `json:"man_nickname" validate:"required,notblank,max=255"`
	WomanNickname string `json:"woman_nickname" validate:"required,notblank,max=255"`
}

// updateInvitationReq is a full replace; every field must be sent.
type updateInvitationReq struct {
	ManName       string `json:"man_name" validate:"required,notblank,max=255"`
	WomanName     string `json:"woman_name" validate:"required,notblank,max=255"`
	ManNickname   string `json:"man_nickname" validate:"required,notblank,max=255"`
	WomanNickname string `json:"woman_nickname" validate:"required,notblank,max=255"`
	ManAddress    string `json:"man_address" validate:"required,notblank,max=255"`
	WomanAddress  string `json:"woman_address" validate:"required,notblank,max=255"`
	ManFather     string `json:"man_father" validate:"required,notblank,max=255"`
	ManMother     string `json:"man_mother" validate:"required,notblank,max=255"`
	WomanFather   string `json:"woman_father" validate:"required,notblank,max=255"`
	WomanMother   string `json:"woman_mother" validate:"required,notblank,max=255"`
}

// Index lists the caller's invitations.
func (h *InvitationHandler) Index(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := policy.Authenticated(actor); err != nil {
		return err
	}
	list, err := h.Invitations.ListByUser(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list)
}

// Create inserts the invitation with its default event, story, gallery
// image and bank account.  The response carries the invitation only.
func (h *InvitationHandler) Create(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := policy.Authenticated(actor); err != nil {
		return err
	}
	var req createInvitationReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()

	req.TemplateID = strings.TrimSpace(req.TemplateID)
	ok, err := h.Templates.Exists(ctx, req.TemplateID)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("template_id", "does not exist")
	}

	inv := &model.Invitation{
		UserID:        actor.UserID,
		TemplateID:    req.TemplateID,
		ManName:       strings.TrimSpace(req.ManName),
		WomanName:     strings.TrimSpace(req.WomanName),
		ManNickname:   strings.TrimSpace(req.ManNickname),
		WomanNickname: strings.TrimSpace(req.WomanNickname),
	}
	repository.ApplyDefaults(inv)
	seed := repository.DefaultSeed(time.Now())
	if err := h.Invitations.CreateWithSeed(ctx, inv, &seed); err != nil {
		return err
	}
	metrics.InvitationCreated()

	publishEvent(ctx, h.Bus, h.Log, queue.InvitationCreated, queue.InvitationCreatedEvent{
		InvitationID: inv.ID,
		UserID:       inv.UserID,
		TemplateID:   inv.TemplateID,
		ManName:      inv.ManName,
		WomanName:    inv.WomanName,
		CreatedAt:    inv.CreatedAt,
	})
	return respond(c, http.StatusCreated, inv)
}

// Show returns the invitation with its four child collections.
func (h *InvitationHandler) Show(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.Policy.Invitation(ctx, middleware.ActorFrom(c), id); err != nil {
		return err
	}

	inv, err := h.Invitations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d := model.InvitationDetail{Invitation: *inv}
	if d.Events, err = h.Events.ListByInvitation(ctx, id); err != nil {
		return err
	}
	if d.Stories, err = h.Stories.ListByInvitation(ctx, id); err != nil {
		return err
	}
	if d.Gallery, err = h.Gallery.ListByInvitation(ctx, id); err != nil {
		return err
	}
	if d.BankAccounts, err = h.BankAccounts.ListByInvitation(ctx, id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, d)
}

// Update replaces the ten descriptive fields.
func (h *InvitationHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	actor := middleware.ActorFrom(c)
	if err := policy.Authenticated(actor); err != nil {
		return err
	}
	var req updateInvitationReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.Policy.Invitation(ctx, actor, id); err != nil {
		return err
	}

	inv, err := h.Invitations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	inv.ManName = strings.TrimSpace(req.ManName)
	inv.WomanName = strings.TrimSpace(req.WomanName)
	inv.ManNickname = strings.TrimSpace(req.ManNickname)
	inv.WomanNickname = strings.TrimSpace(req.WomanNickname)
	inv.ManAddress = strings.TrimSpace(req.ManAddress)
	inv.WomanAddress = strings.TrimSpace(req.WomanAddress)
	inv.ManFather = strings.TrimSpace(req.ManFather)
	inv.ManMother = strings.TrimSpace(req.ManMother)
	inv.WomanFather = strings.TrimSpace(req.WomanFather)
	inv.WomanMother = strings.TrimSpace(req.WomanMother)
	if err := h.Invitations.Update(ctx, inv); err != nil {
		return err
	}
	return respond(c, http.StatusOK, inv)
}

// Delete removes the invitation; the foreign keys take the children along.
func (h *InvitationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	actor := middleware.ActorFrom(c)
	ctx := c.Request().Context()
	if err := h.Policy.Invitation(ctx, actor, id); err != nil {
		return err
	}
	if err := h.Invitations.DeleteByIDAndOwner(ctx, id, actor.UserID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "undangan deleted")
}

// publishEvent sends a domain event.  A broker failure is logged only; the
// database change has already been committed.
func publishEvent(ctx context.Context, bus queue.Publisher, log *zap.Logger, key string, event any) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, key, event); err != nil {
		log.Warn("publish event failed", zap.String("routing_key", key), zap.Error(err))
	}
}
