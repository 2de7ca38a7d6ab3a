package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/undangan-builder/internal/middleware"
	"github.com/iliyamo/undangan-builder/internal/model"
	"github.com/iliyamo/undangan-builder/internal/policy"
	"github.com/iliyamo/undangan-builder/internal/queue"
	"github.com/iliyamo/undangan-builder/internal/repository"
)

// TemplatePageSize is the page size of every template listing.
const TemplatePageSize = 10

// TemplateHandler serves the marketplace, admin template management and
// user bookmarks.
type TemplateHandler struct {
	Templates *repository.TemplateRepo
	Saved     *repository.SavedTemplateRepo
	Uploads   Uploads
	Bus       queue.Publisher
	Log       *zap.Logger
}

type updateTemplateReq struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"required,notblank"`
	Type        string `json:"type" validate:"required,oneof=free premium"`
	Price       *int64 `json:"price" validate:"omitempty,min=0"`
	FlagActive  *bool  `json:"flag_active" validate:"required"`
}

type saveTemplateReq struct {
	TemplateID string `json:"template_id"`
	ID         string `json:"id"`
}

// templatePrice applies the pricing rule: premium needs a positive price,
// free always stores 0.  A non-empty msg describes the violation.
func templatePrice(kind string, price *int64) (value int64, msg string) {
	if kind != model.TemplatePremium {
		return 0, ""
	}
	if price == nil {
		return 0, "is required when type is premium"
	}
	if *price <= 0 {
		return 0, "must be greater than 0"
	}
	return *price, ""
}

// maxPage keeps (page-1)*TemplatePageSize inside a MySQL-safe OFFSET.
const maxPage = math.MaxInt32 / TemplatePageSize

func pageParam(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxPage)
}

// List returns active templates, TemplatePageSize per page.
func (h *TemplateHandler) List(c echo.Context) error {
	page := repository.Page{Number: pageParam(c), PerPage: TemplatePageSize}
	list, total, err := h.Templates.ListActive(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return respondPage(c, list, newPageMeta(page.Number, page.PerPage, total))
}

// ListAll is List for admins, inactive templates included.
func (h *TemplateHandler) ListAll(c echo.Context) error {
	page := repository.Page{Number: pageParam(c), PerPage: TemplatePageSize}
	list, total, err := h.Templates.ListAll(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return respondPage(c, list, newPageMeta(page.Number, page.PerPage, total))
}

// Show returns one active template.
func (h *TemplateHandler) Show(c echo.Context) error {
	t, err := h.Templates.GetActiveByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Upload stores the template package and optional thumbnail, then inserts
// the template.  Admin only; enforced by the route.
func (h *TemplateHandler) Upload(c echo.Context) error {
	errs := fieldErrors{}
	title, hasTitle := formValue(c, "title")
	desc, hasDesc := formValue(c, "description")
	kind, _ := formValue(c, "type")
	rawPrice, hasPrice := formValue(c, "price")
	rawActive, hasActive := formValue(c, "flag_active")

	errs.require("title", title, hasTitle)
	if len(title) > 255 {
		errs["title"] = "may not be greater than 255"
	}
	errs.require("description", desc, hasDesc)
	kind = strings.ToLower(kind)
	if kind != model.TemplateFree && kind != model.TemplatePremium {
		errs["type"] = "must be one of: free, premium"
	}
	var price *int64
	if hasPrice && rawPrice != "" {
		p, err := strconv.ParseInt(rawPrice, 10, 64)
		if err != nil {
			errs["price"] = "must be a number"
		} else {
			price = &p
		}
	}
	active := parseBoolField(errs, "flag_active", rawActive, hasActive)

	file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	thumb, err := formFile(c, "thumbnail")
	if err != nil {
		return err
	}
	if _, bad := errs["price"]; !bad {
		if _, msg := templatePrice(kind, price); msg != "" {
			errs["price"] = msg
		}
	}
	if err := errs.err(); err != nil {
		return err
	}

	pkg := h.Uploads.pkg()
	if err := h.Uploads.check(file, "file", pkg); err != nil {
		return err
	}
	thumbC := h.Uploads.image(thumbnailDir)
	if thumb != nil {
		if err := h.Uploads.check(thumb, "thumbnail", thumbC); err != nil {
			return err
		}
	}

	ctx := c.Request().Context()
	t := &model.Template{Title: title, Description: desc, Type: kind, FlagActive: true}
	t.Price, _ = templatePrice(kind, price)
	if active != nil {
		t.FlagActive = *active
	}
	if t.FilePath, err = h.Uploads.save(ctx, file, pkg); err != nil {
		return err
	}
	thumbPath := ""
	if thumb != nil {
		if thumbPath, err = h.Uploads.save(ctx, thumb, thumbC); err != nil {
			h.Uploads.discard(ctx, t.FilePath)
			return err
		}
		t.ThumbnailPath = &thumbPath
	}
	if err := h.Templates.Create(ctx, t); err != nil {
		h.Uploads.discard(ctx, t.FilePath, thumbPath)
		return err
	}
	h.Log.Info("template uploaded", zap.String("template_id", t.ID), zap.String("type", t.Type))

	publishEvent(ctx, h.Bus, h.Log, queue.TemplateUploaded, queue.TemplateUploadedEvent{
		TemplateID: t.ID,
		Title:      t.Title,
		Type:       t.Type,
		Price:      t.Price,
		UploadedAt: t.CreatedAt,
	})
	return respond(c, http.StatusCreated, t)
}

// Update replaces title, description, type, price and flag_active.
func (h *TemplateHandler) Update(c echo.Context) error {
	var req updateTemplateReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	price, msg := templatePrice(req.Type, req.Price)
	if msg != "" {
		return invalid("price", msg)
	}

	ctx := c.Request().Context()
	t, err := h.Templates.GetByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	t.Title = strings.TrimSpace(req.Title)
	t.Description = strings.TrimSpace(req.Description)
	t.Type = req.Type
	t.Price = price
	t.FlagActive = *req.FlagActive
	if err := h.Templates.Update(ctx, t); err != nil {
		return err
	}
	return respond(c, http.StatusOK, t)
}

// Save bookmarks a template for the caller.  Saving the same template twice
// is a conflict.
func (h *TemplateHandler) Save(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := policy.Authenticated(actor); err != nil {
		return err
	}
	var req saveTemplateReq
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	id := strings.TrimSpace(req.TemplateID)
	if id == "" {
		id = strings.TrimSpace(req.ID)
	}
	if id == "" {
		return invalid("template_id", "is required")
	}

	ctx := c.Request().Context()
	ok, err := h.Templates.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return invalid("template_id", "does not exist")
	}
	saved, err := h.Saved.Save(ctx, actor.UserID, id)
	if err != nil {
		return err
	}

	publishEvent(ctx, h.Bus, h.Log, queue.TemplateSaved, queue.TemplateSavedEvent{
		UserID:     actor.UserID,
		TemplateID: id,
		SavedAt:    time.Now().UTC(),
	})
	return respond(c, http.StatusCreated, saved)
}

// Mine lists the caller's bookmarked templates that are still active.
func (h *TemplateHandler) Mine(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	if err := policy.Authenticated(actor); err != nil {
		return err
	}
	list, err := h.Saved.ListTemplates(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, list)
}
