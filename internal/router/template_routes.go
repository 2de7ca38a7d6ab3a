package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/handler"
	"github.com/iliyamo/undangan-builder/internal/middleware"
)

// Cache areas.  Admin writes drop the cached reads of their area.
const (
	templatesArea = "templates"
	banksArea     = "banks"
)

// RegisterTemplates registers the marketplace.  The public list and detail
// are cached; uploads and updates are admin only.
func RegisterTemplates(e *echo.Echo, h *handler.TemplateHandler, jwtSecret string, cache *middleware.ResponseCache) {
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireAdmin()
	cached := cache.Cached(templatesArea)
	invalidates := cache.Invalidates(templatesArea)

	e.GET("/templates", h.List, cached)
	e.GET("/templates/:id", h.Show, cached)
	e.POST("/save-template", h.Save, auth)
	e.GET("/my-templates", h.Mine, auth)

	e.POST("/templates", h.Upload, auth, admin, invalidates)
	e.PUT("/templates/:id", h.Update, auth, admin, invalidates)
	e.GET("/all-templates", h.ListAll, auth, admin)
}

// RegisterBanks registers the bank list.  Reads are public and cached.
func RegisterBanks(e *echo.Echo, h *handler.BankHandler, jwtSecret string, cache *middleware.ResponseCache) {
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireAdmin()
	invalidates := cache.Invalidates(banksArea)

	e.GET("/banks", h.List, cache.Cached(banksArea))
	e.POST("/banks", h.Create, auth, admin, invalidates)
	e.PUT("/banks/:id", h.Update, auth, admin, invalidates)
	e.POST("/banks/:id", h.Update, auth, admin, invalidates)
	e.DELETE("/banks/:id", h.Delete, auth, admin, invalidates)
}
