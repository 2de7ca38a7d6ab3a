package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/handler"
	"github.com/iliyamo/undangan-builder/internal/middleware"
)

// RegisterInvitations registers /undangan.  Every route needs a token.
func RegisterInvitations(e *echo.Echo, h *handler.InvitationHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)

	e.GET("/undangan", h.Index, auth)
	e.GET("/my-undangan", h.Index, auth)
	e.POST("/undangan", h.Create, auth)
	e.GET("/undangan/:id", h.Show, auth)
	e.PUT("/undangan/:id", h.Update, auth)
	e.DELETE("/undangan/:id", h.Delete, auth)
}

// RegisterContent registers acara, story, galery and rekening.  Lists accept
// an optional token; whether they require one is decided by the read scope.
func RegisterContent(e *echo.Echo, h *handler.ContentHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	maybe := middleware.OptionalJWT(jwtSecret)

	// ---- Acara ----
	e.GET("/undangan/:undangan_id/acara", h.ListEvents, maybe)
	e.POST("/undangan/:undangan_id/acara", h.CreateEvent, auth)
	e.PUT("/acara/:id", h.UpdateEvent, auth)
	e.DELETE("/acara/:id", h.DeleteEvent, auth)

	// ---- Story ----
	e.GET("/undangan/:undangan_id/story", h.ListStories, maybe)
	e.POST("/undangan/:undangan_id/story", h.CreateStory, auth)
	e.PUT("/story/:id", h.UpdateStory, auth)
	e.POST("/story/:id", h.UpdateStory, auth) // multipart clients that cannot send PUT
	e.DELETE("/story/:id", h.DeleteStory, auth)

	// ---- Galery ----
	e.GET("/undangan/:undangan_id/galery", h.ListGallery, maybe)
	e.POST("/undangan/:undangan_id/galery", h.CreateGalleryImage, auth)
	e.PUT("/galery/:id", h.UpdateGalleryImage, auth)
	e.POST("/galery/:id", h.UpdateGalleryImage, auth)
	e.DELETE("/galery/:id", h.DeleteGalleryImage, auth)

	// ---- Rekening ----
	e.GET("/undangan/:undangan_id/rekening", h.ListBankAccounts, maybe)
	e.POST("/undangan/:undangan_id/rekening", h.CreateBankAccount, auth)
	e.PUT("/rekening/:id", h.UpdateBankAccount, auth)
	e.DELETE("/rekening/:id", h.DeleteBankAccount, auth)
}
