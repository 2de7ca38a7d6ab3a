package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/undangan-builder/internal/middleware"
	"github.com/iliyamo/undangan-builder/internal/policy"
	"github.com/iliyamo/undangan-builder/internal/repository"
)

// ContentHandler serves the rows hanging off an invitation: acara, story,
// galery and rekening.  Writes always run the ownership check against the
// row's own invitation; list reads follow the configured read scope.
type ContentHandler struct {
	Events       *repository.EventRepo
	Stories      *repository.StoryRepo
	Gallery      *repository.GalleryRepo
	BankAccounts *repository.BankAccountRepo
	Policy       *policy.Authorizer
	Uploads      Uploads
}

// invitationParam is the path parameter naming the parent invitation.
const invitationParam = "undangan_id"

// authorize checks the caller may write rows of invitationID.  A request
// that names a different invitation is refused the same way as a foreign one.
func (h *ContentHandler) authorize(c echo.Context, invitationID uint64, claimed *uint64) error {
	return h.Policy.Child(c.Request().Context(), middleware.ActorFrom(c), invitationID, claimed)
}

// readable runs the list read check for the invitation in the path.
func (h *ContentHandler) readable(c echo.Context) (uint64, error) {
	id, err := parseID(c, invitationParam)
	if err != nil {
		return 0, err
	}
	if err := h.Policy.ReadChildren(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return 0, err
	}
	return id, nil
}

// rowMissing hides whether a child row exists from callers who could not
// touch it anyway.
func rowMissing(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return policy.ErrNotFoundOrUnauthorized
	}
	return err
}

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02"}

// parseDate accepts RFC 3339, MySQL DATETIME text or a bare date.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
