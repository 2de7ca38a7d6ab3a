package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// envelope is the single response shape: {"data": ...} on success,
// {"error": {...}} on failure, plus "meta" for paginated lists.
type envelope struct {
	Data  any        `json:"data,omitempty"`
	Meta  *pageMeta  `json:"meta,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

type pageMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

func newPageMeta(page, perPage int, total int64) *pageMeta {
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	return &pageMeta{CurrentPage: page, PerPage: perPage, Total: total, LastPage: last}
}

type messageData struct {
	Message string `json:"message"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Data: data})
}

func respondPage(c echo.Context, data any, meta *pageMeta) error {
	return c.JSON(http.StatusOK, envelope{Data: data, Meta: meta})
}

func respondMessage(c echo.Context, status int, msg string) error {
	return c.JSON(status, envelope{Data: messageData{Message: msg}})
}
