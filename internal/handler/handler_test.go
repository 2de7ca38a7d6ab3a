package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/undangan-builder/internal/model"
	"github.com/iliyamo/undangan-builder/internal/policy"
	"github.com/iliyamo/undangan-builder/internal/repository"
	"github.com/iliyamo/undangan-builder/internal/storage"
)

func render(t *testing.T, err error, exposeDetail bool) (int, errorBody) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()
	ErrorHandler(zap.NewNop(), exposeDetail)(err, e.NewContext(req, rec))

	var env struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env.Error
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", policy.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"forbidden", policy.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"collapsed not found", policy.ErrNotFoundOrUnauthorized, http.StatusNotFound, "not_found"},
		{"row not found", fmt.Errorf("load: %w", repository.ErrNotFound), http.StatusNotFound, "not_found"},
		{"conflict", repository.ErrConflict, http.StatusConflict, "conflict"},
		{"email taken", repository.ErrEmailExists, http.StatusUnprocessableEntity, "validation_failed"},
		{"bad file", storage.ErrInvalidType, http.StatusUnprocessableEntity, "validation_failed"},
		{"field", invalid("title", "is required"), http.StatusUnprocessableEntity, "validation_failed"},
		{"bad request", badRequest("invalid id"), http.StatusBadRequest, "bad_request"},
		{"echo", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "too_many_requests"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := render(t, tc.err, false)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorHandlerDetailOnlyWhenExposed(t *testing.T) {
	_, hidden := render(t, errors.New("db down"), false)
	assert.Empty(t, hidden.Detail)

	_, shown := render(t, errors.New("db down"), true)
	assert.Equal(t, "db down", shown.Detail)
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createInvitationReq{TemplateID: "tpl-1", ManName: "  ", WomanName: "Siti", ManNickname: "B"})
	require.Error(t, err)
	_, body := render(t, err, false)
	assert.Equal(t, "is required", body.Fields["man_name"])
	assert.Equal(t, "is required", body.Fields["woman_nickname"])
	assert.NotContains(t, body.Fields, "woman_name")
}

func TestValidatorPartialUpdateRejectsBlank(t *testing.T) {
	v := NewValidator()
	blank := ""
	title := "Resepsi"

	assert.NoError(t, v.Validate(&updateEventReq{}))
	assert.NoError(t, v.Validate(&updateEventReq{Title: &title}))
	assert.Error(t, v.Validate(&updateEventReq{Title: &blank}))
}

func TestTemplatePrice(t *testing.T) {
	p := func(n int64) *int64 { return &n }

	price, msg := templatePrice(model.TemplateFree, p(50000))
	assert.Equal(t, int64(0), price)
	assert.Empty(t, msg)

	price, msg = templatePrice(model.TemplateFree, nil)
	assert.Equal(t, int64(0), price)
	assert.Empty(t, msg)

	_, msg = templatePrice(model.TemplatePremium, nil)
	assert.NotEmpty(t, msg)

	_, msg = templatePrice(model.TemplatePremium, p(0))
	assert.NotEmpty(t, msg)

	price, msg = templatePrice(model.TemplatePremium, p(150000))
	assert.Equal(t, int64(150000), price)
	assert.Empty(t, msg)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	for _, in := range []string{"2025-06-01T08:30:00Z", "2025-06-01T15:30:00+07:00", "2025-06-01 08:30:00", "2025-06-01T08:30"} {
		got, ok := parseDate(in)
		assert.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
	}

	got, ok := parseDate("2025-06-01")
	assert.True(t, ok)
	assert.Equal(t, 1, got.Day())

	_, ok = parseDate("besok")
	assert.False(t, ok)
}

func TestPageMeta(t *testing.T) {
	assert.Equal(t, 1, newPageMeta(1, 10, 0).LastPage)
	assert.Equal(t, 1, newPageMeta(1, 10, 10).LastPage)
	assert.Equal(t, 3, newPageMeta(2, 10, 21).LastPage)
}

func TestFieldErrors(t *testing.T) {
	errs := fieldErrors{}
	errs.require("name", "", false)
	errs.notBlank("title", "", true)
	errs.notBlank("desc", "", false)
	id := parseUintField(errs, "undangan_id", "abc", true)
	active := parseBoolField(errs, "flag_active", "yes", true)

	assert.Nil(t, id)
	require.NotNil(t, active)
	assert.True(t, *active)

	var verr *ValidationError
	require.ErrorAs(t, errs.err(), &verr)
	assert.Equal(t, []string{"name", "title", "undangan_id"}, sortedKeys(verr.Fields))
	assert.NoError(t, fieldErrors{}.err())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestPageParamClampsHugePages(t *testing.T) {
	e := echo.New()
	for query, want := range map[string]int{
		"":                     1,
		"page=0":               1,
		"page=abc":             1,
		"page=3":               3,
		"page=922337203685477": maxPage,
	} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/templates?"+query, nil), httptest.NewRecorder())
		got := pageParam(c)
		assert.Equal(t, want, got, query)
		assert.GreaterOrEqual(t, repository.Page{Number: got, PerPage: TemplatePageSize}.Offset(), 0, query)
	}
}
