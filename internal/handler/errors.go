package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/undangan-builder/internal/metrics"
	"github.com/iliyamo/undangan-builder/internal/policy"
	"github.com/iliyamo/undangan-builder/internal/repository"
	"github.com/iliyamo/undangan-builder/internal/storage"
)

// ValidationError carries per-field messages and maps to 422.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// apiError is an error with a fixed status and public message.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string { return e.Message }

func notFound(msg string) error {
	return &apiError{Status: http.StatusNotFound, Code: "not_found", Message: msg}
}

func badRequest(msg string) error {
	return &apiError{Status: http.StatusBadRequest, Code: "bad_request", Message: msg}
}

// ErrorHandler turns every error returned by handlers and middleware into the
// JSON envelope.  Unknown errors become 500; their text is only included in
// the response when exposeDetail is set.
func ErrorHandler(log *zap.Logger, exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := classify(err)
		if status == http.StatusInternalServerError {
			log.Error("unhandled error",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			if exposeDetail {
				body.Detail = err.Error()
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, envelope{Error: body})
		}
		if err != nil {
			log.Warn("write error response failed", zap.Error(err))
		}
	}
}

func classify(err error) (int, *errorBody) {
	var (
		verr  *ValidationError
		vErrs validator.ValidationErrors
		aerr  *apiError
		herr  *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, &errorBody{Code: "validation_failed", Message: "the given data was invalid", Fields: verr.Fields}
	case errors.As(err, &vErrs):
		return http.StatusUnprocessableEntity, &errorBody{Code: "validation_failed", Message: "the given data was invalid", Fields: fieldMessages(vErrs)}
	case errors.Is(err, policy.ErrUnauthenticated):
		metrics.Denied("unauthenticated")
		return http.StatusUnauthorized, &errorBody{Code: "unauthenticated", Message: "authentication required"}
	case errors.Is(err, policy.ErrForbidden):
		metrics.Denied("forbidden")
		return http.StatusForbidden, &errorBody{Code: "forbidden", Message: "forbidden"}
	case errors.Is(err, policy.ErrNotFoundOrUnauthorized):
		metrics.Denied("not_found_or_unauthorized")
		return http.StatusNotFound, &errorBody{Code: "not_found", Message: "undangan not found or unauthorized"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, &errorBody{Code: "not_found", Message: "resource not found"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, &errorBody{Code: "conflict", Message: "resource already exists"}
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusUnprocessableEntity, &errorBody{Code: "validation_failed", Message: "the given data was invalid",
			Fields: map[string]string{"email": "has already been taken"}}
	case errors.Is(err, storage.ErrMissingFile), errors.Is(err, storage.ErrInvalidType), errors.Is(err, storage.ErrTooLarge):
		return http.StatusUnprocessableEntity, &errorBody{Code: "validation_failed", Message: err.Error()}
	case errors.As(err, &aerr):
		return aerr.Status, &errorBody{Code: aerr.Code, Message: aerr.Message}
	case errors.As(err, &herr):
		msg := http.StatusText(herr.Code)
		if s, ok := herr.Message.(string); ok && s != "" {
			msg = s
		}
		return herr.Code, &errorBody{Code: codeForStatus(herr.Code), Message: msg}
	}
	return http.StatusInternalServerError, &errorBody{Code: "internal_error", Message: "internal server error"}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "too_large"
	case http.StatusTooManyRequests:
		return "too_many_requests"
	}
	if status >= 500 {
		return "internal_error"
	}
	return "error"
}

func fieldMessages(errs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = tagMessage(fe)
	}
	return out
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "notblank":
		return "is required"
	case "max":
		return fmt.Sprintf("may not be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid id"
	}
	return "is invalid"
}
