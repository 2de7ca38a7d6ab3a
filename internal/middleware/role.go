package middleware

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/undangan-builder/internal/policy"
)

// RequireAdmin rejects callers that are not administrators.  It must run
// after JWTAuth; an anonymous request gets policy.ErrUnauthenticated, a
// regular user policy.ErrForbidden.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if err := policy.Admin(ActorFrom(c)); err != nil {
                return err
            }
            return next(c)
        }
    }
}
