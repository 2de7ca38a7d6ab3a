package middleware // middleware provides reusable echo middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/undangan-builder/internal/policy"
    "github.com/iliyamo/undangan-builder/internal/utils"
)

// bearer extracts the token from an "Authorization: Bearer <jwt>" header.
func bearer(c echo.Context) (string, bool) {
    auth := c.Request().Header.Get(echo.HeaderAuthorization)
    if !strings.HasPrefix(auth, "Bearer ") {
        return "", false
    }
    raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
    return raw, raw != ""
}

func actorFromToken(secret, raw string) (*policy.Actor, error) {
    claims, err := utils.ParseAccessToken(secret, raw)
    if err != nil {
        return nil, err
    }
    uid, err := claims.UserID()
    if err != nil {
        return nil, err
    }
    return &policy.Actor{UserID: uid, Role: claims.Role}, nil
}

// JWTAuth requires a valid Bearer access token and stores the caller as the
// request's actor.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearer(c)
            if !ok {
                return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
            }
            actor, err := actorFromToken(secret, raw)
            if err != nil {
                return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
            }
            WithActor(c, actor)
            return next(c)
        }
    }
}

// OptionalJWT is JWTAuth for routes guests may also call.  A missing token
// leaves the request anonymous; a present but invalid one is still rejected.
func OptionalJWT(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw, ok := bearer(c)
            if !ok {
                return next(c)
            }
            actor, err := actorFromToken(secret, raw)
            if err != nil {
                return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
            }
            WithActor(c, actor)
            return next(c)
        }
    }
}

// Identify resolves the caller from a valid bearer token before the per-route
// middleware runs, so global middleware such as the rate limiter can key on
// the user.  Missing or invalid tokens leave the request anonymous; JWTAuth
// and OptionalJWT on the route still reject bad tokens.
func Identify(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if raw, ok := bearer(c); ok {
                if actor, err := actorFromToken(secret, raw); err == nil {
                    WithActor(c, actor)
                }
            }
            return next(c)
        }
    }
}
