package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/undangan-builder/internal/policy"
)

// actorKey is the echo context key holding the *policy.Actor set by JWTAuth
// or OptionalJWT.
const actorKey = "actor"

// ActorFrom returns the authenticated caller, or nil for anonymous requests.
// Handlers pass the result explicitly into policy checks.
func ActorFrom(c echo.Context) *policy.Actor {
    if a, ok := c.Get(actorKey).(*policy.Actor); ok {
        return a
    }
    return nil
}

// WithActor stores a into the context.
func WithActor(c echo.Context, a *policy.Actor) { c.Set(actorKey, a) }

// userID is the rate limit and log key for the caller, "guest" when anonymous.
func userID(c echo.Context) string {
    if a := ActorFrom(c); a != nil {
        return strconv.FormatUint(a.UserID, 10)
    }
    return "guest"
}
