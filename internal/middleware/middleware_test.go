package middleware

import (
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap"

    "github.com/iliyamo/undangan-builder/internal/config"
    "github.com/iliyamo/undangan-builder/internal/model"
    "github.com/iliyamo/undangan-builder/internal/policy"
    "github.com/iliyamo/undangan-builder/internal/utils"
)

const secret = "test-secret"

func token(t *testing.T, uid uint64, role string) string {
    t.Helper()
    tok, err := utils.NewAccessToken(secret, uid, role, 5)
    require.NoError(t, err)
    return "Bearer " + tok.Token
}

func run(mw echo.MiddlewareFunc, authHeader string) (*policy.Actor, error) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/", nil)
    if authHeader != "" {
        req.Header.Set(echo.HeaderAuthorization, authHeader)
    }
    c := e.NewContext(req, httptest.NewRecorder())
    var seen *policy.Actor
    err := mw(func(c echo.Context) error {
        seen = ActorFrom(c)
        return nil
    })(c)
    return seen, err
}

func statusOf(err error) int {
    var he *echo.HTTPError
    if errors.As(err, &he) {
        return he.Code
    }
    return 0
}

func TestJWTAuth(t *testing.T) {
    actor, err := run(JWTAuth(secret), token(t, 7, model.RoleUser))
    require.NoError(t, err)
    assert.Equal(t, &policy.Actor{UserID: 7, Role: model.RoleUser}, actor)

    _, err = run(JWTAuth(secret), "")
    assert.Equal(t, http.StatusUnauthorized, statusOf(err))

    _, err = run(JWTAuth(secret), "Bearer not-a-jwt")
    assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestOptionalJWT(t *testing.T) {
    actor, err := run(OptionalJWT(secret), "")
    require.NoError(t, err)
    assert.Nil(t, actor)

    actor, err = run(OptionalJWT(secret), token(t, 3, model.RoleAdmin))
    require.NoError(t, err)
    assert.True(t, actor.IsAdmin())

    _, err = run(OptionalJWT(secret), "Bearer garbage")
    assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

func TestRequireAdmin(t *testing.T) {
    chain := func(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return JWTAuth(secret)(mw(next)) }
    }

    _, err := run(chain(RequireAdmin()), token(t, 7, model.RoleUser))
    assert.ErrorIs(t, err, policy.ErrForbidden)

    _, err = run(chain(RequireAdmin()), token(t, 1, model.RoleAdmin))
    assert.NoError(t, err)

    _, err = run(RequireAdmin(), "")
    assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"data":[]}`))
    require.NoError(t, err)

    status, got, body, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", got.Get("Content-Type"))
    assert.Equal(t, `{"data":[]}`, string(body))

    _, _, _, ok = decodePayload([]byte{0, 1})
    assert.False(t, ok)
}

func TestCacheKeyIncludesConcretePath(t *testing.T) {
    a := httptest.NewRequest(http.MethodGet, "/templates/a", nil)
    b := httptest.NewRequest(http.MethodGet, "/templates/b", nil)
    p2 := httptest.NewRequest(http.MethodGet, "/templates?page=2", nil)
    p3 := httptest.NewRequest(http.MethodGet, "/templates?page=3", nil)

    assert.NotEqual(t, cacheKey("c", "templates", 0, a), cacheKey("c", "templates", 0, b))
    assert.NotEqual(t, cacheKey("c", "templates", 0, p2), cacheKey("c", "templates", 0, p3))
    assert.NotEqual(t, cacheKey("c", "templates", 0, a), cacheKey("c", "templates", 1, a))
    assert.Equal(t, cacheKey("c", "templates", 0, a), cacheKey("c", "templates", 0, httptest.NewRequest(http.MethodGet, "/templates/a", nil)))
}

func TestRateKeyStrategies(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/undangan", nil)
    req.RemoteAddr = "10.0.0.9:5555"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/undangan")
    WithActor(c, &policy.Actor{UserID: 42})

    assert.Equal(t, "rl:ip:10.0.0.9", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
    assert.Equal(t, "rl:user:42", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
    assert.Equal(t, "rl:ip:10.0.0.9:user:42:route:POST /undangan", rateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
    cache := NewResponseCache(config.CacheConfig{Enabled: true}, nil, nil)
    _, err := run(cache.Cached("templates"), "")
    assert.NoError(t, err)
    _, err = run(cache.Invalidates("templates"), "")
    assert.NoError(t, err)
    _, err = run(NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil), "")
    assert.NoError(t, err)
}

func newRedis(t *testing.T) *redis.Client {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return rdb
}

func TestResponseCacheInvalidatesArea(t *testing.T) {
    cache := NewResponseCache(config.CacheConfig{
        Enabled: true,
        Methods: map[string]bool{http.MethodGet: true},
        TTL:     time.Minute,
        Prefix:  "c",
    }, newRedis(t), zap.NewNop())

    calls := 0
    e := echo.New()
    e.GET("/banks", func(c echo.Context) error {
        calls++
        return c.JSON(http.StatusOK, map[string]int{"calls": calls})
    }, cache.Cached("banks"))
    e.POST("/banks", func(c echo.Context) error {
        return c.JSON(http.StatusCreated, nil)
    }, cache.Invalidates("banks"))
    e.POST("/banks/fail", func(c echo.Context) error {
        return echo.NewHTTPError(http.StatusUnprocessableEntity)
    }, cache.Invalidates("banks"))

    get := func() *httptest.ResponseRecorder {
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/banks", nil))
        return rec
    }
    post := func(path string) {
        e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
    }

    assert.Equal(t, "MISS", get().Header().Get("X-Cache"))
    rec := get()
    assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
    assert.JSONEq(t, `{"calls":1}`, rec.Body.String())

    post("/banks/fail")
    assert.Equal(t, "HIT", get().Header().Get("X-Cache"))

    post("/banks")
    rec = get()
    assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
    assert.JSONEq(t, `{"calls":2}`, rec.Body.String())
}

func TestTokenBucketKeysOnIdentifiedUser(t *testing.T) {
    limit := NewTokenBucket(config.RateLimitConfig{
        Enabled:        true,
        Capacity:       1,
        RefillTokens:   1,
        RefillInterval: time.Hour,
        TTL:            time.Hour,
        KeyStrategy:    "user",
        Prefix:         "rl",
    }, newRedis(t), zap.NewNop())

    e := echo.New()
    e.Use(Identify(secret), limit)
    e.GET("/my-templates", func(c echo.Context) error {
        return c.NoContent(http.StatusOK)
    }, JWTAuth(secret))

    get := func(auth string) int {
        req := httptest.NewRequest(http.MethodGet, "/my-templates", nil)
        req.Header.Set(echo.HeaderAuthorization, auth)
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, req)
        return rec.Code
    }

    assert.Equal(t, http.StatusOK, get(token(t, 1, model.RoleUser)))
    assert.Equal(t, http.StatusOK, get(token(t, 2, model.RoleUser)))
    assert.Equal(t, http.StatusTooManyRequests, get(token(t, 1, model.RoleUser)))
}

func TestIdentifyIgnoresInvalidToken(t *testing.T) {
    actor, err := run(Identify(secret), "Bearer garbage")
    require.NoError(t, err)
    assert.Nil(t, actor)

    actor, err = run(Identify(secret), token(t, 9, model.RoleUser))
    require.NoError(t, err)
    assert.Equal(t, uint64(9), actor.UserID)
}
