package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/undangan-builder/internal/config"
)

// captureWriter tees the response body (up to limit bytes) while writing it
// to the client.
type captureWriter struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int64
    truncated bool
}

func (cw *captureWriter) WriteHeader(code int) {
    cw.status = code
    cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
        cw.truncated = true
    } else {
        cw.buf.Write(b)
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey hashes the concrete request path and query under an area
// version.  The route pattern is not enough: /templates/:id must not share
// one entry across ids.
func cacheKey(prefix, area string, version int64, r *http.Request) string {
    sum := sha1.Sum([]byte(r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery))
    return fmt.Sprintf("%s:%s:v%d:%x", prefix, area, version, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdr, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdr)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
    copy(out[8:], hdr)
    copy(out[8+len(hdr):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}

// ResponseCache caches successful responses in Redis, grouped by area.
// Every area has a version counter folded into its keys; bumping it drops
// all cached entries of that area at once.  A nil Redis client or a disabled
// config turns both middlewares into pass-throughs.
type ResponseCache struct {
    cfg config.CacheConfig
    rdb *redis.Client
    log *zap.Logger
}

func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) *ResponseCache {
    return &ResponseCache{cfg: cfg, rdb: rdb, log: log}
}

func (rc *ResponseCache) enabled() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

func (rc *ResponseCache) versionKey(area string) string {
    return rc.cfg.Prefix + ":" + area + ":version"
}

func (rc *ResponseCache) version(ctx context.Context, area string) (int64, error) {
    v, err := rc.rdb.Get(ctx, rc.versionKey(area)).Int64()
    if err == redis.Nil {
        return 0, nil
    }
    return v, err
}

// Invalidate bumps the version of area.
func (rc *ResponseCache) Invalidate(ctx context.Context, area string) error {
    if !rc.enabled() {
        return nil
    }
    return rc.rdb.Incr(ctx, rc.versionKey(area)).Err()
}

// Invalidates wraps a write route: once the handler succeeds with a 2xx the
// area's cached reads are dropped.
func (rc *ResponseCache) Invalidates(area string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        if !rc.enabled() {
            return next
        }
        return func(c echo.Context) error {
            if err := next(c); err != nil {
                return err
            }
            if st := c.Response().Status; st < 200 || st >= 300 {
                return nil
            }
            if err := rc.Invalidate(context.WithoutCancel(c.Request().Context()), area); err != nil {
                rc.log.Warn("cache invalidation failed", zap.String("area", area), zap.Error(err))
            }
            return nil
        }
    }
}

// Cached serves the wrapped read route from the area's cache.
func (rc *ResponseCache) Cached(area string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        if !rc.enabled() {
            return next
        }
        cfg, rdb, log := rc.cfg, rc.rdb, rc.log
        return func(c echo.Context) error {
            req := c.Request()
            if !cfg.Methods[strings.ToUpper(req.Method)] {
                return next(c)
            }
            version, err := rc.version(req.Context(), area)
            if err != nil {
                log.Debug("cache version lookup failed", zap.String("area", area), zap.Error(err))
                return next(c)
            }
            key := cacheKey(cfg.Prefix, area, version, req)

            if bs, err := rdb.Get(req.Context(), key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    for k, vals := range hdr {
                        if strings.EqualFold(k, echo.HeaderContentLength) {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, err := c.Response().Write(body)
                    return err
                }
            } else if err != redis.Nil {
                log.Debug("cache get failed", zap.String("key", key), zap.Error(err))
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.truncated {
                return nil
            }
            hdr := c.Response().Header().Clone()
            hdr.Del("X-Cache")
            payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
            if err != nil {
                return nil
            }
            if err := rdb.Set(context.WithoutCancel(req.Context()), key, payload, cfg.TTL).Err(); err != nil {
                log.Debug("cache set failed", zap.String("key", key), zap.Error(err))
            }
            return nil
        }
    }
}
