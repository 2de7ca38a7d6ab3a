package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/undangan-builder/internal/metrics"
)

// RequestLog writes one structured line per request and records the request
// in Prometheus.  It must wrap the handlers so the status reflects errors
// already turned into responses by the error handler.
func RequestLog(log *zap.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            done := metrics.InFlight()
            defer done()

            start := time.Now()
            err := next(c)
            if err != nil {
                // let the error handler write the response so the status is final
                c.Error(err)
            }
            elapsed := time.Since(start)

            req, res := c.Request(), c.Response()
            metrics.ObserveRequest(req.Method, c.Path(), res.Status, elapsed)

            fields := []zap.Field{
                zap.String("method", req.Method),
                zap.String("path", req.URL.Path),
                zap.String("route", c.Path()),
                zap.Int("status", res.Status),
                zap.Duration("latency", elapsed),
                zap.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
                zap.String("user", userID(c)),
                zap.String("ip", c.RealIP()),
            }
            switch {
            case res.Status >= 500:
                log.Error("request", append(fields, zap.Error(err))...)
            case res.Status >= 400:
                log.Info("request", fields...)
            default:
                log.Debug("request", fields...)
            }
            return nil
        }
    }
}
