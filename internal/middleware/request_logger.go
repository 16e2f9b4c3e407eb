package middleware

import (
	"time"

	"storefront/internal/logger"

	"github.com/labstack/echo/v4"
)

// リクエストごとにrequest_id付きのロガーをctxへ載せ、完了時に1行出す
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}

			l := logger.WithContext(req.Context()).With().
				Str("request_id", requestID).
				Logger()
			c.SetRequest(req.WithContext(logger.IntoContext(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			duration := time.Since(start)
			status := c.Response().Status

			ev := l.Info()
			if status >= 500 {
				ev = l.Error().Err(err)
			} else if status >= 400 {
				ev = l.Warn()
			}
			if customerID, ok := c.Get(CtxUserIDKey).(int64); ok {
				ev = ev.Int64("customer_id", customerID)
			}

			ev.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("route", c.Path()).
				Int("status", status).
				Dur("duration", duration).
				Str("ip", c.RealIP()).
				Msg("request completed")

			return nil
		}
	}
}
