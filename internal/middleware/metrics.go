package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// internal/metricsが実装
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// ルートテンプレート（/api/sepet/sil/:customerId/:productId）単位で集計する
func Metrics(obs RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			obs.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
