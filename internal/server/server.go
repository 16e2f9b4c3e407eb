package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
)

const shutdownTimeout = 10 * time.Second

// echoの土台。obsがnilならメトリクスは取らない
func New(obs middleware.RequestObserver) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger())
	if obs != nil {
		e.Use(middleware.Metrics(obs))
	}
	return e
}

// FE_URLからのCookie付きリクエストだけ許可
func Handler(cfg config.Config, e *echo.Echo) http.Handler {
	var origins []string
	if cfg.FEURL != "" {
		origins = append(origins, strings.TrimRight(cfg.FEURL, "/"))
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", echo.HeaderXRequestID},
		ExposedHeaders:   []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler(e)
}

// ctxがキャンセルされるまで待ち受け、その後graceful shutdown
func Start(ctx context.Context, cfg config.Config, e *echo.Echo) error {
	addr := cfg.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(cfg, e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx).Str("addr", addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info(ctx).Msg("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// echo側のエラー（404ルートなし・405など）も{"error": "..."}にそろえる
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := "internal error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = strings.ToLower(m)
		} else {
			msg = strings.ToLower(http.StatusText(status))
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]string{"error": msg})
}
