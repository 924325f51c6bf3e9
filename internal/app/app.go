// Package app contains the web front-end.
package app

import (
	"embed"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/stolasapp/quill/internal/app/component"
	"github.com/stolasapp/quill/internal/config"
	"github.com/stolasapp/quill/internal/sec"
	"github.com/stolasapp/quill/internal/storage"
)

//go:embed static
var staticFiles embed.FS

// New creates a web front-end server.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	store storage.Store,
	gate *sec.Gate,
) *echo.Echo {
	srv := echo.New()

	srv.HideBanner = true
	srv.HidePort = true
	srv.Logger.SetLevel(log.OFF)
	srv.HTTPErrorHandler = errorHandler(logger)

	srv.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Secure(),
	)
	if cfg.DevMode {
		srv.Debug = true
		srv.Use(logRequests(logger))
	}
	if cfg.CSRF {
		srv.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + component.FieldCSRF,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.SecureCookies,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
	srv.Use(
		connScope(store, logger),
		sec.LoadIdentity(gate),
	)

	handler{
		store:  store,
		gate:   gate,
		logger: logger,
	}.routes(srv)
	srv.StaticFS(component.PathStatic, echo.MustSubFS(staticFiles, "static"))
	return srv
}

// connScope gives every request its own connection scope. The scope is
// released when the request ends, whether the handler returned normally,
// returned an error, or panicked.
func connScope(scoper storage.Scoper, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, release := scoper.Scope(c.Request().Context())
			defer func() {
				if err := release(); err != nil {
					logger.WarnContext(ctx, "failed to release request connection",
						slog.String("uri", c.Request().RequestURI),
						slog.Any("error", err),
					)
				}
			}()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func logRequests(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("uri", req.RequestURI),
				slog.String("route", c.Path()),
				slog.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
				slog.Duration("latency", latency),
				slog.Int("status", res.Status),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(
				req.Context(),
				slog.LevelDebug,
				"request handled",
				attrs...,
			)
			return nil
		}
	}
}

// errorHandler writes errors as plain text. Unexpected errors are logged and
// reported to the client only as a generic server error.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		httpErr := toHTTPError(err)
		code := httpErr.Code
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("uri", c.Request().RequestURI),
				slog.Any("error", err),
			)
		}
		msg := http.StatusText(code)
		if m, ok := httpErr.Message.(string); ok && code < http.StatusInternalServerError {
			msg = m
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.String(code, msg)
		}
		if err != nil {
			logger.WarnContext(c.Request().Context(), "failed to write error response", slog.Any("error", err))
		}
	}
}
