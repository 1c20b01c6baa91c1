package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RequestObserver records served requests.
type RequestObserver interface {
	ObserveRequest(route, status string, seconds float64)
}

// RouterConfig wires the cross-cutting pieces of the HTTP surface.
type RouterConfig struct {
	Authenticator  *Authenticator
	RateLimiter    *RateLimiter
	Observer       RequestObserver
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// NewRouter builds the echo instance serving the ordering API.
func NewRouter(ctx context.Context, server ServerInterface, cfg RouterConfig) (*echo.Echo, error) {
	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := NewRequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(cfg.Logger))
	if cfg.Observer != nil {
		e.Use(observe(cfg.Observer))
	}
	e.Use(cfg.Authenticator.Middleware)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", SpecHandler)
	if cfg.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.MetricsHandler))
	}

	mw := RouteMiddleware{Validate: validator.Middleware}
	if cfg.RateLimiter != nil {
		mw.CreateLimit = cfg.RateLimiter.Middleware
	}
	RegisterHandlers(e, server, mw)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.LogAttrs(c.Request().Context(), slog.LevelWarn, "request", slog.Group("req", attrs...),
					slog.String("error", v.Error.Error()))
				return nil
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", slog.Group("req", attrs...))
			return nil
		},
	})
}

func observe(observer RequestObserver) echo.MiddlewareFunc {
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
			observer.ObserveRequest(route, strconv.Itoa(c.Response().Status), time.Since(start).Seconds())
			return nil
		}
	}
}
