package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/pr-poehali-dev/local-cleaning-systems-site/internal/config"
)

type Handlers struct {
	Auth     *AuthHandler
	Managers *ManagerHandler
	Products *ProductHandler
	Orders   *OrderHandler
	News     *NewsHandler
}

type ServerOptions struct {
	ServiceName string
	RateLimit   config.RateLimitConfig
}

// NewServer wires the middleware stack and the resource routes.
func NewServer(h Handlers, opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(allowOrigin)
	if opts.RateLimit.Rate > 0 {
		e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig(opts.RateLimit)))
	}

	e.Any("/auth", h.Auth.Handle, preflight(authPolicy))
	e.Any("/managers", h.Managers.Handle, preflight(managerPolicy))
	e.Any("/products", h.Products.Handle, preflight(productPolicy))
	e.Any("/products/news", h.Products.HandleNews, preflight(productPolicy))
	e.Any("/products/pricelists", h.Products.HandlePriceLists, preflight(productPolicy))
	e.Any("/orders", h.Orders.Handle, preflight(orderPolicy))
	e.Any("/news", h.News.Handle, preflight(newsPolicy))

	serviceName := opts.ServiceName
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"service": serviceName,
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	return e
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodOptions
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.Rate),
				Burst:     cfg.Burst,
				ExpiresIn: cfg.ExpiresIn,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "rate limit identifier unavailable"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		},
	}
}
