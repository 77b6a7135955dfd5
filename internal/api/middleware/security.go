package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// apiHeaders apply to every response. Nothing served here is meant to be
// rendered or framed: the API speaks JSON only.
var apiHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Referrer-Policy", "no-referrer"},
}

// SecurityHeaders sets hardening headers and marks /api responses as
// uncacheable, since they carry per-user lists and ratings. Scrape and
// websocket endpoints are left to their own caching rules.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for _, kv := range apiHeaders {
				h.Set(kv[0], kv[1])
			}

			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				h.Set("Cache-Control", "no-store")
			}

			return next(c)
		}
	}
}
