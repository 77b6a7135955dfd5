package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeaders())
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/v1/ratings", ok)
	e.GET("/metrics", ok)

	tests := []struct {
		path      string
		wantCache string
	}{
		{"/api/v1/ratings", "no-store"},
		{"/metrics", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
			assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))
		})
	}
}
