package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestIPLimiter_Allow(t *testing.T) {
	l := NewIPLimiter(1, 2)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return start }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "limits are per client")

	l.now = func() time.Time { return start.Add(time.Second) }
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestIPLimiter_Cleanup(t *testing.T) {
	l := NewIPLimiter(0, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return start }

	l.Allow("10.0.0.1")
	assert.Equal(t, 1, l.Len())

	l.now = func() time.Time { return start.Add(DefaultIdleTimeout / 2) }
	l.Cleanup()
	assert.Equal(t, 1, l.Len())

	l.now = func() time.Time { return start.Add(DefaultIdleTimeout + time.Second) }
	l.Cleanup()
	assert.Equal(t, 0, l.Len())
}

func TestIPLimiter_Middleware(t *testing.T) {
	l := NewIPLimiter(1, 1)
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, l.Middleware())

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}
