package preferences

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Get)
	g.PUT("", h.Update)
	g.GET("/history", h.GetHistory)
	g.DELETE("/history", h.ClearHistory)
}

// Get returns all preferences
// GET /api/v1/preferences
func (h *Handlers) Get(c echo.Context) error {
	prefs, err := h.service.Get(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, prefs)
}

// Update changes theme and accent color
// PUT /api/v1/preferences
func (h *Handlers) Update(c echo.Context) error {
	var input UpdateInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.service.Update(c.Request().Context(), input); err != nil {
		if errors.Is(err, ErrInvalidTheme) || errors.Is(err, ErrInvalidAccentColor) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	updated, err := h.service.Get(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, updated)
}

// GetHistory returns recent search queries, most recent last
// GET /api/v1/preferences/history
func (h *Handlers) GetHistory(c echo.Context) error {
	history, err := h.service.SearchHistory(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, history)
}

// ClearHistory forgets all search queries
// DELETE /api/v1/preferences/history
func (h *Handlers) ClearHistory(c echo.Context) error {
	if err := h.service.ClearSearchHistory(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
