package health

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for health endpoints.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAll)
	g.GET("/:id", h.Get)
	g.POST("/check", h.Check)
}

// GetAll returns the last observed state of every component.
// GET /api/v1/health
func (h *Handlers) GetAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.GetAll())
}

// Get returns a single component.
// GET /api/v1/health/:id
func (h *Handlers) Get(c echo.Context) error {
	item, ok := h.service.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "health item not found")
	}
	return c.JSON(http.StatusOK, item)
}

// Check runs every checker now and returns the fresh state.
// POST /api/v1/health/check
func (h *Handlers) Check(c echo.Context) error {
	if err := h.service.CheckAll(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, h.service.GetAll())
}
