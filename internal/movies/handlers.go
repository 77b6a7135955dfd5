package movies

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/absolutecinema/absolutecinema/internal/kinopoisk"
	"github.com/absolutecinema/absolutecinema/internal/store"
)

// SearchRecorder remembers queries typed by the user.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, query string) error
}

// Handlers provides HTTP handlers for catalog operations.
type Handlers struct {
	repo     *Repository
	searches SearchRecorder
	logger   zerolog.Logger
}

// NewHandlers creates catalog handlers. searches may be nil.
func NewHandlers(repo *Repository, searches SearchRecorder, logger zerolog.Logger) *Handlers {
	return &Handlers{
		repo:     repo,
		searches: searches,
		logger:   logger.With().Str("component", "movies-api").Logger(),
	}
}

// RegisterRoutes registers the catalog routes on the API group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/movies/:id", h.Get)
	g.GET("/movies/:id/awards", h.Awards)
	g.GET("/movies/:id/reviews", h.Reviews)
	g.GET("/movies/:id/images", h.Images)
	g.GET("/movies/:id/studios", h.Studios)
	g.POST("/movies/:id/favourite", h.AddFavourite)
	g.DELETE("/movies/:id/favourite", h.RemoveFavourite)
	g.POST("/movies/:id/willwatch", h.AddWillWatch)
	g.DELETE("/movies/:id/willwatch", h.RemoveWillWatch)
	g.PUT("/movies/:id/rating", h.SetRating)
	g.DELETE("/movies/:id/rating", h.ClearRating)

	g.GET("/search", h.Search)
	g.POST("/search/filters", h.SearchFilters)

	g.GET("/filters/countries", h.CountryFilters)
	g.GET("/filters/genres", h.GenreFilters)
	g.GET("/filters/types", h.TypeFilters)

	g.GET("/categories/:category", h.Category)
	g.GET("/feed/:bucket", h.Feed)
	g.GET("/ratings", h.Ratings)

	g.DELETE("/cache", h.ClearCache)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func parseCategory(raw string) (Category, error) {
	c := store.Category(raw)
	if !c.Valid() {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown category")
	}
	return c, nil
}

// Get returns a single title, refreshed from the catalog when reachable.
// GET /api/v1/movies/:id
func (h *Handlers) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.repo.GetByID(c.Request().Context(), id))
}

// Awards returns the awards of a title.
// GET /api/v1/movies/:id/awards
func (h *Handlers) Awards(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.repo.Awards(c.Request().Context(), id))
}

// Reviews returns audience reviews of a title.
// GET /api/v1/movies/:id/reviews
func (h *Handlers) Reviews(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.repo.Reviews(c.Request().Context(), id))
}

// Images returns gallery images of a title.
// GET /api/v1/movies/:id/images
func (h *Handlers) Images(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.repo.Images(c.Request().Context(), id))
}

// Studios returns the studios of a title.
// GET /api/v1/movies/:id/studios
func (h *Handlers) Studios(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.repo.Studios(c.Request().Context(), id))
}

type toggleResponse struct {
	Success bool `json:"success"`
}

func toggle(c echo.Context, fn func(id int64) bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if !fn(id) {
		return c.JSON(http.StatusInternalServerError, toggleResponse{Success: false})
	}
	return c.JSON(http.StatusOK, toggleResponse{Success: true})
}

// AddFavourite tags a title as favourite.
// POST /api/v1/movies/:id/favourite
func (h *Handlers) AddFavourite(c echo.Context) error {
	return toggle(c, func(id int64) bool { return h.repo.AddToFavourites(c.Request().Context(), id) })
}

// RemoveFavourite untags a favourite.
// DELETE /api/v1/movies/:id/favourite
func (h *Handlers) RemoveFavourite(c echo.Context) error {
	return toggle(c, func(id int64) bool { return h.repo.RemoveFromFavourites(c.Request().Context(), id) })
}

// AddWillWatch adds a title to the watch list.
// POST /api/v1/movies/:id/willwatch
func (h *Handlers) AddWillWatch(c echo.Context) error {
	return toggle(c, func(id int64) bool { return h.repo.AddToWillWatch(c.Request().Context(), id) })
}

// RemoveWillWatch removes a title from the watch list.
// DELETE /api/v1/movies/:id/willwatch
func (h *Handlers) RemoveWillWatch(c echo.Context) error {
	return toggle(c, func(id int64) bool { return h.repo.RemoveFromWillWatch(c.Request().Context(), id) })
}

// RatingInput is the body of a rating update.
type RatingInput struct {
	Value int `json:"value"`
}

// SetRating records the user's rating of a title.
// PUT /api/v1/movies/:id/rating
func (h *Handlers) SetRating(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var input RatingInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if input.Value < 1 || input.Value > 10 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 10")
	}

	if !h.repo.SetUserRating(c.Request().Context(), id, input.Value) {
		return c.JSON(http.StatusInternalServerError, toggleResponse{Success: false})
	}
	return c.JSON(http.StatusOK, toggleResponse{Success: true})
}

// ClearRating removes the user's rating of a title.
// DELETE /api/v1/movies/:id/rating
func (h *Handlers) ClearRating(c echo.Context) error {
	return toggle(c, func(id int64) bool { return h.repo.ClearUserRating(c.Request().Context(), id) })
}

// Search searches titles by name and records the query in search history.
// GET /api/v1/search?query=
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("query")
	ctx := c.Request().Context()

	if h.searches != nil && query != "" {
		if err := h.searches.RecordSearch(ctx, query); err != nil {
			h.logger.Warn().Err(err).Str("query", query).Msg("Failed to record search history")
		}
	}
	return c.JSON(http.StatusOK, h.repo.SearchByName(ctx, query))
}

// SearchFilters runs a structured search.
// POST /api/v1/search/filters
func (h *Handlers) SearchFilters(c echo.Context) error {
	var params kinopoisk.FilterParams
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, h.repo.SearchWithFilters(c.Request().Context(), params))
}

// CountryFilters lists legal country filter values.
// GET /api/v1/filters/countries
func (h *Handlers) CountryFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, h.repo.CountryFilters(c.Request().Context()))
}

// GenreFilters lists legal genre filter values.
// GET /api/v1/filters/genres
func (h *Handlers) GenreFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, h.repo.GenreFilters(c.Request().Context()))
}

// TypeFilters lists legal type filter values.
// GET /api/v1/filters/types
func (h *Handlers) TypeFilters(c echo.Context) error {
	return c.JSON(http.StatusOK, h.repo.TypeFilters(c.Request().Context()))
}

// Category returns the current contents of a category.
// GET /api/v1/categories/:category
func (h *Handlers) Category(c echo.Context) error {
	cat, err := parseCategory(c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.repo.Snapshot(c.Request().Context(), cat))
}

// FeedResponse is a bucket snapshot plus whether a refresh is running.
type FeedResponse struct {
	Category   Category `json:"category"`
	Movies     []Movie  `json:"movies"`
	Refreshing bool     `json:"refreshing"`
}

// Feed starts a background refresh of a recommendation bucket and returns
// its cached contents. Fresh contents arrive over the websocket.
// GET /api/v1/feed/:bucket
func (h *Handlers) Feed(c echo.Context) error {
	cat, err := parseCategory(c.Param("bucket"))
	if err != nil {
		return err
	}
	if !IsBucket(cat) {
		return echo.NewHTTPError(http.StatusNotFound, "not a recommendation bucket")
	}

	h.repo.StartRefresh(cat)
	return c.JSON(http.StatusOK, FeedResponse{
		Category:   cat,
		Movies:     h.repo.Snapshot(c.Request().Context(), cat),
		Refreshing: h.repo.Refreshing(cat),
	})
}

// Ratings returns every rated title.
// GET /api/v1/ratings
func (h *Handlers) Ratings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.repo.RatedSnapshot(c.Request().Context()))
}

// ClearCache deletes all cached titles and user lists.
// DELETE /api/v1/cache
func (h *Handlers) ClearCache(c echo.Context) error {
	if err := h.repo.ClearCache(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
