// Package kinopoisk is a client for the kinopoisk.dev catalog API.
package kinopoisk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/absolutecinema/absolutecinema/internal/config"
	"github.com/absolutecinema/absolutecinema/internal/metrics"
)

var (
	ErrAPIKeyMissing = errors.New("kinopoisk API key is not configured")
	ErrNotFound      = errors.New("not found")
	ErrAPIError      = errors.New("kinopoisk API error")
	ErrUnauthorized  = fmt.Errorf("%w: unauthorized", ErrAPIError)
	ErrRateLimited   = errors.New("kinopoisk API rate limited")
	ErrCircuitOpen   = errors.New("kinopoisk API circuit open")
)

// Filter-value fields understood by GetPossibleValues.
const (
	FieldGenres    = "genres.name"
	FieldCountries = "countries.name"
	FieldType      = "type"
)

// Client is a kinopoisk.dev API client.
type Client struct {
	httpClient *http.Client
	config     config.KinopoiskConfig
	breaker    *gobreaker.CircuitBreaker[any]
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new catalog client.
func NewClient(cfg config.KinopoiskConfig, bcfg config.BreakerConfig, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultKinopoiskURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.With().Str("component", "kinopoisk").Logger(),
	}
	c.breaker = newBreaker(bcfg, c.logger)
	return c
}

func newBreaker(cfg config.BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[any] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "kinopoisk",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Client errors and callers giving up say nothing about the health
		// of the remote service.
		IsSuccessful: func(err error) bool {
			var abandoned *abandonedError
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrUnauthorized) ||
				errors.As(err, &abandoned)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.Set(float64(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// BreakerState returns the circuit breaker state name.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// GetMovie fetches the full record of a title.
func (c *Client) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	var movie Movie
	endpoint := fmt.Sprintf("/v1.4/movie/%d", id)
	if err := c.doRequest(ctx, "movie", endpoint, nil, &movie); err != nil {
		return nil, err
	}

	c.logger.Debug().Int64("id", id).Msg("got movie")
	return &movie, nil
}

// SearchByName runs a free-text title search.
func (c *Client) SearchByName(ctx context.Context, query string, page, limit int) (*MoviesResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	setPaging(params, page, limit)

	var resp MoviesResponse
	if err := c.doRequest(ctx, "search", "/v1.4/movie/search", params, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", query).
		Int("results", len(resp.Docs)).
		Int("total", resp.Total).
		Msg("movie search completed")
	return &resp, nil
}

// SearchWithFilters runs a structured search.
func (c *Client) SearchWithFilters(ctx context.Context, f FilterParams) (*MoviesResponse, error) {
	var resp MoviesResponse
	if err := c.doRequest(ctx, "filter", "/v1.4/movie", f.Values(), &resp); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("results", len(resp.Docs)).
		Int("total", resp.Total).
		Msg("filtered search completed")
	return &resp, nil
}

// GetPossibleValues returns the legal filter values for field.
func (c *Client) GetPossibleValues(ctx context.Context, field string) ([]FilterValue, error) {
	params := url.Values{}
	params.Set("field", field)

	var values []FilterValue
	if err := c.doRequest(ctx, "possible-values", "/v1/movie/possible-values-by-field", params, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// GetAwards returns the first page of awards for a title.
func (c *Client) GetAwards(ctx context.Context, movieID int64) (*AwardsResponse, error) {
	var resp AwardsResponse
	err := c.doRequest(ctx, "awards", "/v1.4/movie/awards", movieParams(movieID, 20), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetReviews returns the first page of audience reviews for a title.
func (c *Client) GetReviews(ctx context.Context, movieID int64) (*ReviewsResponse, error) {
	var resp ReviewsResponse
	err := c.doRequest(ctx, "reviews", "/v1.4/review", movieParams(movieID, 10), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetImages returns the first page of gallery images for a title.
func (c *Client) GetImages(ctx context.Context, movieID int64) (*ImagesResponse, error) {
	var resp ImagesResponse
	err := c.doRequest(ctx, "images", "/v1.4/image", movieParams(movieID, 20), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStudios returns the first page of studios for a title.
func (c *Client) GetStudios(ctx context.Context, movieID int64) (*StudiosResponse, error) {
	var resp StudiosResponse
	err := c.doRequest(ctx, "studios", "/v1.4/studio", movieParams(movieID, 10), &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func movieParams(movieID int64, limit int) url.Values {
	params := url.Values{}
	params.Set("movieId", strconv.FormatInt(movieID, 10))
	setPaging(params, 1, limit)
	return params
}

func setPaging(params url.Values, page, limit int) {
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
}

// doRequest performs a rate-limited, breaker-guarded GET and decodes the body into result.
func (c *Client) doRequest(ctx context.Context, name, path string, params url.Values, result any) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	_, err := c.breaker.Execute(func() (any, error) {
		err := c.do(ctx, path, params, result)
		if err != nil && ctx.Err() != nil {
			return nil, &abandonedError{err: err}
		}
		return nil, err
	})

	outcome := metrics.OutcomeSuccess
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		outcome = metrics.OutcomeOpen
		err = fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	} else if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RecordRemoteRequest(name, outcome, time.Since(start))

	return err
}

func (c *Client) do(ctx context.Context, path string, params url.Values, result any) error {
	reqURL := c.config.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-KEY", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrAPIError, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// abandonedError marks a request that failed because its caller's context
// ended. The HTTP client's own timeout is not covered and still counts
// against the breaker.
type abandonedError struct {
	err error
}

func (e *abandonedError) Error() string { return e.err.Error() }

func (e *abandonedError) Unwrap() error { return e.err }

// FriendlyMessage turns a client error into text suitable for end users.
func FriendlyMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAPIKeyMissing):
		return "The catalog is not configured"
	case errors.Is(err, ErrUnauthorized):
		return "Access to the catalog was denied"
	case errors.Is(err, ErrNotFound):
		return "Nothing was found"
	case errors.Is(err, ErrRateLimited):
		return "Too many requests, try again later"
	case errors.Is(err, ErrCircuitOpen), errors.Is(err, ErrAPIError):
		return "The catalog is temporarily unavailable"
	default:
		return "Check your internet connection"
	}
}
