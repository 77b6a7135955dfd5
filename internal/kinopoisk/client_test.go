package kinopoisk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absolutecinema/absolutecinema/internal/config"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.KinopoiskConfig{
		APIKey:  "test-api-key",
		BaseURL: server.URL,
		Timeout: 5,
	}
	return NewClient(cfg, config.BreakerConfig{FailureThreshold: 3, Timeout: time.Minute}, zerolog.Nop())
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func strPtr(s string) *string   { return &s }
func fltPtr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }
func boolPtr(b bool) *bool      { return &b }

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.KinopoiskConfig{APIKey: tt.apiKey}, config.BreakerConfig{}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient(config.KinopoiskConfig{}, config.BreakerConfig{}, zerolog.Nop())

	_, err := client.GetMovie(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestClient_GetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.4/movie/301" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-KEY"); got != "test-api-key" {
			t.Errorf("unexpected api key header: %q", got)
		}

		writeJSON(t, w, Movie{
			ID:     301,
			Name:   strPtr("Матрица"),
			EnName: strPtr("The Matrix"),
			Year:   intPtr(1999),
			Rating: &Rating{KP: fltPtr(8.5), IMDB: fltPtr(8.7)},
			Genres: []Name{{Name: "фантастика"}, {Name: "боевик"}},
			SequelsAndPrequels: []LinkedMovie{
				{ID: 302, Name: strPtr("Матрица: Перезагрузка")},
			},
		})
	}))
	defer server.Close()

	movie, err := newTestClient(server).GetMovie(context.Background(), 301)
	require.NoError(t, err)

	assert.Equal(t, int64(301), movie.ID)
	assert.Equal(t, "The Matrix", *movie.EnName)
	assert.Equal(t, 8.5, *movie.Rating.KP)
	assert.Nil(t, movie.Rating.TMDB)
	assert.Len(t, movie.Genres, 2)
	require.Len(t, movie.SequelsAndPrequels, 1)
	assert.Equal(t, int64(302), movie.SequelsAndPrequels[0].ID)
}

func TestClient_GetMovie_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := newTestClient(server).GetMovie(context.Background(), 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_SearchByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.4/movie/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		assert.Equal(t, "matrix", q.Get("query"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))

		writeJSON(t, w, MoviesResponse{
			Docs: []Movie{{ID: 301}, {ID: 302}},
			Page: Page{Total: 2, Limit: 10, Page: 1, Pages: 1},
		})
	}))
	defer server.Close()

	resp, err := newTestClient(server).SearchByName(context.Background(), "matrix", 1, 10)
	require.NoError(t, err)
	assert.Len(t, resp.Docs, 2)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Pages)
}

func TestClient_SearchWithFilters_RepeatedParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.4/movie" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		assert.Equal(t, []string{"драма", "комедия"}, q["genres.name"])
		assert.Equal(t, []string{"top250"}, q["lists"])
		assert.Equal(t, "false", q.Get("isSeries"))
		assert.Equal(t, "7-10", q.Get("rating.kp"))
		assert.Empty(t, q.Get("countries.name"))

		writeJSON(t, w, MoviesResponse{Docs: []Movie{{ID: 1}}, Page: Page{Total: 1}})
	}))
	defer server.Close()

	resp, err := newTestClient(server).SearchWithFilters(context.Background(), FilterParams{
		Genres:   []string{"драма", "комедия"},
		Lists:    []string{ListTop250},
		IsSeries: boolPtr(false),
		RatingKP: []string{"7-10"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Docs, 1)
}

func TestClient_GetPossibleValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/movie/possible-values-by-field" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		assert.Equal(t, FieldGenres, r.URL.Query().Get("field"))
		writeJSON(t, w, []FilterValue{{Name: "драма", Slug: strPtr("drama")}})
	}))
	defer server.Close()

	values, err := newTestClient(server).GetPossibleValues(context.Background(), FieldGenres)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "драма", values[0].Name)
}

func TestClient_SubResources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "301", q.Get("movieId"))
		assert.Equal(t, "1", q.Get("page"))

		switch r.URL.Path {
		case "/v1.4/movie/awards":
			assert.Equal(t, "20", q.Get("limit"))
			writeJSON(t, w, AwardsResponse{Docs: []Award{{Winning: boolPtr(true), Nomination: &Nomination{Title: strPtr("Оскар")}}}})
		case "/v1.4/review":
			assert.Equal(t, "10", q.Get("limit"))
			writeJSON(t, w, ReviewsResponse{Docs: []Review{{Title: strPtr("Great"), Type: strPtr("Позитивный")}}})
		case "/v1.4/image":
			assert.Equal(t, "20", q.Get("limit"))
			writeJSON(t, w, ImagesResponse{Docs: []Picture{{URL: strPtr("https://img/1.jpg")}}})
		case "/v1.4/studio":
			assert.Equal(t, "10", q.Get("limit"))
			writeJSON(t, w, StudiosResponse{Docs: []Studio{{Name: strPtr("Warner Bros.")}}})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	ctx := context.Background()

	awards, err := client.GetAwards(ctx, 301)
	require.NoError(t, err)
	assert.True(t, *awards.Docs[0].Winning)

	reviews, err := client.GetReviews(ctx, 301)
	require.NoError(t, err)
	assert.Equal(t, "Great", *reviews.Docs[0].Title)

	images, err := client.GetImages(ctx, 301)
	require.NoError(t, err)
	assert.Equal(t, "https://img/1.jpg", *images.Docs[0].URL)

	studios, err := client.GetStudios(ctx, 301)
	require.NoError(t, err)
	assert.Equal(t, "Warner Bros.", *studios.Docs[0].Name)
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.GetMovie(ctx, 1)
		require.ErrorIs(t, err, ErrAPIError)
	}

	_, err := client.GetMovie(ctx, 1)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), hits.Load(), "open breaker must not reach the server")
	assert.Equal(t, "open", client.BreakerState())
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server)
	for i := 0; i < 5; i++ {
		_, err := client.GetMovie(context.Background(), 1)
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, "closed", client.BreakerState())
}

func TestClient_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, Movie{ID: 1})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server).GetMovie(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_CallerDeadlinesDoNotTripBreaker(t *testing.T) {
	var slow atomic.Bool
	slow.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(time.Second):
			}
		}
		writeJSON(t, w, Movie{ID: 1})
	}))
	defer server.Close()

	client := newTestClient(server)
	for i := 0; i < 5; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		_, err := client.GetMovie(ctx, 1)
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, "closed", client.BreakerState())

	slow.Store(false)
	movie, err := client.GetMovie(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), movie.ID)
}

func TestFriendlyMessage(t *testing.T) {
	assert.Empty(t, FriendlyMessage(nil))
	assert.Equal(t, "Access to the catalog was denied", FriendlyMessage(ErrUnauthorized))
	assert.Equal(t, "The catalog is temporarily unavailable", FriendlyMessage(ErrAPIError))
	assert.Equal(t, "Check your internet connection", FriendlyMessage(errors.New("dial tcp: timeout")))
}
