package preferences

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absolutecinema/absolutecinema/internal/store"
	"github.com/absolutecinema/absolutecinema/internal/testutil"
)

func newTestService(t *testing.T, limit int) *Service {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	return NewService(store.NewQueries(tdb.Conn), limit)
}

func TestGet_Defaults(t *testing.T) {
	s := newTestService(t, 0)

	prefs, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultPreferences(), *prefs)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, 0)

	require.NoError(t, s.Update(ctx, UpdateInput{Theme: ThemeDark, AccentColor: "#00ff80"}))

	prefs, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, prefs.Theme)
	assert.Equal(t, "#00FF80", prefs.AccentColor)

	require.NoError(t, s.Update(ctx, UpdateInput{Theme: ThemeSystem}))
	prefs, err = s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeSystem, prefs.Theme)
	assert.Equal(t, "#00FF80", prefs.AccentColor, "empty fields are unchanged")
}

func TestUpdate_RejectsInvalidWithoutPartialWrite(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, 0)

	err := s.Update(ctx, UpdateInput{Theme: ThemeDark, AccentColor: "orange"})
	require.ErrorIs(t, err, ErrInvalidAccentColor)

	err = s.Update(ctx, UpdateInput{Theme: "neon"})
	require.ErrorIs(t, err, ErrInvalidTheme)

	prefs, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, prefs.Theme)
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidAccentColor("#FF8000"))
	assert.False(t, ValidAccentColor("FF8000"))
	assert.False(t, ValidAccentColor("#FF800"))
	assert.False(t, ValidAccentColor("#GG8000"))
	assert.False(t, ValidAccentColor("#F80"))
	assert.False(t, ValidAccentColor("#FF8000AA"))
	assert.True(t, ValidAccentColor("#ff8000"))
	assert.True(t, ValidTheme("dark"))
	assert.False(t, ValidTheme(""))
}

func TestRecordSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, 3)

	for _, q := range []string{"a", "b", " ", "a", "c", "d"} {
		require.NoError(t, s.RecordSearch(ctx, q))
	}

	history, err := s.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d"}, history)

	require.NoError(t, s.ClearSearchHistory(ctx))
	history, err = s.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NotNil(t, history)
}

func TestRecordSearch_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, 0)

	for i := 0; i < 15; i++ {
		require.NoError(t, s.RecordSearch(ctx, fmt.Sprintf("q%d", i)))
	}

	history, err := s.SearchHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, DefaultHistoryLimit)
	assert.Equal(t, "q5", history[0])
	assert.Equal(t, "q14", history[9])
}

func TestSearchHistory_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, 0)
	require.NoError(t, s.queries.SetSetting(ctx, KeySearchHistory, "not json"))

	history, err := s.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.RecordSearch(ctx, "x"))
	history, err = s.SearchHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, history)
}

func TestHandlers(t *testing.T) {
	s := newTestService(t, 0)
	e := echo.New()
	NewHandlers(s).RegisterRoutes(e.Group("/api/v1/preferences"))

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(http.MethodPut, "/api/v1/preferences", `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"theme":"dark"`)

	rec = serve(http.MethodPut, "/api/v1/preferences", `{"accentColor":"red"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.NoError(t, s.RecordSearch(context.Background(), "Дюна"))
	rec = serve(http.MethodGet, "/api/v1/preferences/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Дюна"]`, rec.Body.String())

	rec = serve(http.MethodDelete, "/api/v1/preferences/history", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(http.MethodGet, "/api/v1/preferences", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"dark","accentColor":"#FF8000","searchHistory":[]}`, rec.Body.String())
}
