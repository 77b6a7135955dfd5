package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absolutecinema/absolutecinema/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	return New(tdb.Conn, testutil.NopLogger())
}

func str(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func bundle(id int64, name string) MovieBundle {
	return MovieBundle{
		Movie: Movie{
			ID:       id,
			Name:     str(name),
			Year:     sql.NullInt64{Int64: 1999, Valid: true},
			RatingKP: sql.NullFloat64{Float64: 7.9, Valid: true},
		},
		Genres:    []Genre{{ID: 1, Name: "драма"}, {ID: 2, Name: "комедия"}},
		Countries: []Country{{ID: 10, Name: "США"}},
		Persons:   []Person{{ID: 100, Name: str("Актёр")}, {ID: 101, Name: str("Режиссёр")}},
		Facts:     []Fact{{Fact: "Снимали ночью", Spoiler: sql.NullBool{Bool: false, Valid: true}}},
		Sequels:   []RelatedTitle{{ID: 500, Name: str("Продолжение")}},
		Similars:  []RelatedTitle{{ID: 600, Name: str("Похожий")}, {ID: 500, Name: str("Продолжение")}},
	}
}

func TestSaveMovie_WritesRelatedRows(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveMovie(ctx, bundle(301, "Test")))

	m, ok, err := s.GetMovie(ctx, 301)
	require.NoError(t, err)
	require.True(t, ok)

	d, err := s.LoadDetails(ctx, m)
	require.NoError(t, err)

	assert.Equal(t, "Test", d.Movie.Name.String)
	assert.InDelta(t, 7.9, d.Movie.RatingKP.Float64, 1e-9)
	assert.False(t, d.Movie.RatingIMDB.Valid)
	assert.Equal(t, []Genre{{ID: 1, Name: "драма"}, {ID: 2, Name: "комедия"}}, d.Genres)
	assert.Len(t, d.Countries, 1)
	require.Len(t, d.Persons, 2)
	assert.Equal(t, int64(100), d.Persons[0].ID)
	assert.Len(t, d.Facts, 1)
	require.Len(t, d.Sequels, 1)
	assert.Equal(t, int64(500), d.Sequels[0].ID)
	assert.Len(t, d.Similars, 2)
	assert.Empty(t, d.Categories)
	assert.False(t, d.UserRating.Valid)
}

func TestSaveMovie_RepeatedSaveDoesNotDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveMovie(ctx, bundle(301, "Test")))
	require.NoError(t, s.SaveMovie(ctx, bundle(301, "Test")))

	for table, want := range map[Table]int64{
		TableMovies:        1,
		TableFacts:         1,
		TableMovieGenres:   2,
		TableMovieSequels:  1,
		TableMovieSimilars: 2,
		TableRelatedTitles: 2,
	} {
		n, err := s.Queries().Count(ctx, table)
		require.NoError(t, err)
		assert.Equal(t, want, n, table)
	}
}

func TestSaveMovie_ReferenceRowsFirstWriterWins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := bundle(1, "A")
	second := bundle(2, "B")
	second.Genres = []Genre{{ID: 1, Name: "renamed"}}

	require.NoError(t, s.SaveMovie(ctx, first))
	require.NoError(t, s.SaveMovie(ctx, second))

	genres, err := s.Queries().ListGenresForMovie(ctx, 2)
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, "драма", genres[0].Name)
}

func TestSaveMovie_UpsertKeepsUserState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveMovie(ctx, bundle(301, "Old")))
	require.NoError(t, s.AddToCategory(ctx, 301, CategoryFavourite))
	require.NoError(t, s.SetUserRating(ctx, 301, 8))

	require.NoError(t, s.SaveMovie(ctx, bundle(301, "New")))

	m, _, err := s.GetMovie(ctx, 301)
	require.NoError(t, err)
	d, err := s.LoadDetails(ctx, m)
	require.NoError(t, err)

	assert.Equal(t, "New", d.Movie.Name.String)
	assert.Equal(t, []Category{CategoryFavourite}, d.Categories)
	assert.Equal(t, int64(8), d.UserRating.Int64)
}

func TestWrite_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	ch, cancel := s.Subscribe(TableMovies)
	defer cancel()

	boom := errors.New("boom")
	err := s.Write(ctx, "test", []Table{TableMovies}, func(q *Queries) error {
		if err := q.EnsureMovie(ctx, 42); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok, err := s.GetMovie(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	select {
	case <-ch:
		t.Fatal("failed write must not notify")
	default:
	}
}

func TestAddRemoveCategory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.AddToCategory(ctx, 7, CategoryWillWatch))
	require.NoError(t, s.AddToCategory(ctx, 7, CategoryWillWatch))

	list, err := s.ListCategory(ctx, CategoryWillWatch)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(7), list[0].Movie.ID)
	assert.False(t, list[0].Movie.Name.Valid, "placeholder row has no data")

	removed, err := s.RemoveFromCategory(ctx, 7, CategoryWillWatch)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveFromCategory(ctx, 7, CategoryWillWatch)
	require.NoError(t, err)
	assert.False(t, removed)

	list, err = s.ListCategory(ctx, CategoryWillWatch)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReplaceCategory_RemovesStaleMembers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.ReplaceCategory(ctx, CategoryComedies, []MovieBundle{bundle(1, "A"), bundle(2, "B")}))
	require.NoError(t, s.AddToCategory(ctx, 2, CategoryFavourite))
	require.NoError(t, s.ReplaceCategory(ctx, CategoryComedies, []MovieBundle{bundle(3, "C"), bundle(2, "B")}))

	list, err := s.ListCategory(ctx, CategoryComedies)
	require.NoError(t, err)
	ids := make([]int64, len(list))
	for i, d := range list {
		ids[i] = d.Movie.ID
	}
	assert.Equal(t, []int64{3, 2}, ids)

	fav, err := s.ListCategory(ctx, CategoryFavourite)
	require.NoError(t, err)
	assert.Len(t, fav, 1, "other categories are untouched")
}

func TestUserRating(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetUserRating(ctx, 5, 3))
	require.NoError(t, s.SetUserRating(ctx, 5, 9))

	n, err := s.Queries().Count(ctx, TableUserRatings)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, err := s.Queries().GetUserRating(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)

	rated, err := s.ListRated(ctx)
	require.NoError(t, err)
	require.Len(t, rated, 1)
	assert.Equal(t, int64(9), rated[0].UserRating.Int64)

	err = s.SetUserRating(ctx, 5, 11)
	assert.Error(t, err, "check constraint rejects out-of-range values")

	removed, err := s.ClearUserRating(ctx, 5)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = s.Queries().GetUserRating(ctx, 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveMovie(ctx, bundle(1, "A")))
	require.NoError(t, s.AddToCategory(ctx, 1, CategoryFavourite))
	require.NoError(t, s.SetUserRating(ctx, 1, 5))
	require.NoError(t, s.Queries().SetSetting(ctx, "theme", "dark"))

	require.NoError(t, s.ClearAll(ctx))

	for _, table := range cacheTables {
		n, err := s.Queries().Count(ctx, table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}

	var categories int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&categories))
	assert.Equal(t, len(Categories), categories)

	setting, err := s.Queries().GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", setting.Value)
}

func TestNotifier_CoalescesAndFilters(t *testing.T) {
	n := NewNotifier()

	movies, cancelMovies := n.Subscribe(TableMovies)
	ratings, cancelRatings := n.Subscribe(TableUserRatings)
	all, cancelAll := n.Subscribe()
	defer cancelRatings()
	defer cancelAll()

	n.Notify(TableMovies)
	n.Notify(TableMovies, TableGenres)

	testutil.Receive(t, movies, time.Second)
	testutil.Receive(t, all, time.Second)

	select {
	case <-movies:
		t.Fatal("repeated signals must coalesce")
	default:
	}
	select {
	case <-ratings:
		t.Fatal("unrelated table must not signal")
	default:
	}

	assert.Equal(t, 3, n.Subscribers())
	cancelMovies()
	cancelMovies()
	assert.Equal(t, 2, n.Subscribers())

	_, open := <-movies
	assert.False(t, open)
}

func TestCategory_Valid(t *testing.T) {
	assert.True(t, CategoryFavourite.Valid())
	assert.False(t, Category("Horror").Valid())
}
