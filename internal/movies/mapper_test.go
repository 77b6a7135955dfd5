package movies

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absolutecinema/absolutecinema/internal/kinopoisk"
	"github.com/absolutecinema/absolutecinema/internal/store"
	"github.com/absolutecinema/absolutecinema/internal/testutil"
)

func wireMovie(id int64, name string) kinopoisk.Movie {
	return kinopoisk.Movie{
		ID:     id,
		Name:   testutil.StringPtr(name),
		Year:   testutil.IntPtr(1994),
		Type:   testutil.StringPtr("movie"),
		Top250: testutil.IntPtr(1),
		Rating: &kinopoisk.Rating{
			KP:          testutil.Float64Ptr(9.1),
			IMDB:        testutil.Float64Ptr(8.8),
			FilmCritics: testutil.Float64Ptr(7.2),
		},
		Poster:    &kinopoisk.Image{URL: testutil.StringPtr("https://img/p.jpg")},
		Genres:    []kinopoisk.Name{{Name: "драма"}, {Name: ""}},
		Countries: []kinopoisk.Name{{Name: "США"}},
		Persons: []kinopoisk.Person{
			{ID: 10, Name: testutil.StringPtr("Тим Роббинс")},
			{ID: 10, Name: testutil.StringPtr("dup")},
			{ID: 0, Name: testutil.StringPtr("no id")},
		},
		Facts: []kinopoisk.Fact{
			{Value: "Факт", Spoiler: testutil.BoolPtr(true)},
			{Value: ""},
		},
		SimilarMovies: []kinopoisk.LinkedMovie{{ID: 42, Name: testutil.StringPtr("Похожий")}},
	}
}

func TestWireToBundle(t *testing.T) {
	b := wireToBundle(wireMovie(326, "Побег из Шоушенка"))

	assert.Equal(t, int64(326), b.Movie.ID)
	assert.Equal(t, "Побег из Шоушенка", b.Movie.Name.String)
	assert.InDelta(t, 7.2, b.Movie.RatingFilmCritics.Float64, 1e-9)
	assert.False(t, b.Movie.RatingRussianFilmCritics.Valid)
	assert.False(t, b.Movie.Description.Valid)

	require.Len(t, b.Genres, 1, "empty names are skipped")
	assert.Equal(t, nameID("драма"), b.Genres[0].ID)
	assert.Len(t, b.Persons, 1, "duplicate and zero ids are skipped")
	require.Len(t, b.Facts, 1)
	assert.Equal(t, int64(326), b.Facts[0].MovieID)
	assert.True(t, b.Facts[0].Spoiler.Bool)
	assert.Empty(t, b.Sequels)
	assert.Len(t, b.Similars, 1)
}

func TestNameID_StableAcrossCaseAndSpace(t *testing.T) {
	assert.Equal(t, nameID("Драма"), nameID(" драма "))
	assert.NotEqual(t, nameID("драма"), nameID("комедия"))
}

func TestRowToMovie_AbsentStaysAbsent(t *testing.T) {
	m := rowToMovie(store.Movie{ID: 1})

	assert.Equal(t, int64(1), m.ID)
	assert.Nil(t, m.Name)
	assert.Nil(t, m.Year)
	assert.Nil(t, m.Rating.KP)
	assert.Nil(t, m.Poster)
	assert.Nil(t, m.Logo)
	assert.Nil(t, m.Budget)
	assert.NotNil(t, m.Genres)
	assert.NotNil(t, m.SimilarMovies)
	assert.NotNil(t, m.Categories)
	assert.Nil(t, m.UserRating)
}

func TestRowToMovie_ZeroValuesStayPresent(t *testing.T) {
	m := rowToMovie(store.Movie{
		ID:       1,
		Year:     sql.NullInt64{Int64: 0, Valid: true},
		IsSeries: sql.NullBool{Bool: false, Valid: true},
	})

	require.NotNil(t, m.Year)
	assert.Equal(t, 0, *m.Year)
	require.NotNil(t, m.IsSeries)
	assert.False(t, *m.IsSeries)
}

func TestDetailsToMovie_RoundTrip(t *testing.T) {
	w := wireMovie(326, "Побег из Шоушенка")
	b := wireToBundle(w)

	m := detailsToMovie(store.MovieDetails{
		Movie:      b.Movie,
		Genres:     b.Genres,
		Countries:  b.Countries,
		Persons:    b.Persons,
		Facts:      b.Facts,
		Similars:   b.Similars,
		Categories: []Category{store.CategoryFavourite, store.CategoryDetectives},
		UserRating: sql.NullInt64{Int64: 9, Valid: true},
	})

	assert.Equal(t, *w.Name, *m.Name)
	assert.Equal(t, *w.Year, *m.Year)
	assert.Equal(t, *w.Rating.KP, *m.Rating.KP)
	assert.Equal(t, *w.Rating.FilmCritics, *m.Rating.FilmCritics)
	assert.Equal(t, *w.Poster.URL, *m.Poster.URL)
	assert.Nil(t, m.Poster.PreviewURL)
	assert.Equal(t, []Genre{{ID: nameID("драма"), Name: "драма"}}, m.Genres)
	assert.Equal(t, "Тим Роббинс", *m.Persons[0].Name)
	assert.Equal(t, "Факт", m.Facts[0].Fact)
	assert.Equal(t, int64(42), m.SimilarMovies[0].ID)
	assert.Empty(t, m.SequelsAndPrequels)

	assert.True(t, m.IsFavorite)
	assert.False(t, m.IsWillWatch)
	require.NotNil(t, m.UserRating)
	assert.Equal(t, 9, *m.UserRating)
}

func TestRemoteOnlyMappers(t *testing.T) {
	awards := awardsFromWire([]kinopoisk.Award{{
		Title:      testutil.StringPtr("Оскар"),
		Nomination: &kinopoisk.Nomination{Title: testutil.StringPtr("Лучший фильм"), Year: testutil.IntPtr(1995)},
		Winning:    testutil.BoolPtr(false),
	}, {Title: testutil.StringPtr("Сатурн")}})

	require.Len(t, awards, 2)
	assert.Equal(t, "Лучший фильм", *awards[0].NominationTitle)
	assert.False(t, awards[0].Winning)
	assert.Nil(t, awards[1].NominationTitle)

	studios := studiosFromWire([]kinopoisk.Studio{{Name: testutil.StringPtr("Castle Rock"), Logo: &kinopoisk.Logo{URL: testutil.StringPtr("u")}}})
	require.Len(t, studios, 1)
	assert.Equal(t, "u", *studios[0].LogoURL)

	filters := filtersFromWire([]kinopoisk.FilterValue{{Name: "драма", Slug: testutil.StringPtr("drama")}, {Name: ""}})
	assert.Equal(t, []Filter{{Name: "драма", Slug: testutil.StringPtr("drama")}}, filters)

	assert.Nil(t, reviewInfo(nil))
	assert.Empty(t, imagesFromWire(nil))
	assert.NotNil(t, reviewsFromWire(nil))
}
