package movies

import (
	"database/sql"
	"hash/fnv"
	"strings"

	"github.com/absolutecinema/absolutecinema/internal/kinopoisk"
	"github.com/absolutecinema/absolutecinema/internal/store"
)

// nameID derives a stable identifier for reference rows the catalog only
// knows by name (genres, countries).
func nameID(name string) int64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return int64(h.Sum32())
}

// wire → cache

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func wireToRow(w kinopoisk.Movie) store.Movie {
	m := store.Movie{
		ID:                w.ID,
		Name:              nullString(w.Name),
		AlternativeName:   nullString(w.AlternativeName),
		EnName:            nullString(w.EnName),
		Type:              nullString(w.Type),
		TypeNumber:        nullInt(w.TypeNumber),
		Year:              nullInt(w.Year),
		Description:       nullString(w.Description),
		ShortDescription:  nullString(w.ShortDescription),
		Slogan:            nullString(w.Slogan),
		Status:            nullString(w.Status),
		MovieLength:       nullInt(w.MovieLength),
		SeriesLength:      nullInt(w.SeriesLength),
		TotalSeriesLength: nullInt(w.TotalSeriesLength),
		AgeRating:         nullInt(w.AgeRating),
		IsSeries:          nullBool(w.IsSeries),
		Top10:             nullInt(w.Top10),
		Top250:            nullInt(w.Top250),
	}

	if r := w.Rating; r != nil {
		m.RatingKP = nullFloat(r.KP)
		m.RatingIMDB = nullFloat(r.IMDB)
		m.RatingTMDB = nullFloat(r.TMDB)
		m.RatingFilmCritics = nullFloat(r.FilmCritics)
		m.RatingRussianFilmCritics = nullFloat(r.RussianFilmCritics)
		m.RatingAwait = nullFloat(r.Await)
	}
	if b := w.Budget; b != nil {
		m.BudgetValue = nullInt64(b.Value)
		m.BudgetCurrency = nullString(b.Currency)
	}
	if l := w.Logo; l != nil {
		m.LogoURL = nullString(l.URL)
	}
	if p := w.Poster; p != nil {
		m.PosterURL = nullString(p.URL)
		m.PosterPreviewURL = nullString(p.PreviewURL)
	}
	if b := w.Backdrop; b != nil {
		m.BackdropURL = nullString(b.URL)
		m.BackdropPreviewURL = nullString(b.PreviewURL)
	}
	return m
}

func wireToRelated(l kinopoisk.LinkedMovie) store.RelatedTitle {
	r := store.RelatedTitle{
		ID:              l.ID,
		Name:            nullString(l.Name),
		EnName:          nullString(l.EnName),
		AlternativeName: nullString(l.AlternativeName),
		Type:            nullString(l.Type),
		Year:            nullInt(l.Year),
	}
	if p := l.Poster; p != nil {
		r.PosterURL = nullString(p.URL)
		r.PosterPreviewURL = nullString(p.PreviewURL)
	}
	if rt := l.Rating; rt != nil {
		r.RatingKP = nullFloat(rt.KP)
		r.RatingIMDB = nullFloat(rt.IMDB)
	}
	return r
}

// wireToBundle maps a catalog record to the rows written to the cache.
func wireToBundle(w kinopoisk.Movie) store.MovieBundle {
	b := store.MovieBundle{
		Movie:     wireToRow(w),
		Genres:    make([]store.Genre, 0, len(w.Genres)),
		Countries: make([]store.Country, 0, len(w.Countries)),
		Persons:   make([]store.Person, 0, len(w.Persons)),
		Facts:     make([]store.Fact, 0, len(w.Facts)),
		Sequels:   make([]store.RelatedTitle, 0, len(w.SequelsAndPrequels)),
		Similars:  make([]store.RelatedTitle, 0, len(w.SimilarMovies)),
	}

	for _, g := range w.Genres {
		if g.Name == "" {
			continue
		}
		b.Genres = append(b.Genres, store.Genre{ID: nameID(g.Name), Name: g.Name})
	}
	for _, c := range w.Countries {
		if c.Name == "" {
			continue
		}
		b.Countries = append(b.Countries, store.Country{ID: nameID(c.Name), Name: c.Name})
	}

	seen := make(map[int64]struct{}, len(w.Persons))
	for _, p := range w.Persons {
		if _, dup := seen[p.ID]; dup || p.ID == 0 {
			continue
		}
		seen[p.ID] = struct{}{}
		b.Persons = append(b.Persons, store.Person{
			ID:           p.ID,
			Name:         nullString(p.Name),
			EnName:       nullString(p.EnName),
			Photo:        nullString(p.Photo),
			Description:  nullString(p.Description),
			Profession:   nullString(p.Profession),
			EnProfession: nullString(p.EnProfession),
		})
	}

	for _, f := range w.Facts {
		if f.Value == "" {
			continue
		}
		b.Facts = append(b.Facts, store.Fact{
			MovieID: w.ID,
			Fact:    f.Value,
			Type:    nullString(f.Type),
			Spoiler: nullBool(f.Spoiler),
		})
	}

	for _, s := range w.SequelsAndPrequels {
		if s.ID == 0 {
			continue
		}
		b.Sequels = append(b.Sequels, wireToRelated(s))
	}
	for _, s := range w.SimilarMovies {
		if s.ID == 0 {
			continue
		}
		b.Similars = append(b.Similars, wireToRelated(s))
	}
	return b
}

// cache → presentation

func ptrString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func ptrInt(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}

func ptrInt64(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

func ptrFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func ptrBool(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func image(url, preview sql.NullString) *Image {
	if !url.Valid && !preview.Valid {
		return nil
	}
	return &Image{URL: ptrString(url), PreviewURL: ptrString(preview)}
}

// rowToMovie maps a cached title row to a presentation record. Collections
// are empty; the repository fills them together with user state.
func rowToMovie(m store.Movie) Movie {
	out := Movie{
		ID:                m.ID,
		Name:              ptrString(m.Name),
		AlternativeName:   ptrString(m.AlternativeName),
		EnName:            ptrString(m.EnName),
		Type:              ptrString(m.Type),
		TypeNumber:        ptrInt(m.TypeNumber),
		Year:              ptrInt(m.Year),
		Description:       ptrString(m.Description),
		ShortDescription:  ptrString(m.ShortDescription),
		Slogan:            ptrString(m.Slogan),
		Status:            ptrString(m.Status),
		MovieLength:       ptrInt(m.MovieLength),
		SeriesLength:      ptrInt(m.SeriesLength),
		TotalSeriesLength: ptrInt(m.TotalSeriesLength),
		AgeRating:         ptrInt(m.AgeRating),
		IsSeries:          ptrBool(m.IsSeries),
		Top10:             ptrInt(m.Top10),
		Top250:            ptrInt(m.Top250),
		Rating: Rating{
			KP:                 ptrFloat(m.RatingKP),
			IMDB:               ptrFloat(m.RatingIMDB),
			TMDB:               ptrFloat(m.RatingTMDB),
			FilmCritics:        ptrFloat(m.RatingFilmCritics),
			RussianFilmCritics: ptrFloat(m.RatingRussianFilmCritics),
			Await:              ptrFloat(m.RatingAwait),
		},
		Poster:             image(m.PosterURL, m.PosterPreviewURL),
		Backdrop:           image(m.BackdropURL, m.BackdropPreviewURL),
		Genres:             []Genre{},
		Countries:          []Country{},
		Persons:            []Person{},
		Facts:              []Fact{},
		SequelsAndPrequels: []RelatedTitle{},
		SimilarMovies:      []RelatedTitle{},
		Categories:         []Category{},
	}
	if m.LogoURL.Valid {
		out.Logo = &Image{URL: ptrString(m.LogoURL)}
	}
	if m.BudgetValue.Valid || m.BudgetCurrency.Valid {
		out.Budget = &Budget{Value: ptrInt64(m.BudgetValue), Currency: ptrString(m.BudgetCurrency)}
	}
	return out
}

func relatedToPresentation(items []store.RelatedTitle) []RelatedTitle {
	out := make([]RelatedTitle, 0, len(items))
	for _, r := range items {
		out = append(out, RelatedTitle{
			ID:              r.ID,
			Name:            ptrString(r.Name),
			EnName:          ptrString(r.EnName),
			AlternativeName: ptrString(r.AlternativeName),
			Type:            ptrString(r.Type),
			Poster:          image(r.PosterURL, r.PosterPreviewURL),
			Rating:          Rating{KP: ptrFloat(r.RatingKP), IMDB: ptrFloat(r.RatingIMDB)},
			Year:            ptrInt(r.Year),
		})
	}
	return out
}

// detailsToMovie completes the presentation record with related lists,
// category flags and the user rating.
func detailsToMovie(d store.MovieDetails) Movie {
	out := rowToMovie(d.Movie)

	for _, g := range d.Genres {
		out.Genres = append(out.Genres, Genre{ID: g.ID, Name: g.Name})
	}
	for _, c := range d.Countries {
		out.Countries = append(out.Countries, Country{ID: c.ID, Name: c.Name})
	}
	for _, p := range d.Persons {
		out.Persons = append(out.Persons, Person{
			ID:           p.ID,
			Name:         ptrString(p.Name),
			EnName:       ptrString(p.EnName),
			Photo:        ptrString(p.Photo),
			Description:  ptrString(p.Description),
			Profession:   ptrString(p.Profession),
			EnProfession: ptrString(p.EnProfession),
		})
	}
	for _, f := range d.Facts {
		out.Facts = append(out.Facts, Fact{Fact: f.Fact, Type: ptrString(f.Type), Spoiler: ptrBool(f.Spoiler)})
	}
	out.SequelsAndPrequels = relatedToPresentation(d.Sequels)
	out.SimilarMovies = relatedToPresentation(d.Similars)

	out.Categories = append(out.Categories, d.Categories...)
	for _, c := range d.Categories {
		switch c {
		case store.CategoryFavourite:
			out.IsFavorite = true
		case store.CategoryWillWatch:
			out.IsWillWatch = true
		}
	}
	out.UserRating = ptrInt(d.UserRating)
	return out
}

func reviewInfo(r *kinopoisk.ReviewInfo) *ReviewInfo {
	if r == nil {
		return nil
	}
	return &ReviewInfo{Count: r.Count, PositiveCount: r.PositiveCount, Percentage: r.Percentage}
}

func filtersFromWire(values []kinopoisk.FilterValue) []Filter {
	out := make([]Filter, 0, len(values))
	for _, v := range values {
		if v.Name == "" {
			continue
		}
		out = append(out, Filter{Name: v.Name, Slug: v.Slug})
	}
	return out
}

func awardsFromWire(items []kinopoisk.Award) []Award {
	out := make([]Award, 0, len(items))
	for _, a := range items {
		award := Award{Title: a.Title, Year: a.Year, Winning: a.Winning != nil && *a.Winning}
		if n := a.Nomination; n != nil {
			award.NominationTitle = n.Title
			award.NominationYear = n.Year
		}
		out = append(out, award)
	}
	return out
}

func reviewsFromWire(items []kinopoisk.Review) []Review {
	out := make([]Review, 0, len(items))
	for _, r := range items {
		out = append(out, Review{
			ID: r.ID, MovieID: r.MovieID, Title: r.Title, Review: r.Review,
			Author: r.Author, Type: r.Type, Date: r.Date,
		})
	}
	return out
}

func imagesFromWire(items []kinopoisk.Picture) []MovieImage {
	out := make([]MovieImage, 0, len(items))
	for _, p := range items {
		out = append(out, MovieImage{URL: p.URL, PreviewURL: p.PreviewURL, Type: p.Type, Height: p.Height, Width: p.Width})
	}
	return out
}

func studiosFromWire(items []kinopoisk.Studio) []Studio {
	out := make([]Studio, 0, len(items))
	for _, s := range items {
		studio := Studio{ID: s.ID, Name: s.Name}
		if s.Logo != nil {
			studio.LogoURL = s.Logo.URL
		}
		out = append(out, studio)
	}
	return out
}
