package store

import (
	"context"
	"database/sql"
	"strings"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds the SQL for every cache table.
type Queries struct {
	db DBTX
}

// NewQueries returns queries bound to db.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type scanner interface {
	Scan(dest ...any) error
}

var movieColumnNames = []string{
	"id", "name", "alternative_name", "en_name", "type", "type_number", "year",
	"description", "short_description", "slogan", "status",
	"movie_length", "series_length", "total_series_length", "age_rating",
	"is_series", "top10", "top250",
	"rating_kp", "rating_imdb", "rating_tmdb", "rating_film_critics", "rating_russian_film_critics", "rating_await",
	"budget_value", "budget_currency",
	"logo_url", "poster_url", "poster_preview_url", "backdrop_url", "backdrop_preview_url",
}

var (
	movieColumns  = strings.Join(movieColumnNames, ", ")
	mMovieColumns = "m." + strings.Join(movieColumnNames, ", m.")
)

func scanMovie(row scanner) (Movie, error) {
	var m Movie
	err := row.Scan(
		&m.ID, &m.Name, &m.AlternativeName, &m.EnName, &m.Type, &m.TypeNumber, &m.Year,
		&m.Description, &m.ShortDescription, &m.Slogan, &m.Status,
		&m.MovieLength, &m.SeriesLength, &m.TotalSeriesLength, &m.AgeRating,
		&m.IsSeries, &m.Top10, &m.Top250,
		&m.RatingKP, &m.RatingIMDB, &m.RatingTMDB, &m.RatingFilmCritics, &m.RatingRussianFilmCritics, &m.RatingAwait,
		&m.BudgetValue, &m.BudgetCurrency,
		&m.LogoURL, &m.PosterURL, &m.PosterPreviewURL, &m.BackdropURL, &m.BackdropPreviewURL,
	)
	return m, err
}

func movieArgs(m Movie) []any {
	return []any{
		m.ID, m.Name, m.AlternativeName, m.EnName, m.Type, m.TypeNumber, m.Year,
		m.Description, m.ShortDescription, m.Slogan, m.Status,
		m.MovieLength, m.SeriesLength, m.TotalSeriesLength, m.AgeRating,
		m.IsSeries, m.Top10, m.Top250,
		m.RatingKP, m.RatingIMDB, m.RatingTMDB, m.RatingFilmCritics, m.RatingRussianFilmCritics, m.RatingAwait,
		m.BudgetValue, m.BudgetCurrency,
		m.LogoURL, m.PosterURL, m.PosterPreviewURL, m.BackdropURL, m.BackdropPreviewURL,
	}
}

var upsertMovie = func() string {
	sets := make([]string, 0, len(movieColumnNames))
	for _, c := range movieColumnNames[1:] {
		sets = append(sets, c+" = excluded."+c)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(movieColumnNames)), ", ")
	return "INSERT INTO movies (" + movieColumns + ") VALUES (" + placeholders + ")\n" +
		"ON CONFLICT(id) DO UPDATE SET " + strings.Join(sets, ", ")
}()

// UpsertMovie writes every column of m, replacing an existing row in place so
// join rows referencing it survive.
func (q *Queries) UpsertMovie(ctx context.Context, m Movie) error {
	_, err := q.db.ExecContext(ctx, upsertMovie, movieArgs(m)...)
	return err
}

const ensureMovie = `INSERT INTO movies (id) VALUES (?) ON CONFLICT(id) DO NOTHING`

// EnsureMovie inserts an empty row for id unless one exists.
func (q *Queries) EnsureMovie(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, ensureMovie, id)
	return err
}

// GetMovie returns the cached row for id or sql.ErrNoRows.
func (q *Queries) GetMovie(ctx context.Context, id int64) (Movie, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id)
	return scanMovie(row)
}

func (q *Queries) listMovies(ctx context.Context, query string, args ...any) ([]Movie, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// ListMoviesByCategory returns titles tagged with c, in tagging order.
func (q *Queries) ListMoviesByCategory(ctx context.Context, c Category) ([]Movie, error) {
	return q.listMovies(ctx, `SELECT `+mMovieColumns+`
FROM movies m
JOIN movie_categories mc ON mc.movie_id = m.id
JOIN categories c ON c.id = mc.category_id
WHERE c.name = ?
ORDER BY mc.rowid`, string(c))
}

// ListRatedMovies returns titles carrying a user rating, most recently rated first.
func (q *Queries) ListRatedMovies(ctx context.Context) ([]Movie, error) {
	return q.listMovies(ctx, `SELECT `+mMovieColumns+`
FROM movies m
JOIN user_ratings ur ON ur.movie_id = m.id
ORDER BY ur.updated_at DESC, ur.rowid DESC`)
}

const insertGenre = `INSERT INTO genres (id, name) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`

func (q *Queries) InsertGenre(ctx context.Context, g Genre) error {
	_, err := q.db.ExecContext(ctx, insertGenre, g.ID, g.Name)
	return err
}

const linkMovieGenre = `INSERT INTO movie_genres (movie_id, genre_id) VALUES (?, ?) ON CONFLICT DO NOTHING`

func (q *Queries) LinkMovieGenre(ctx context.Context, movieID, genreID int64) error {
	_, err := q.db.ExecContext(ctx, linkMovieGenre, movieID, genreID)
	return err
}

// ListGenresForMovie returns genres of a title in link order.
func (q *Queries) ListGenresForMovie(ctx context.Context, movieID int64) ([]Genre, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT g.id, g.name FROM genres g
JOIN movie_genres mg ON mg.genre_id = g.id
WHERE mg.movie_id = ? ORDER BY mg.rowid`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Genre{}
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const insertCountry = `INSERT INTO countries (id, name) VALUES (?, ?) ON CONFLICT(id) DO NOTHING`

func (q *Queries) InsertCountry(ctx context.Context, c Country) error {
	_, err := q.db.ExecContext(ctx, insertCountry, c.ID, c.Name)
	return err
}

const linkMovieCountry = `INSERT INTO movie_countries (movie_id, country_id) VALUES (?, ?) ON CONFLICT DO NOTHING`

func (q *Queries) LinkMovieCountry(ctx context.Context, movieID, countryID int64) error {
	_, err := q.db.ExecContext(ctx, linkMovieCountry, movieID, countryID)
	return err
}

// ListCountriesForMovie returns countries of a title in link order.
func (q *Queries) ListCountriesForMovie(ctx context.Context, movieID int64) ([]Country, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT c.id, c.name FROM countries c
JOIN movie_countries mc ON mc.country_id = c.id
WHERE mc.movie_id = ? ORDER BY mc.rowid`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Country{}
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const insertPerson = `INSERT INTO persons (id, name, en_name, photo, description, profession, en_profession)
VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`

func (q *Queries) InsertPerson(ctx context.Context, p Person) error {
	_, err := q.db.ExecContext(ctx, insertPerson,
		p.ID, p.Name, p.EnName, p.Photo, p.Description, p.Profession, p.EnProfession)
	return err
}

const linkMoviePerson = `INSERT INTO movie_persons (movie_id, person_id, position) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`

func (q *Queries) LinkMoviePerson(ctx context.Context, movieID, personID int64, position int) error {
	_, err := q.db.ExecContext(ctx, linkMoviePerson, movieID, personID, position)
	return err
}

// ListPersonsForMovie returns the cast and crew of a title in credit order.
func (q *Queries) ListPersonsForMovie(ctx context.Context, movieID int64) ([]Person, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT p.id, p.name, p.en_name, p.photo, p.description, p.profession, p.en_profession
FROM persons p
JOIN movie_persons mp ON mp.person_id = p.id
WHERE mp.movie_id = ? ORDER BY mp.position, mp.rowid`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Person{}
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.EnName, &p.Photo, &p.Description, &p.Profession, &p.EnProfession); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const insertFact = `INSERT INTO facts (movie_id, fact, type, spoiler) VALUES (?, ?, ?, ?)
ON CONFLICT(movie_id, fact) DO NOTHING`

// InsertFact adds a fact unless the same text is already stored for the title.
func (q *Queries) InsertFact(ctx context.Context, f Fact) error {
	_, err := q.db.ExecContext(ctx, insertFact, f.MovieID, f.Fact, f.Type, f.Spoiler)
	return err
}

func (q *Queries) ListFactsForMovie(ctx context.Context, movieID int64) ([]Fact, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, movie_id, fact, type, spoiler FROM facts WHERE movie_id = ? ORDER BY id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Fact{}
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.ID, &f.MovieID, &f.Fact, &f.Type, &f.Spoiler); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

const insertRelatedTitle = `INSERT INTO related_titles
(id, name, en_name, alternative_name, type, poster_url, poster_preview_url, rating_kp, rating_imdb, year)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(id) DO NOTHING`

func (q *Queries) InsertRelatedTitle(ctx context.Context, r RelatedTitle) error {
	_, err := q.db.ExecContext(ctx, insertRelatedTitle,
		r.ID, r.Name, r.EnName, r.AlternativeName, r.Type, r.PosterURL, r.PosterPreviewURL, r.RatingKP, r.RatingIMDB, r.Year)
	return err
}

// Relation selects one of the two related-title join tables.
type Relation string

const (
	RelationSequel  Relation = "movie_sequels"
	RelationSimilar Relation = "movie_similars"
)

func (q *Queries) LinkRelated(ctx context.Context, rel Relation, movieID, relatedID int64) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO "+string(rel)+" (movie_id, related_id) VALUES (?, ?) ON CONFLICT DO NOTHING", movieID, relatedID)
	return err
}

func (q *Queries) ListRelated(ctx context.Context, rel Relation, movieID int64) ([]RelatedTitle, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT r.id, r.name, r.en_name, r.alternative_name, r.type,
r.poster_url, r.poster_preview_url, r.rating_kp, r.rating_imdb, r.year
FROM related_titles r
JOIN `+string(rel)+` j ON j.related_id = r.id
WHERE j.movie_id = ? ORDER BY j.rowid`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []RelatedTitle{}
	for rows.Next() {
		var r RelatedTitle
		if err := rows.Scan(&r.ID, &r.Name, &r.EnName, &r.AlternativeName, &r.Type,
			&r.PosterURL, &r.PosterPreviewURL, &r.RatingKP, &r.RatingIMDB, &r.Year); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const addMovieCategory = `INSERT INTO movie_categories (movie_id, category_id)
SELECT ?, id FROM categories WHERE name = ?
ON CONFLICT DO NOTHING`

// AddMovieCategory tags a title. Tagging twice is a no-op.
func (q *Queries) AddMovieCategory(ctx context.Context, movieID int64, c Category) error {
	_, err := q.db.ExecContext(ctx, addMovieCategory, movieID, string(c))
	return err
}

const removeMovieCategory = `DELETE FROM movie_categories
WHERE movie_id = ? AND category_id = (SELECT id FROM categories WHERE name = ?)`

// RemoveMovieCategory untags a title and reports how many rows went away.
func (q *Queries) RemoveMovieCategory(ctx context.Context, movieID int64, c Category) (int64, error) {
	res, err := q.db.ExecContext(ctx, removeMovieCategory, movieID, string(c))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const clearCategory = `DELETE FROM movie_categories
WHERE category_id = (SELECT id FROM categories WHERE name = ?)`

// ClearCategory removes every title from c.
func (q *Queries) ClearCategory(ctx context.Context, c Category) error {
	_, err := q.db.ExecContext(ctx, clearCategory, string(c))
	return err
}

func (q *Queries) ListCategoriesForMovie(ctx context.Context, movieID int64) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT c.name FROM categories c
JOIN movie_categories mc ON mc.category_id = c.id
WHERE mc.movie_id = ? ORDER BY c.id`, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Category{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, Category(name))
	}
	return items, rows.Err()
}

const setUserRating = `INSERT INTO user_ratings (movie_id, value) VALUES (?, ?)
ON CONFLICT(movie_id) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

func (q *Queries) SetUserRating(ctx context.Context, movieID, value int64) error {
	_, err := q.db.ExecContext(ctx, setUserRating, movieID, value)
	return err
}

// GetUserRating returns the rating of a title or sql.ErrNoRows.
func (q *Queries) GetUserRating(ctx context.Context, movieID int64) (int64, error) {
	var v int64
	err := q.db.QueryRowContext(ctx, `SELECT value FROM user_ratings WHERE movie_id = ?`, movieID).Scan(&v)
	return v, err
}

func (q *Queries) DeleteUserRating(ctx context.Context, movieID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM user_ratings WHERE movie_id = ?`, movieID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// cacheTables lists deletable cache tables, children before parents.
var cacheTables = []Table{
	TableMovieCategories,
	TableMovieGenres,
	TableMovieCountries,
	TableMoviePersons,
	TableMovieSequels,
	TableMovieSimilars,
	TableFacts,
	TableUserRatings,
	TableGenres,
	TableCountries,
	TablePersons,
	TableRelatedTitles,
	TableMovies,
}

// DeleteAll removes every row of t.
func (q *Queries) DeleteAll(ctx context.Context, t Table) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM "+string(t))
	return err
}

// Count returns the number of rows in t.
func (q *Queries) Count(ctx context.Context, t Table) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+string(t)).Scan(&n)
	return n, err
}

func (q *Queries) GetSetting(ctx context.Context, key string) (Setting, error) {
	var s Setting
	err := q.db.QueryRowContext(ctx, `SELECT key, value FROM settings WHERE key = ?`, key).Scan(&s.Key, &s.Value)
	return s, err
}

const setSetting = `INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

func (q *Queries) SetSetting(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, setSetting, key, value)
	return err
}

func (q *Queries) DeleteSetting(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return err
}
