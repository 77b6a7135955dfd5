// Package store is the relational cache of catalog titles and user state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/absolutecinema/absolutecinema/internal/metrics"
)

// Store wraps the cache database. Reads go straight to the connection;
// writes run in transactions and notify subscribers after commit.
type Store struct {
	db       *sql.DB
	queries  *Queries
	notifier *Notifier
	logger   zerolog.Logger
}

// New creates a store over an open, migrated database.
func New(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:       db,
		queries:  NewQueries(db),
		notifier: NewNotifier(),
		logger:   logger.With().Str("component", "store").Logger(),
	}
}

// Queries returns queries bound to the connection, for reads.
func (s *Store) Queries() *Queries {
	return s.queries
}

// Subscribe registers for change signals on tables. See Notifier.Subscribe.
func (s *Store) Subscribe(tables ...Table) (<-chan struct{}, func()) {
	return s.notifier.Subscribe(tables...)
}

// Write runs fn in a single transaction. On commit, subscribers of tables are
// signalled; on error nothing is persisted and nobody is signalled.
func (s *Store) Write(ctx context.Context, op string, tables []Table, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}

	if err := fn(s.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn().Err(rbErr).Str("op", op).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}

	metrics.CacheWritesTotal.WithLabelValues(op).Inc()
	s.notifier.Notify(tables...)
	return nil
}

func saveBundle(ctx context.Context, q *Queries, b MovieBundle) error {
	id := b.Movie.ID
	if err := q.UpsertMovie(ctx, b.Movie); err != nil {
		return fmt.Errorf("upsert movie %d: %w", id, err)
	}

	for _, g := range b.Genres {
		if err := q.InsertGenre(ctx, g); err != nil {
			return fmt.Errorf("insert genre %q: %w", g.Name, err)
		}
		if err := q.LinkMovieGenre(ctx, id, g.ID); err != nil {
			return fmt.Errorf("link genre %q: %w", g.Name, err)
		}
	}

	for _, c := range b.Countries {
		if err := q.InsertCountry(ctx, c); err != nil {
			return fmt.Errorf("insert country %q: %w", c.Name, err)
		}
		if err := q.LinkMovieCountry(ctx, id, c.ID); err != nil {
			return fmt.Errorf("link country %q: %w", c.Name, err)
		}
	}

	for i, p := range b.Persons {
		if err := q.InsertPerson(ctx, p); err != nil {
			return fmt.Errorf("insert person %d: %w", p.ID, err)
		}
		if err := q.LinkMoviePerson(ctx, id, p.ID, i); err != nil {
			return fmt.Errorf("link person %d: %w", p.ID, err)
		}
	}

	for _, f := range b.Facts {
		f.MovieID = id
		if err := q.InsertFact(ctx, f); err != nil {
			return fmt.Errorf("insert fact: %w", err)
		}
	}

	if err := saveRelated(ctx, q, RelationSequel, id, b.Sequels); err != nil {
		return err
	}
	return saveRelated(ctx, q, RelationSimilar, id, b.Similars)
}

func saveRelated(ctx context.Context, q *Queries, rel Relation, movieID int64, items []RelatedTitle) error {
	for _, r := range items {
		if err := q.InsertRelatedTitle(ctx, r); err != nil {
			return fmt.Errorf("insert related title %d: %w", r.ID, err)
		}
		if err := q.LinkRelated(ctx, rel, movieID, r.ID); err != nil {
			return fmt.Errorf("link %s %d: %w", rel, r.ID, err)
		}
	}
	return nil
}

// SaveMovie writes a title with all related rows atomically.
func (s *Store) SaveMovie(ctx context.Context, b MovieBundle) error {
	return s.Write(ctx, "save_movie", movieTables, func(q *Queries) error {
		return saveBundle(ctx, q, b)
	})
}

// SaveMovies writes a batch of titles in one transaction.
func (s *Store) SaveMovies(ctx context.Context, bundles []MovieBundle) error {
	if len(bundles) == 0 {
		return nil
	}
	return s.Write(ctx, "save_movies", movieTables, func(q *Queries) error {
		for _, b := range bundles {
			if err := saveBundle(ctx, q, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceCategory saves bundles and makes them the exact membership of c.
// Titles previously in c but absent from bundles are untagged.
func (s *Store) ReplaceCategory(ctx context.Context, c Category, bundles []MovieBundle) error {
	tables := append([]Table{TableMovieCategories}, movieTables...)
	return s.Write(ctx, "replace_category", tables, func(q *Queries) error {
		if err := q.ClearCategory(ctx, c); err != nil {
			return fmt.Errorf("clear category %s: %w", c, err)
		}
		for _, b := range bundles {
			if err := saveBundle(ctx, q, b); err != nil {
				return err
			}
			if err := q.AddMovieCategory(ctx, b.Movie.ID, c); err != nil {
				return fmt.Errorf("tag %d with %s: %w", b.Movie.ID, c, err)
			}
		}
		return nil
	})
}

// AddToCategory tags a title, creating an empty title row if none is cached.
func (s *Store) AddToCategory(ctx context.Context, movieID int64, c Category) error {
	return s.Write(ctx, "add_category", []Table{TableMovies, TableMovieCategories}, func(q *Queries) error {
		if err := q.EnsureMovie(ctx, movieID); err != nil {
			return err
		}
		return q.AddMovieCategory(ctx, movieID, c)
	})
}

// RemoveFromCategory untags a title. removed is false if it was not tagged.
func (s *Store) RemoveFromCategory(ctx context.Context, movieID int64, c Category) (removed bool, err error) {
	err = s.Write(ctx, "remove_category", []Table{TableMovieCategories}, func(q *Queries) error {
		n, err := q.RemoveMovieCategory(ctx, movieID, c)
		removed = n > 0
		return err
	})
	return removed, err
}

// SetUserRating records a rating, creating an empty title row if none is cached.
func (s *Store) SetUserRating(ctx context.Context, movieID, value int64) error {
	return s.Write(ctx, "set_rating", []Table{TableMovies, TableUserRatings}, func(q *Queries) error {
		if err := q.EnsureMovie(ctx, movieID); err != nil {
			return err
		}
		return q.SetUserRating(ctx, movieID, value)
	})
}

// ClearUserRating deletes a rating. removed is false if there was none.
func (s *Store) ClearUserRating(ctx context.Context, movieID int64) (removed bool, err error) {
	err = s.Write(ctx, "clear_rating", []Table{TableUserRatings}, func(q *Queries) error {
		n, err := q.DeleteUserRating(ctx, movieID)
		removed = n > 0
		return err
	})
	return removed, err
}

// ClearAll empties every cache table in one transaction. Category
// definitions and settings are kept.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.Write(ctx, "clear_all", cacheTables, func(q *Queries) error {
		for _, t := range cacheTables {
			if err := q.DeleteAll(ctx, t); err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}

// GetMovie returns the cached title row. ok is false when it is not cached.
func (s *Store) GetMovie(ctx context.Context, id int64) (m Movie, ok bool, err error) {
	m, err = s.queries.GetMovie(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Movie{}, false, nil
	}
	if err != nil {
		return Movie{}, false, err
	}
	return m, true, nil
}

// LoadDetails joins a title row with its related rows and user state.
func (s *Store) LoadDetails(ctx context.Context, m Movie) (MovieDetails, error) {
	q := s.queries
	d := MovieDetails{Movie: m}
	var err error

	if d.Genres, err = q.ListGenresForMovie(ctx, m.ID); err != nil {
		return d, fmt.Errorf("genres: %w", err)
	}
	if d.Countries, err = q.ListCountriesForMovie(ctx, m.ID); err != nil {
		return d, fmt.Errorf("countries: %w", err)
	}
	if d.Persons, err = q.ListPersonsForMovie(ctx, m.ID); err != nil {
		return d, fmt.Errorf("persons: %w", err)
	}
	if d.Facts, err = q.ListFactsForMovie(ctx, m.ID); err != nil {
		return d, fmt.Errorf("facts: %w", err)
	}
	if d.Sequels, err = q.ListRelated(ctx, RelationSequel, m.ID); err != nil {
		return d, fmt.Errorf("sequels: %w", err)
	}
	if d.Similars, err = q.ListRelated(ctx, RelationSimilar, m.ID); err != nil {
		return d, fmt.Errorf("similars: %w", err)
	}
	if d.Categories, err = q.ListCategoriesForMovie(ctx, m.ID); err != nil {
		return d, fmt.Errorf("categories: %w", err)
	}

	v, err := q.GetUserRating(ctx, m.ID)
	switch {
	case err == nil:
		d.UserRating = sql.NullInt64{Int64: v, Valid: true}
	case !errors.Is(err, sql.ErrNoRows):
		return d, fmt.Errorf("user rating: %w", err)
	}
	return d, nil
}

// ListCategory returns every title tagged with c, fully joined.
func (s *Store) ListCategory(ctx context.Context, c Category) ([]MovieDetails, error) {
	rows, err := s.queries.ListMoviesByCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.loadAll(ctx, rows)
}

// ListRated returns every title carrying a user rating, fully joined.
func (s *Store) ListRated(ctx context.Context) ([]MovieDetails, error) {
	rows, err := s.queries.ListRatedMovies(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadAll(ctx, rows)
}

func (s *Store) loadAll(ctx context.Context, rows []Movie) ([]MovieDetails, error) {
	out := make([]MovieDetails, 0, len(rows))
	for _, m := range rows {
		d, err := s.LoadDetails(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("load movie %d: %w", m.ID, err)
		}
		out = append(out, d)
	}
	return out, nil
}
