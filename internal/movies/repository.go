// Package movies merges the remote catalog with the local cache and projects
// cached titles into presentation records.
package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/absolutecinema/absolutecinema/internal/kinopoisk"
	"github.com/absolutecinema/absolutecinema/internal/metrics"
	"github.com/absolutecinema/absolutecinema/internal/store"
	"github.com/absolutecinema/absolutecinema/internal/validation"
)

// ErrNotBucket is returned when a refresh is requested for a user list.
var ErrNotBucket = errors.New("category is not a recommendation bucket")

// ErrClosed is returned by refreshes requested after Close.
var ErrClosed = errors.New("repository closed")

// ErrUnknownCategory is returned for a category name that is not seeded.
var ErrUnknownCategory = errors.New("unknown category")

// Catalog is the remote side of the repository.
type Catalog interface {
	GetMovie(ctx context.Context, id int64) (*kinopoisk.Movie, error)
	SearchByName(ctx context.Context, query string, page, limit int) (*kinopoisk.MoviesResponse, error)
	SearchWithFilters(ctx context.Context, f kinopoisk.FilterParams) (*kinopoisk.MoviesResponse, error)
	GetPossibleValues(ctx context.Context, field string) ([]kinopoisk.FilterValue, error)
	GetAwards(ctx context.Context, movieID int64) (*kinopoisk.AwardsResponse, error)
	GetReviews(ctx context.Context, movieID int64) (*kinopoisk.ReviewsResponse, error)
	GetImages(ctx context.Context, movieID int64) (*kinopoisk.ImagesResponse, error)
	GetStudios(ctx context.Context, movieID int64) (*kinopoisk.StudiosResponse, error)
}

// Broadcaster pushes events to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Event types sent through the Broadcaster.
const (
	EventBucketRefreshed  = "bucket:refreshed"
	EventBucketFailed     = "bucket:failed"
	EventCategorySnapshot = "category:snapshot"
)

func boolPtr(b bool) *bool { return &b }

// bucketFilters are the remote searches that populate each recommendation bucket.
var bucketFilters = map[Category]kinopoisk.FilterParams{
	store.CategoryRecommendedFilms:  {IsSeries: boolPtr(false), Lists: []string{kinopoisk.ListTop250}},
	store.CategoryRecommendedSeries: {IsSeries: boolPtr(true)},
	store.CategoryDetectives:        {Genres: []string{"детектив"}, Lists: []string{kinopoisk.ListTop250}},
	store.CategoryRomans:            {Genres: []string{"драма"}, Lists: []string{kinopoisk.ListTop250}},
	store.CategoryComedies:          {Genres: []string{"комедия"}, Lists: []string{kinopoisk.ListTop250}},
}

// Buckets lists the recommendation buckets in display order.
var Buckets = []Category{
	store.CategoryRecommendedFilms,
	store.CategoryRecommendedSeries,
	store.CategoryDetectives,
	store.CategoryRomans,
	store.CategoryComedies,
}

// IsBucket reports whether c is refreshed from the catalog.
func IsBucket(c Category) bool {
	_, ok := bucketFilters[c]
	return ok
}

// liveTables are the tables a projected title list depends on.
var liveTables = []store.Table{
	store.TableMovies,
	store.TableMovieCategories,
	store.TableMovieGenres,
	store.TableMovieCountries,
	store.TableMoviePersons,
	store.TableFacts,
	store.TableMovieSequels,
	store.TableMovieSimilars,
	store.TableUserRatings,
}

// Options configures a Repository.
type Options struct {
	// Fallbacks replace DefaultFilterFallbacks when set.
	Fallbacks *FilterFallbacks
	// Broadcaster receives bucket refresh events when set.
	Broadcaster Broadcaster
}

// Repository is the single entry point for catalog data. Its operations do
// not return errors: remote and cache failures are logged and degrade to
// cached data, empty results or false.
type Repository struct {
	catalog   Catalog
	store     *store.Store
	fallbacks FilterFallbacks
	hub       Broadcaster
	logger    zerolog.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc
	filters    singleflight.Group

	mu       sync.Mutex
	inflight map[Category]*refreshRun
	closed   bool
	wg       sync.WaitGroup
}

// refreshRun is one bucket refresh shared by every caller that asks for it
// while it runs. It lives on the repository's context, not a caller's.
type refreshRun struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewRepository creates a repository over a catalog client and a cache store.
func NewRepository(catalog Catalog, st *store.Store, opts Options, logger zerolog.Logger) *Repository {
	fallbacks := DefaultFilterFallbacks()
	if opts.Fallbacks != nil {
		fallbacks = *opts.Fallbacks
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Repository{
		catalog:    catalog,
		store:      st,
		fallbacks:  fallbacks,
		hub:        opts.Broadcaster,
		logger:     logger.With().Str("component", "repository").Logger(),
		baseCtx:    ctx,
		baseCancel: cancel,
		inflight:   make(map[Category]*refreshRun),
	}
}

// Close cancels detached refreshes and waits for them to finish.
func (r *Repository) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.baseCancel()
	r.wg.Wait()
}

// GetByID returns a title, refreshing the cache from the catalog first. When
// the catalog is unreachable the cached row is used; when nothing is cached
// an empty record carrying only the id is returned.
func (r *Repository) GetByID(ctx context.Context, id int64) Movie {
	row, cached, err := r.store.GetMovie(ctx, id)
	if err != nil {
		r.logger.Error().Err(err).Str("op", "getById").Int64("id", id).Msg("cache read failed")
	}

	var info *ReviewInfo
	remote, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "getById").Int64("id", id).Msg("remote fetch failed, using cache")
	} else {
		info = reviewInfo(remote.ReviewInfo)
		if err := r.store.SaveMovie(ctx, wireToBundle(*remote)); err != nil {
			r.logger.Error().Err(err).Str("op", "getById").Int64("id", id).Msg("cache write failed")
		}
		if fresh, ok, err := r.store.GetMovie(ctx, id); err == nil && ok {
			row, cached = fresh, true
		}
	}

	if !cached {
		row = store.Movie{ID: id}
	}

	movie := r.project(ctx, row)
	movie.ReviewInfo = info
	return movie
}

// SearchByName searches the catalog by title and caches every result.
func (r *Repository) SearchByName(ctx context.Context, query string) MoviesResponse {
	query = strings.TrimSpace(query)
	if query == "" {
		return emptyResponse()
	}

	resp, err := r.catalog.SearchByName(ctx, query, 0, 0)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "searchByName").Str("query", query).Msg("remote search failed")
		return emptyResponse()
	}
	return r.saveAndProject(ctx, "searchByName", resp)
}

// SearchWithFilters runs a structured catalog search and caches every result.
func (r *Repository) SearchWithFilters(ctx context.Context, f kinopoisk.FilterParams) MoviesResponse {
	if err := validation.Struct(f); err != nil {
		r.logger.Warn().Err(err).Str("op", "searchWithFilters").Msg("invalid filter")
		return emptyResponse()
	}

	resp, err := r.catalog.SearchWithFilters(ctx, f)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "searchWithFilters").Msg("remote search failed")
		return emptyResponse()
	}
	return r.saveAndProject(ctx, "searchWithFilters", resp)
}

func emptyResponse() MoviesResponse {
	return MoviesResponse{Docs: []Movie{}}
}

func (r *Repository) saveAndProject(ctx context.Context, op string, resp *kinopoisk.MoviesResponse) MoviesResponse {
	bundles := make([]store.MovieBundle, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		bundles = append(bundles, wireToBundle(doc))
	}
	if err := r.store.SaveMovies(ctx, bundles); err != nil {
		r.logger.Error().Err(err).Str("op", op).Int("count", len(bundles)).Msg("cache write failed")
	}

	out := MoviesResponse{
		Docs:  make([]Movie, 0, len(bundles)),
		Total: resp.Total,
		Limit: resp.Limit,
		Page:  resp.Page.Page,
		Pages: resp.Pages,
	}
	for i, b := range bundles {
		m := r.project(ctx, b.Movie)
		m.ReviewInfo = reviewInfo(resp.Docs[i].ReviewInfo)
		out.Docs = append(out.Docs, m)
	}
	return out
}

// project joins a title row with everything the cache knows about it.
func (r *Repository) project(ctx context.Context, row store.Movie) Movie {
	d, err := r.store.LoadDetails(ctx, row)
	if err != nil {
		r.logger.Error().Err(err).Str("op", "project").Int64("id", row.ID).Msg("cache read failed")
	}
	return detailsToMovie(d)
}

// CountryFilters returns the legal country filter values.
func (r *Repository) CountryFilters(ctx context.Context) []Filter {
	return r.filterValues(ctx, kinopoisk.FieldCountries, r.fallbacks.Countries)
}

// GenreFilters returns the legal genre filter values.
func (r *Repository) GenreFilters(ctx context.Context) []Filter {
	return r.filterValues(ctx, kinopoisk.FieldGenres, r.fallbacks.Genres)
}

// TypeFilters returns the legal type filter values.
func (r *Repository) TypeFilters(ctx context.Context) []Filter {
	return r.filterValues(ctx, kinopoisk.FieldType, r.fallbacks.Types)
}

func (r *Repository) filterValues(ctx context.Context, field string, fallback []string) []Filter {
	ch := r.filters.DoChan(field, func() (interface{}, error) {
		return r.catalog.GetPossibleValues(context.WithoutCancel(ctx), field)
	})

	var (
		values []kinopoisk.FilterValue
		err    error
	)
	select {
	case res := <-ch:
		err = res.Err
		if err == nil {
			values, _ = res.Val.([]kinopoisk.FilterValue)
		}
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "filterValues").Str("field", field).Msg("remote lookup failed, using fallback")
		return namesToFilters(fallback)
	}

	filters := filtersFromWire(values)
	if len(filters) == 0 {
		r.logger.Warn().Str("op", "filterValues").Str("field", field).Msg("remote returned no values, using fallback")
		return namesToFilters(fallback)
	}
	return filters
}

// Favourites returns a live view of the favourites list.
func (r *Repository) Favourites(ctx context.Context) <-chan []Movie {
	return r.Category(ctx, store.CategoryFavourite)
}

// WillWatch returns a live view of the watch list.
func (r *Repository) WillWatch(ctx context.Context) <-chan []Movie {
	return r.Category(ctx, store.CategoryWillWatch)
}

// Category returns a live view of the titles tagged with c. A full snapshot
// is emitted immediately and again after every relevant cache write; a
// consumer that falls behind only sees the latest snapshot. The channel is
// closed when ctx is done.
func (r *Repository) Category(ctx context.Context, c Category) <-chan []Movie {
	return r.watch(ctx, string(c), func(ctx context.Context) ([]store.MovieDetails, error) {
		return r.store.ListCategory(ctx, c)
	})
}

// RatedMovies returns a live view of every title carrying a user rating.
func (r *Repository) RatedMovies(ctx context.Context) <-chan []Movie {
	return r.watch(ctx, "rated", r.store.ListRated)
}

// Snapshot returns the current contents of c without subscribing.
func (r *Repository) Snapshot(ctx context.Context, c Category) []Movie {
	items, err := r.store.ListCategory(ctx, c)
	if err != nil {
		r.logger.Error().Err(err).Str("op", "snapshot").Str("category", string(c)).Msg("cache read failed")
		return []Movie{}
	}
	return projectAll(items)
}

// RatedSnapshot returns every rated title without subscribing.
func (r *Repository) RatedSnapshot(ctx context.Context) []Movie {
	items, err := r.store.ListRated(ctx)
	if err != nil {
		r.logger.Error().Err(err).Str("op", "ratedSnapshot").Msg("cache read failed")
		return []Movie{}
	}
	return projectAll(items)
}

func projectAll(items []store.MovieDetails) []Movie {
	out := make([]Movie, 0, len(items))
	for _, d := range items {
		out = append(out, detailsToMovie(d))
	}
	return out
}

func (r *Repository) watch(ctx context.Context, name string, load func(context.Context) ([]store.MovieDetails, error)) <-chan []Movie {
	out := make(chan []Movie, 1)
	changes, cancel := r.store.Subscribe(liveTables...)
	metrics.LiveQueriesActive.Inc()

	go func() {
		defer metrics.LiveQueriesActive.Dec()
		defer cancel()
		defer close(out)

		for {
			items, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.Error().Err(err).Str("op", "liveQuery").Str("query", name).Msg("cache read failed")
			} else {
				snapshot := projectAll(items)
				// Drop an undelivered stale snapshot so the consumer gets the latest.
				select {
				case <-out:
				default:
				}
				select {
				case out <- snapshot:
					metrics.LiveQueryEmissionsTotal.WithLabelValues(name).Inc()
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}

// RecommendedFilms refreshes the top-250 films bucket in the background and
// returns its live view.
func (r *Repository) RecommendedFilms(ctx context.Context) <-chan []Movie {
	return r.Bucket(ctx, store.CategoryRecommendedFilms)
}

// RecommendedSeries refreshes the series bucket in the background and
// returns its live view.
func (r *Repository) RecommendedSeries(ctx context.Context) <-chan []Movie {
	return r.Bucket(ctx, store.CategoryRecommendedSeries)
}

// Detectives refreshes the top-250 detectives bucket in the background and
// returns its live view.
func (r *Repository) Detectives(ctx context.Context) <-chan []Movie {
	return r.Bucket(ctx, store.CategoryDetectives)
}

// Romans refreshes the top-250 dramas bucket in the background and returns
// its live view.
func (r *Repository) Romans(ctx context.Context) <-chan []Movie {
	return r.Bucket(ctx, store.CategoryRomans)
}

// Comedies refreshes the top-250 comedies bucket in the background and
// returns its live view.
func (r *Repository) Comedies(ctx context.Context) <-chan []Movie {
	return r.Bucket(ctx, store.CategoryComedies)
}

// Bucket starts a detached refresh of c and returns its live view
// immediately. The view re-emits once the refresh lands. A refresh already
// running for c is joined rather than repeated.
func (r *Repository) Bucket(ctx context.Context, c Category) <-chan []Movie {
	r.StartRefresh(c)
	return r.Category(ctx, c)
}

// StartRefresh begins a detached refresh of c unless one is already running.
// It reports whether a new refresh was started.
func (r *Repository) StartRefresh(c Category) bool {
	if !IsBucket(c) {
		return false
	}
	_, started, err := r.join(c)
	return err == nil && started
}

// join returns the running refresh of c, starting one if none is in flight.
func (r *Repository) join(c Category) (*refreshRun, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, false, ErrClosed
	}
	if run, ok := r.inflight[c]; ok {
		return run, false, nil
	}

	ctx, cancel := context.WithCancel(r.baseCtx)
	run := &refreshRun{cancel: cancel, done: make(chan struct{})}
	r.inflight[c] = run
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		err := r.refresh(ctx, c)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn().Err(err).Str("op", "refreshBucket").Str("bucket", string(c)).Msg("refresh failed")
		}

		r.mu.Lock()
		delete(r.inflight, c)
		r.mu.Unlock()

		run.err = err
		cancel()
		close(run.done)
	}()
	return run, true, nil
}

// CancelRefresh cancels the running refresh of c, whoever started it. It
// reports whether one was running.
func (r *Repository) CancelRefresh(c Category) bool {
	r.mu.Lock()
	run, ok := r.inflight[c]
	r.mu.Unlock()

	if ok {
		run.cancel()
	}
	return ok
}

// Refreshing reports whether a refresh of c is in flight.
func (r *Repository) Refreshing(c Category) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[c]
	return ok
}

// RefreshBucket synchronously replaces the membership of c with the current
// catalog results. Concurrent callers for the same bucket share one refresh;
// ctx only bounds how long this caller waits for it. On failure the previous
// membership is kept.
func (r *Repository) RefreshBucket(ctx context.Context, c Category) error {
	if !IsBucket(c) {
		return fmt.Errorf("%w: %s", ErrNotBucket, c)
	}

	run, _, err := r.join(c)
	if err != nil {
		return err
	}

	select {
	case <-run.done:
		return run.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshAll refreshes every bucket in turn and joins the failures.
func (r *Repository) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, c := range Buckets {
		if err := r.RefreshBucket(ctx, c); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Repository) refresh(ctx context.Context, c Category) error {
	start := time.Now()
	runID := uuid.NewString()
	log := r.logger.With().Str("bucket", string(c)).Str("run", runID).Logger()

	fail := func(err error) error {
		metrics.RecordBucketRefresh(string(c), metrics.OutcomeError, time.Since(start))
		r.broadcast(EventBucketFailed, map[string]interface{}{
			"bucket": c,
			"runId":  runID,
			"error":  kinopoisk.FriendlyMessage(err),
		})
		return err
	}

	resp, err := r.catalog.SearchWithFilters(ctx, bucketFilters[c])
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			log.Debug().Err(ctxErr).Msg("bucket refresh cancelled")
			return ctxErr
		}
		return fail(fmt.Errorf("remote search: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bundles := make([]store.MovieBundle, 0, len(resp.Docs))
	for _, doc := range resp.Docs {
		bundles = append(bundles, wireToBundle(doc))
	}
	if err := r.store.ReplaceCategory(ctx, c, bundles); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fail(fmt.Errorf("replace bucket: %w", err))
	}

	duration := time.Since(start)
	metrics.RecordBucketRefresh(string(c), metrics.OutcomeSuccess, duration)
	log.Info().Int("count", len(bundles)).Dur("duration", duration).Msg("bucket refreshed")
	r.broadcast(EventBucketRefreshed, map[string]interface{}{
		"bucket": c,
		"runId":  runID,
		"count":  len(bundles),
	})
	return nil
}

func (r *Repository) broadcast(msgType string, payload interface{}) {
	if r.hub == nil {
		return
	}
	if err := r.hub.Broadcast(msgType, payload); err != nil {
		r.logger.Debug().Err(err).Str("type", msgType).Msg("broadcast failed")
	}
}

// AddToFavourites tags a title as favourite.
func (r *Repository) AddToFavourites(ctx context.Context, id int64) bool {
	return r.addToCategory(ctx, "addToFavourites", id, store.CategoryFavourite)
}

// RemoveFromFavourites untags a favourite title.
func (r *Repository) RemoveFromFavourites(ctx context.Context, id int64) bool {
	return r.removeFromCategory(ctx, "removeFromFavourites", id, store.CategoryFavourite)
}

// AddToWillWatch adds a title to the watch list.
func (r *Repository) AddToWillWatch(ctx context.Context, id int64) bool {
	return r.addToCategory(ctx, "addToWillWatch", id, store.CategoryWillWatch)
}

// RemoveFromWillWatch removes a title from the watch list.
func (r *Repository) RemoveFromWillWatch(ctx context.Context, id int64) bool {
	return r.removeFromCategory(ctx, "removeFromWillWatch", id, store.CategoryWillWatch)
}

func (r *Repository) addToCategory(ctx context.Context, op string, id int64, c Category) bool {
	r.ensureCached(ctx, op, id)
	if err := r.store.AddToCategory(ctx, id, c); err != nil {
		r.logger.Error().Err(err).Str("op", op).Int64("id", id).Msg("cache write failed")
		return false
	}
	return true
}

func (r *Repository) removeFromCategory(ctx context.Context, op string, id int64, c Category) bool {
	if _, err := r.store.RemoveFromCategory(ctx, id, c); err != nil {
		r.logger.Error().Err(err).Str("op", op).Int64("id", id).Msg("cache write failed")
		return false
	}
	return true
}

// ensureCached fetches a title the cache has never seen so user lists show
// real data. Failure is tolerated; the write that follows creates an empty row.
func (r *Repository) ensureCached(ctx context.Context, op string, id int64) {
	if _, ok, err := r.store.GetMovie(ctx, id); err != nil || ok {
		return
	}

	remote, err := r.catalog.GetMovie(ctx, id)
	if err != nil {
		r.logger.Debug().Err(err).Str("op", op).Int64("id", id).Msg("remote fetch failed, storing placeholder")
		return
	}
	if err := r.store.SaveMovie(ctx, wireToBundle(*remote)); err != nil {
		r.logger.Error().Err(err).Str("op", op).Int64("id", id).Msg("cache write failed")
	}
}

// SetUserRating records a rating in [1,10]. Out-of-range values are
// rejected without touching the cache.
func (r *Repository) SetUserRating(ctx context.Context, id int64, value int) bool {
	if err := validation.Var(value, "min=1,max=10"); err != nil {
		r.logger.Warn().Str("op", "setUserRating").Int64("id", id).Int("value", value).Msg("rating out of range")
		return false
	}

	r.ensureCached(ctx, "setUserRating", id)
	if err := r.store.SetUserRating(ctx, id, int64(value)); err != nil {
		r.logger.Error().Err(err).Str("op", "setUserRating").Int64("id", id).Msg("cache write failed")
		return false
	}
	return true
}

// ClearUserRating removes the rating of a title.
func (r *Repository) ClearUserRating(ctx context.Context, id int64) bool {
	if _, err := r.store.ClearUserRating(ctx, id); err != nil {
		r.logger.Error().Err(err).Str("op", "clearUserRating").Int64("id", id).Msg("cache write failed")
		return false
	}
	return true
}

// ClearCache deletes every cached title together with related rows, user
// lists and ratings. Category definitions and settings are kept.
func (r *Repository) ClearCache(ctx context.Context) error {
	if err := r.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	r.logger.Info().Str("op", "clearCache").Msg("cache cleared")
	return nil
}

// Awards returns the awards of a title, or an empty list when the catalog fails.
func (r *Repository) Awards(ctx context.Context, id int64) []Award {
	resp, err := r.catalog.GetAwards(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "awards").Int64("id", id).Msg("remote fetch failed")
		return []Award{}
	}
	return awardsFromWire(resp.Docs)
}

// Reviews returns audience reviews of a title, or an empty list when the catalog fails.
func (r *Repository) Reviews(ctx context.Context, id int64) []Review {
	resp, err := r.catalog.GetReviews(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "reviews").Int64("id", id).Msg("remote fetch failed")
		return []Review{}
	}
	return reviewsFromWire(resp.Docs)
}

// Images returns gallery images of a title, or an empty list when the catalog fails.
func (r *Repository) Images(ctx context.Context, id int64) []MovieImage {
	resp, err := r.catalog.GetImages(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "images").Int64("id", id).Msg("remote fetch failed")
		return []MovieImage{}
	}
	return imagesFromWire(resp.Docs)
}

// Studios returns the studios of a title, or an empty list when the catalog fails.
func (r *Repository) Studios(ctx context.Context, id int64) []Studio {
	resp, err := r.catalog.GetStudios(ctx, id)
	if err != nil {
		r.logger.Warn().Err(err).Str("op", "studios").Int64("id", id).Msg("remote fetch failed")
		return []Studio{}
	}
	return studiosFromWire(resp.Docs)
}

// snapshotPayload is the body of category:snapshot events.
func snapshotPayload(c Category, movies []Movie) map[string]interface{} {
	return map[string]interface{}{
		"category": c,
		"movies":   movies,
	}
}

// SnapshotMessage answers a client request for the current contents of a
// category by name.
func (r *Repository) SnapshotMessage(ctx context.Context, name string) (string, interface{}, error) {
	c := Category(name)
	if !c.Valid() {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return EventCategorySnapshot, snapshotPayload(c, r.Snapshot(ctx, c)), nil
}

// PublishSnapshots forwards every live category view to b until ctx is done.
func (r *Repository) PublishSnapshots(ctx context.Context, b Broadcaster) {
	var wg sync.WaitGroup
	for _, c := range store.Categories {
		wg.Add(1)
		go func(c Category) {
			defer wg.Done()
			for movies := range r.Category(ctx, c) {
				if err := b.Broadcast(EventCategorySnapshot, snapshotPayload(c, movies)); err != nil {
					r.logger.Debug().Err(err).Str("category", string(c)).Msg("snapshot broadcast failed")
				}
			}
		}(c)
	}
	wg.Wait()
}
