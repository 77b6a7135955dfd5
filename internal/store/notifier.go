package store

import "sync"

// Table names a cache table for change notification.
type Table string

const (
	TableMovies          Table = "movies"
	TableMovieCategories Table = "movie_categories"
	TableGenres          Table = "genres"
	TableMovieGenres     Table = "movie_genres"
	TableCountries       Table = "countries"
	TableMovieCountries  Table = "movie_countries"
	TablePersons         Table = "persons"
	TableMoviePersons    Table = "movie_persons"
	TableFacts           Table = "facts"
	TableRelatedTitles   Table = "related_titles"
	TableMovieSequels    Table = "movie_sequels"
	TableMovieSimilars   Table = "movie_similars"
	TableUserRatings     Table = "user_ratings"
	TableSettings        Table = "settings"
)

// movieTables are touched by every full title write.
var movieTables = []Table{
	TableMovies, TableGenres, TableMovieGenres, TableCountries, TableMovieCountries,
	TablePersons, TableMoviePersons, TableFacts, TableRelatedTitles, TableMovieSequels, TableMovieSimilars,
}

type subscription struct {
	tables map[Table]struct{}
	ch     chan struct{}
}

// Notifier fans committed-write signals out to subscribers. A subscriber that
// has not drained its previous signal receives nothing extra, so bursts of
// writes coalesce into one wakeup.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscription
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]*subscription)}
}

// Subscribe returns a channel signalled after every write touching one of
// tables. An empty list subscribes to all tables. cancel closes the channel.
func (n *Notifier) Subscribe(tables ...Table) (<-chan struct{}, func()) {
	sub := &subscription{ch: make(chan struct{}, 1)}
	if len(tables) > 0 {
		sub.tables = make(map[Table]struct{}, len(tables))
		for _, t := range tables {
			sub.tables[t] = struct{}{}
		}
	}

	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = sub
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			close(sub.ch)
			n.mu.Unlock()
		})
	}
	return sub.ch, cancel
}

// Notify signals every subscriber interested in any of tables.
func (n *Notifier) Notify(tables ...Table) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		if !sub.matches(tables) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

func (s *subscription) matches(tables []Table) bool {
	if s.tables == nil {
		return true
	}
	for _, t := range tables {
		if _, ok := s.tables[t]; ok {
			return true
		}
	}
	return false
}
