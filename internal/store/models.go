package store

import "database/sql"

// Category is a tag attached to cached titles.
type Category string

const (
	CategoryRecommendedFilms  Category = "RecommendedFilms"
	CategoryRecommendedSeries Category = "RecommendedSeries"
	CategoryDetectives        Category = "Detectives"
	CategoryRomans            Category = "Romans"
	CategoryComedies          Category = "Comedies"
	CategoryWillWatch         Category = "WillWatch"
	CategoryFavourite         Category = "Favourite"
)

// Categories lists every seeded category in id order.
var Categories = []Category{
	CategoryRecommendedFilms,
	CategoryRecommendedSeries,
	CategoryDetectives,
	CategoryRomans,
	CategoryComedies,
	CategoryWillWatch,
	CategoryFavourite,
}

// Valid reports whether c is a seeded category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Movie is a row of the movies table.
type Movie struct {
	ID                       int64
	Name                     sql.NullString
	AlternativeName          sql.NullString
	EnName                   sql.NullString
	Type                     sql.NullString
	TypeNumber               sql.NullInt64
	Year                     sql.NullInt64
	Description              sql.NullString
	ShortDescription         sql.NullString
	Slogan                   sql.NullString
	Status                   sql.NullString
	MovieLength              sql.NullInt64
	SeriesLength             sql.NullInt64
	TotalSeriesLength        sql.NullInt64
	AgeRating                sql.NullInt64
	IsSeries                 sql.NullBool
	Top10                    sql.NullInt64
	Top250                   sql.NullInt64
	RatingKP                 sql.NullFloat64
	RatingIMDB               sql.NullFloat64
	RatingTMDB               sql.NullFloat64
	RatingFilmCritics        sql.NullFloat64
	RatingRussianFilmCritics sql.NullFloat64
	RatingAwait              sql.NullFloat64
	BudgetValue              sql.NullInt64
	BudgetCurrency           sql.NullString
	LogoURL                  sql.NullString
	PosterURL                sql.NullString
	PosterPreviewURL         sql.NullString
	BackdropURL              sql.NullString
	BackdropPreviewURL       sql.NullString
}

// Genre is a row of the genres table.
type Genre struct {
	ID   int64
	Name string
}

// Country is a row of the countries table.
type Country struct {
	ID   int64
	Name string
}

// Person is a row of the persons table.
type Person struct {
	ID           int64
	Name         sql.NullString
	EnName       sql.NullString
	Photo        sql.NullString
	Description  sql.NullString
	Profession   sql.NullString
	EnProfession sql.NullString
}

// Fact is a row of the facts table.
type Fact struct {
	ID      int64
	MovieID int64
	Fact    string
	Type    sql.NullString
	Spoiler sql.NullBool
}

// RelatedTitle is a row of the related_titles table, shared by sequels and
// similar titles.
type RelatedTitle struct {
	ID               int64
	Name             sql.NullString
	EnName           sql.NullString
	AlternativeName  sql.NullString
	Type             sql.NullString
	PosterURL        sql.NullString
	PosterPreviewURL sql.NullString
	RatingKP         sql.NullFloat64
	RatingIMDB       sql.NullFloat64
	Year             sql.NullInt64
}

// MovieBundle is a title with every related row written alongside it.
type MovieBundle struct {
	Movie     Movie
	Genres    []Genre
	Countries []Country
	Persons   []Person
	Facts     []Fact
	Sequels   []RelatedTitle
	Similars  []RelatedTitle
}

// MovieDetails is a cached title joined with its related rows and user state.
type MovieDetails struct {
	Movie      Movie
	Genres     []Genre
	Countries  []Country
	Persons    []Person
	Facts      []Fact
	Sequels    []RelatedTitle
	Similars   []RelatedTitle
	Categories []Category
	UserRating sql.NullInt64
}

// Setting is a row of the settings table.
type Setting struct {
	Key   string
	Value string
}
