package movies

import "github.com/absolutecinema/absolutecinema/internal/store"

// Category is a tag attached to titles: a user list or a recommendation bucket.
type Category = store.Category

// Rating holds one score per rating source. Any source may be absent.
type Rating struct {
	KP                 *float64 `json:"kp,omitempty"`
	IMDB               *float64 `json:"imdb,omitempty"`
	TMDB               *float64 `json:"tmdb,omitempty"`
	FilmCritics        *float64 `json:"filmCritics,omitempty"`
	RussianFilmCritics *float64 `json:"russianFilmCritics,omitempty"`
	Await              *float64 `json:"await,omitempty"`
}

// Image is a primary URL plus an optional preview.
type Image struct {
	URL        *string `json:"url,omitempty"`
	PreviewURL *string `json:"previewUrl,omitempty"`
}

// Budget is a production budget.
type Budget struct {
	Value    *int64  `json:"value,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Person struct {
	ID           int64   `json:"id"`
	Name         *string `json:"name,omitempty"`
	EnName       *string `json:"enName,omitempty"`
	Photo        *string `json:"photo,omitempty"`
	Description  *string `json:"description,omitempty"`
	Profession   *string `json:"profession,omitempty"`
	EnProfession *string `json:"enProfession,omitempty"`
}

type Fact struct {
	Fact    string  `json:"fact"`
	Type    *string `json:"type,omitempty"`
	Spoiler *bool   `json:"spoiler,omitempty"`
}

// RelatedTitle is a sequel, prequel or similar title.
type RelatedTitle struct {
	ID              int64   `json:"id"`
	Name            *string `json:"name,omitempty"`
	EnName          *string `json:"enName,omitempty"`
	AlternativeName *string `json:"alternativeName,omitempty"`
	Type            *string `json:"type,omitempty"`
	Poster          *Image  `json:"poster,omitempty"`
	Rating          Rating  `json:"rating"`
	Year            *int    `json:"year,omitempty"`
}

// ReviewInfo summarises audience reviews. It is only available right after
// a remote fetch and is not cached.
type ReviewInfo struct {
	Count         *int    `json:"count,omitempty"`
	PositiveCount *int    `json:"positiveCount,omitempty"`
	Percentage    *string `json:"percentage,omitempty"`
}

// Movie is a title as presented to clients.
type Movie struct {
	ID                 int64          `json:"id"`
	Name               *string        `json:"name,omitempty"`
	AlternativeName    *string        `json:"alternativeName,omitempty"`
	EnName             *string        `json:"enName,omitempty"`
	Type               *string        `json:"type,omitempty"`
	TypeNumber         *int           `json:"typeNumber,omitempty"`
	Year               *int           `json:"year,omitempty"`
	Description        *string        `json:"description,omitempty"`
	ShortDescription   *string        `json:"shortDescription,omitempty"`
	Slogan             *string        `json:"slogan,omitempty"`
	Status             *string        `json:"status,omitempty"`
	MovieLength        *int           `json:"movieLength,omitempty"`
	SeriesLength       *int           `json:"seriesLength,omitempty"`
	TotalSeriesLength  *int           `json:"totalSeriesLength,omitempty"`
	AgeRating          *int           `json:"ageRating,omitempty"`
	IsSeries           *bool          `json:"isSeries,omitempty"`
	Top10              *int           `json:"top10,omitempty"`
	Top250             *int           `json:"top250,omitempty"`
	Rating             Rating         `json:"rating"`
	Budget             *Budget        `json:"budget,omitempty"`
	Logo               *Image         `json:"logo,omitempty"`
	Poster             *Image         `json:"poster,omitempty"`
	Backdrop           *Image         `json:"backdrop,omitempty"`
	Genres             []Genre        `json:"genres"`
	Countries          []Country      `json:"countries"`
	Persons            []Person       `json:"persons"`
	Facts              []Fact         `json:"facts"`
	SequelsAndPrequels []RelatedTitle `json:"sequelsAndPrequels"`
	SimilarMovies      []RelatedTitle `json:"similarMovies"`
	Categories         []Category     `json:"categories"`
	IsFavorite         bool           `json:"isFavorite"`
	IsWillWatch        bool           `json:"isWillWatch"`
	UserRating         *int           `json:"userRate,omitempty"`
	ReviewInfo         *ReviewInfo    `json:"reviewInfo,omitempty"`
}

// MoviesResponse is one page of titles.
type MoviesResponse struct {
	Docs  []Movie `json:"docs"`
	Total int     `json:"total"`
	Limit int     `json:"limit"`
	Page  int     `json:"page"`
	Pages int     `json:"pages"`
}

// Filter is a legal value for a search filter field.
type Filter struct {
	Name string  `json:"name"`
	Slug *string `json:"slug,omitempty"`
}

// Award is a nomination or win.
type Award struct {
	Title           *string `json:"title,omitempty"`
	Year            *int    `json:"year,omitempty"`
	NominationTitle *string `json:"nominationTitle,omitempty"`
	NominationYear  *int    `json:"nominationYear,omitempty"`
	Winning         bool    `json:"winning"`
}

type Review struct {
	ID      *int64  `json:"id,omitempty"`
	MovieID *int64  `json:"movieId,omitempty"`
	Title   *string `json:"title,omitempty"`
	Review  *string `json:"review,omitempty"`
	Author  *string `json:"author,omitempty"`
	Type    *string `json:"type,omitempty"`
	Date    *string `json:"date,omitempty"`
}

// MovieImage is a gallery image.
type MovieImage struct {
	URL        *string  `json:"url,omitempty"`
	PreviewURL *string  `json:"previewUrl,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Width      *float64 `json:"width,omitempty"`
}

type Studio struct {
	ID      *int64  `json:"id,omitempty"`
	Name    *string `json:"name,omitempty"`
	LogoURL *string `json:"logoUrl,omitempty"`
}
