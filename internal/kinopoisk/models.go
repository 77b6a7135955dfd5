package kinopoisk

// Rating holds one score per rating source. Any source may be absent.
type Rating struct {
	KP                 *float64 `json:"kp,omitempty"`
	IMDB               *float64 `json:"imdb,omitempty"`
	TMDB               *float64 `json:"tmdb,omitempty"`
	FilmCritics        *float64 `json:"filmCritics,omitempty"`
	RussianFilmCritics *float64 `json:"russianFilmCritics,omitempty"`
	Await              *float64 `json:"await,omitempty"`
}

// Image is a poster or backdrop reference.
type Image struct {
	URL        *string `json:"url,omitempty"`
	PreviewURL *string `json:"previewUrl,omitempty"`
}

// Logo is a logo reference.
type Logo struct {
	URL *string `json:"url,omitempty"`
}

// Budget is a production budget.
type Budget struct {
	Value    *int64  `json:"value,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// Name is a genre or country entry.
type Name struct {
	Name string `json:"name"`
}

// Person is a cast or crew member.
type Person struct {
	ID           int64   `json:"id"`
	Photo        *string `json:"photo,omitempty"`
	Name         *string `json:"name,omitempty"`
	EnName       *string `json:"enName,omitempty"`
	Description  *string `json:"description,omitempty"`
	Profession   *string `json:"profession,omitempty"`
	EnProfession *string `json:"enProfession,omitempty"`
}

// Fact is a trivia entry.
type Fact struct {
	Value   string  `json:"value"`
	Type    *string `json:"type,omitempty"`
	Spoiler *bool   `json:"spoiler,omitempty"`
}

// LinkedMovie is a sequel, prequel or similar title.
type LinkedMovie struct {
	ID              int64   `json:"id"`
	Name            *string `json:"name,omitempty"`
	EnName          *string `json:"enName,omitempty"`
	AlternativeName *string `json:"alternativeName,omitempty"`
	Type            *string `json:"type,omitempty"`
	Poster          *Image  `json:"poster,omitempty"`
	Rating          *Rating `json:"rating,omitempty"`
	Year            *int    `json:"year,omitempty"`
}

// ReviewInfo summarises audience reviews.
type ReviewInfo struct {
	Count         *int    `json:"count,omitempty"`
	PositiveCount *int    `json:"positiveCount,omitempty"`
	Percentage    *string `json:"percentage,omitempty"`
}

// Movie is the full catalog record for a title.
type Movie struct {
	ID                 int64         `json:"id"`
	Name               *string       `json:"name,omitempty"`
	AlternativeName    *string       `json:"alternativeName,omitempty"`
	EnName             *string       `json:"enName,omitempty"`
	Type               *string       `json:"type,omitempty"`
	TypeNumber         *int          `json:"typeNumber,omitempty"`
	Year               *int          `json:"year,omitempty"`
	Description        *string       `json:"description,omitempty"`
	ShortDescription   *string       `json:"shortDescription,omitempty"`
	Slogan             *string       `json:"slogan,omitempty"`
	Status             *string       `json:"status,omitempty"`
	MovieLength        *int          `json:"movieLength,omitempty"`
	SeriesLength       *int          `json:"seriesLength,omitempty"`
	TotalSeriesLength  *int          `json:"totalSeriesLength,omitempty"`
	AgeRating          *int          `json:"ageRating,omitempty"`
	IsSeries           *bool         `json:"isSeries,omitempty"`
	Top10              *int          `json:"top10,omitempty"`
	Top250             *int          `json:"top250,omitempty"`
	Rating             *Rating       `json:"rating,omitempty"`
	Budget             *Budget       `json:"budget,omitempty"`
	Logo               *Logo         `json:"logo,omitempty"`
	Poster             *Image        `json:"poster,omitempty"`
	Backdrop           *Image        `json:"backdrop,omitempty"`
	Genres             []Name        `json:"genres,omitempty"`
	Countries          []Name        `json:"countries,omitempty"`
	Persons            []Person      `json:"persons,omitempty"`
	Facts              []Fact        `json:"facts,omitempty"`
	SequelsAndPrequels []LinkedMovie `json:"sequelsAndPrequels,omitempty"`
	SimilarMovies      []LinkedMovie `json:"similarMovies,omitempty"`
	ReviewInfo         *ReviewInfo   `json:"reviewInfo,omitempty"`
}

// Page carries the paging metadata shared by every list endpoint.
type Page struct {
	Total int `json:"total"`
	Limit int `json:"limit"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// MoviesResponse is a page of movies.
type MoviesResponse struct {
	Docs []Movie `json:"docs"`
	Page
}

// FilterValue is one legal value of a filterable field.
type FilterValue struct {
	Name string  `json:"name"`
	Slug *string `json:"slug,omitempty"`
}

// Nomination is the nomination part of an award.
type Nomination struct {
	Title *string `json:"title,omitempty"`
	Year  *int    `json:"year,omitempty"`
}

// Award is one award nomination or win for a title.
type Award struct {
	Nomination *Nomination `json:"nomination,omitempty"`
	Winning    *bool       `json:"winning,omitempty"`
	Title      *string     `json:"title,omitempty"`
	Year       *int        `json:"year,omitempty"`
}

// AwardsResponse is a page of awards.
type AwardsResponse struct {
	Docs []Award `json:"docs"`
	Page
}

// Review is an audience review.
type Review struct {
	ID      *int64  `json:"id,omitempty"`
	MovieID *int64  `json:"movieId,omitempty"`
	Title   *string `json:"title,omitempty"`
	Type    *string `json:"type,omitempty"`
	Review  *string `json:"review,omitempty"`
	Date    *string `json:"date,omitempty"`
	Author  *string `json:"author,omitempty"`
}

// ReviewsResponse is a page of reviews.
type ReviewsResponse struct {
	Docs []Review `json:"docs"`
	Page
}

// Picture is a still, poster or backdrop from the image gallery.
type Picture struct {
	URL        *string  `json:"url,omitempty"`
	PreviewURL *string  `json:"previewUrl,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Width      *float64 `json:"width,omitempty"`
}

// ImagesResponse is a page of gallery images.
type ImagesResponse struct {
	Docs []Picture `json:"docs"`
	Page
}

// Studio is a production, effects or dubbing studio.
type Studio struct {
	ID   *int64  `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
	Logo *Logo   `json:"logo,omitempty"`
}

// StudiosResponse is a page of studios.
type StudiosResponse struct {
	Docs []Studio `json:"docs"`
	Page
}
