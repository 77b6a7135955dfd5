package kinopoisk

import (
	"net/url"
	"strconv"
)

// Collection slugs usable in FilterParams.Lists.
const (
	ListTop250 = "top250"
)

// FilterParams describes a structured catalog search. Slice fields are sent
// as repeated query parameters; empty fields are omitted.
type FilterParams struct {
	SortField []string `json:"sortField,omitempty" validate:"omitempty,dive,required"`
	SortType  []string `json:"sortType,omitempty" validate:"omitempty,dive,oneof=1 -1"`
	Type      []string `json:"type,omitempty" validate:"omitempty,dive,required"`
	IsSeries  *bool    `json:"isSeries,omitempty"`
	Year      []string `json:"year,omitempty" validate:"omitempty,dive,numrange"`
	RatingKP  []string `json:"ratingKp,omitempty" validate:"omitempty,dive,numrange"`
	Genres    []string `json:"genres,omitempty" validate:"omitempty,dive,required"`
	Countries []string `json:"countries,omitempty" validate:"omitempty,dive,required"`
	Lists     []string `json:"lists,omitempty" validate:"omitempty,dive,required"`
	Page      int      `json:"page,omitempty" validate:"gte=0"`
	Limit     int      `json:"limit,omitempty" validate:"gte=0,lte=250"`
}

// Values encodes the filter as query parameters.
func (f FilterParams) Values() url.Values {
	v := url.Values{}
	add := func(key string, vals []string) {
		for _, s := range vals {
			v.Add(key, s)
		}
	}

	add("sortField", f.SortField)
	add("sortType", f.SortType)
	add("type", f.Type)
	if f.IsSeries != nil {
		v.Set("isSeries", strconv.FormatBool(*f.IsSeries))
	}
	add("year", f.Year)
	add("rating.kp", f.RatingKP)
	add("genres.name", f.Genres)
	add("countries.name", f.Countries)
	add("lists", f.Lists)
	setPaging(v, f.Page, f.Limit)
	return v
}
