package movies

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fallbacks.yaml
var defaultFallbacksYAML []byte

// FilterFallbacks are the filter values returned when the catalog's
// filter-discovery endpoint fails or returns nothing.
type FilterFallbacks struct {
	Types     []string `yaml:"types"`
	Genres    []string `yaml:"genres"`
	Countries []string `yaml:"countries"`
}

// ParseFilterFallbacks reads fallbacks from YAML.
func ParseFilterFallbacks(data []byte) (FilterFallbacks, error) {
	var f FilterFallbacks
	if err := yaml.Unmarshal(data, &f); err != nil {
		return FilterFallbacks{}, fmt.Errorf("parse filter fallbacks: %w", err)
	}
	return f, nil
}

// DefaultFilterFallbacks returns the bundled fallback lists.
func DefaultFilterFallbacks() FilterFallbacks {
	f, err := ParseFilterFallbacks(defaultFallbacksYAML)
	if err != nil {
		panic(err)
	}
	return f
}

func namesToFilters(names []string) []Filter {
	out := make([]Filter, 0, len(names))
	for _, n := range names {
		out = append(out, Filter{Name: n})
	}
	return out
}
