// Package filter narrows business lists in memory.
package filter

import (
	"slices"
	"strings"

	"github.com/zatekoja/bizdirectory/internal/domain/entities"
)

// Predicate reports whether a business satisfies a single constraint
type Predicate func(b *entities.Business) bool

// Predicates returns one predicate per constraint present in f
func Predicates(f *entities.BusinessFilter) []Predicate {
	if f.IsEmpty() {
		return nil
	}

	var preds []Predicate
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		preds = append(preds, func(b *entities.Business) bool {
			return strings.Contains(strings.ToLower(b.Name), term) ||
				strings.Contains(strings.ToLower(b.Description), term)
		})
	}
	if f.Category != "" {
		category := f.Category
		preds = append(preds, func(b *entities.Business) bool {
			return b.Category == category
		})
	}
	if f.Location != "" {
		city := f.Location
		preds = append(preds, func(b *entities.Business) bool {
			return b.City == city
		})
	}
	if f.MinRating != nil {
		floor := *f.MinRating
		preds = append(preds, func(b *entities.Business) bool {
			return b.Rating >= floor
		})
	}
	return preds
}

// Apply returns the businesses satisfying every constraint in f, preserving order.
// A nil or empty filter returns the input unchanged.
func Apply(businesses []*entities.Business, f *entities.BusinessFilter) []*entities.Business {
	preds := Predicates(f)
	if len(preds) == 0 {
		return businesses
	}

	filtered := make([]*entities.Business, 0, len(businesses))
next:
	for _, b := range businesses {
		for _, p := range preds {
			if !p(b) {
				continue next
			}
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// Facets collects the distinct non-empty categories and cities, sorted
func Facets(businesses []*entities.Business) *entities.BusinessFacets {
	categories := make(map[string]struct{})
	cities := make(map[string]struct{})
	for _, b := range businesses {
		if b.Category != "" {
			categories[b.Category] = struct{}{}
		}
		if b.City != "" {
			cities[b.City] = struct{}{}
		}
	}
	return &entities.BusinessFacets{
		Categories: sortedKeys(categories),
		Locations:  sortedKeys(cities),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
