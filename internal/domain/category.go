package domain

import "fmt"

// Category is the unified venue kind used for filtering and for the
// date-planning buckets.
type Category string

const (
	CategoryRestaurant    Category = "restaurant"
	CategoryCafe          Category = "cafe"
	CategoryBar           Category = "bar"
	CategoryActivity      Category = "activity"
	CategoryPark          Category = "park"
	CategoryMuseum        Category = "museum"
	CategoryEntertainment Category = "entertainment"
)

// FallbackCategory is assigned to native categories with no unified mapping.
const FallbackCategory = CategoryRestaurant

// Categories lists every unified category.
var Categories = []Category{
	CategoryRestaurant,
	CategoryCafe,
	CategoryBar,
	CategoryActivity,
	CategoryPark,
	CategoryMuseum,
	CategoryEntertainment,
}

// DateCategories lists the categories searched by the date aggregation, in
// bucket order.
var DateCategories = []Category{
	CategoryRestaurant,
	CategoryCafe,
	CategoryBar,
	CategoryActivity,
}

// Valid reports whether c is one of the unified categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a string to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidParams, s)
	}
	return c, nil
}

// MapCategories translates native category identifiers with lookup. Every
// native value yields exactly one unified category; values lookup does not
// know become FallbackCategory. Duplicates are kept.
func MapCategories(native []string, lookup func(string) (Category, bool)) []Category {
	out := make([]Category, 0, len(native))
	for _, n := range native {
		c, ok := lookup(n)
		if !ok {
			c = FallbackCategory
		}
		out = append(out, c)
	}
	return out
}
