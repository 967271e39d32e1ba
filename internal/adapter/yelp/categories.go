package yelp

import (
	"strings"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// fallbackCategory is requested when a category has no Yelp alias.
const fallbackCategory = "restaurants"

// yelpCategories maps unified categories to Yelp category aliases.
var yelpCategories = map[domain.Category]string{
	domain.CategoryRestaurant:    "restaurants",
	domain.CategoryCafe:          "cafes,coffee",
	domain.CategoryBar:           "bars",
	domain.CategoryActivity:      "active,arts",
	domain.CategoryPark:          "parks",
	domain.CategoryMuseum:        "museums",
	domain.CategoryEntertainment: "movietheaters,musicvenues",
}

// unifiedCategories maps Yelp aliases and lower-cased titles to unified
// categories. Cuisine aliases are left out; they fall back to restaurant.
var unifiedCategories = map[string]domain.Category{
	"restaurants":      domain.CategoryRestaurant,
	"food":             domain.CategoryRestaurant,
	"cafes":            domain.CategoryCafe,
	"cafe":             domain.CategoryCafe,
	"coffee":           domain.CategoryCafe,
	"coffee & tea":     domain.CategoryCafe,
	"coffeeroasteries": domain.CategoryCafe,
	"bakeries":         domain.CategoryCafe,
	"tea":              domain.CategoryCafe,
	"bars":             domain.CategoryBar,
	"cocktailbars":     domain.CategoryBar,
	"cocktail bars":    domain.CategoryBar,
	"wine_bars":        domain.CategoryBar,
	"wine bars":        domain.CategoryBar,
	"pubs":             domain.CategoryBar,
	"beerbar":          domain.CategoryBar,
	"breweries":        domain.CategoryBar,
	"nightlife":        domain.CategoryBar,
	"active":           domain.CategoryActivity,
	"bowling":          domain.CategoryActivity,
	"escapegames":      domain.CategoryActivity,
	"arcades":          domain.CategoryActivity,
	"galleries":        domain.CategoryActivity,
	"minigolf":         domain.CategoryActivity,
	"parks":            domain.CategoryPark,
	"gardens":          domain.CategoryPark,
	"museums":          domain.CategoryMuseum,
	"arts":             domain.CategoryActivity,
	"movietheaters":    domain.CategoryEntertainment,
	"musicvenues":      domain.CategoryEntertainment,
	"theater":          domain.CategoryEntertainment,
	"comedyclubs":      domain.CategoryEntertainment,
}

func yelpCategory(c domain.Category) string {
	if alias, ok := yelpCategories[c]; ok {
		return alias
	}
	return fallbackCategory
}

func lookupCategory(s string) (domain.Category, bool) {
	c, ok := unifiedCategories[strings.ToLower(s)]
	return c, ok
}

// nativeCategories flattens Yelp categories into lookup keys, preferring the
// alias and trying the title when the alias is unknown.
func nativeCategories(cats []category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		key := c.Alias
		if _, ok := lookupCategory(key); !ok && c.Title != "" {
			key = c.Title
		}
		out = append(out, key)
	}
	return out
}
