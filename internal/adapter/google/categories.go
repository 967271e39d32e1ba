package google

import "github.com/couchcryptid/date-venue-service/internal/domain"

// fallbackType is requested when a category has no Places type.
const fallbackType = "restaurant"

// placeTypes maps unified categories to Places "type" values.
var placeTypes = map[domain.Category]string{
	domain.CategoryRestaurant:    "restaurant",
	domain.CategoryCafe:          "cafe",
	domain.CategoryBar:           "bar",
	domain.CategoryActivity:      "tourist_attraction",
	domain.CategoryPark:          "park",
	domain.CategoryMuseum:        "museum",
	domain.CategoryEntertainment: "movie_theater",
}

// unifiedCategories maps Places types back to unified categories.
var unifiedCategories = map[string]domain.Category{
	"restaurant":         domain.CategoryRestaurant,
	"food":               domain.CategoryRestaurant,
	"meal_takeaway":      domain.CategoryRestaurant,
	"meal_delivery":      domain.CategoryRestaurant,
	"cafe":               domain.CategoryCafe,
	"bakery":             domain.CategoryCafe,
	"bar":                domain.CategoryBar,
	"night_club":         domain.CategoryBar,
	"tourist_attraction": domain.CategoryActivity,
	"amusement_park":     domain.CategoryActivity,
	"aquarium":           domain.CategoryActivity,
	"bowling_alley":      domain.CategoryActivity,
	"zoo":                domain.CategoryActivity,
	"art_gallery":        domain.CategoryActivity,
	"spa":                domain.CategoryActivity,
	"park":               domain.CategoryPark,
	"campground":         domain.CategoryPark,
	"museum":             domain.CategoryMuseum,
	"movie_theater":      domain.CategoryEntertainment,
	"casino":             domain.CategoryEntertainment,
	"stadium":            domain.CategoryEntertainment,
}

func placeType(c domain.Category) string {
	if t, ok := placeTypes[c]; ok {
		return t
	}
	return fallbackType
}

func lookupCategory(t string) (domain.Category, bool) {
	c, ok := unifiedCategories[t]
	return c, ok
}
