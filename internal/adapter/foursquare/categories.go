package foursquare

import (
	"strings"
	"unicode"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// fallbackCategoryID is "Dining and Drinking > Restaurant".
const fallbackCategoryID = "13065"

// categoryIDs maps unified categories to Foursquare taxonomy ids.
var categoryIDs = map[domain.Category]string{
	domain.CategoryRestaurant:    "13065",
	domain.CategoryCafe:          "13032",
	domain.CategoryBar:           "13003",
	domain.CategoryActivity:      "18000",
	domain.CategoryPark:          "16032",
	domain.CategoryMuseum:        "10027",
	domain.CategoryEntertainment: "10000",
}

// categoryKeywords is checked in order against the words of the lower-cased
// category name; the first whole-word match wins. Compound names come before
// their trailing word so "Juice Bar" and "Amusement Park" are not read as a
// bar and a park.
var categoryKeywords = []struct {
	keyword  string
	category domain.Category
}{
	{"restaurant", domain.CategoryRestaurant},
	{"steakhouse", domain.CategoryRestaurant},
	{"pizzeria", domain.CategoryRestaurant},
	{"diner", domain.CategoryRestaurant},
	{"café", domain.CategoryCafe},
	{"cafe", domain.CategoryCafe},
	{"coffee", domain.CategoryCafe},
	{"tea room", domain.CategoryCafe},
	{"bakery", domain.CategoryCafe},
	{"juice bar", domain.CategoryCafe},
	{"barbecue", domain.CategoryRestaurant},
	{"bar", domain.CategoryBar},
	{"pub", domain.CategoryBar},
	{"brewery", domain.CategoryBar},
	{"lounge", domain.CategoryBar},
	{"night club", domain.CategoryBar},
	{"beer garden", domain.CategoryBar},
	{"museum", domain.CategoryMuseum},
	{"amusement park", domain.CategoryActivity},
	{"theme park", domain.CategoryActivity},
	{"water park", domain.CategoryActivity},
	{"park", domain.CategoryPark},
	{"garden", domain.CategoryPark},
	{"movie theater", domain.CategoryEntertainment},
	{"music venue", domain.CategoryEntertainment},
	{"theater", domain.CategoryEntertainment},
	{"comedy club", domain.CategoryEntertainment},
	{"entertainment", domain.CategoryEntertainment},
	{"bowling", domain.CategoryActivity},
	{"arcade", domain.CategoryActivity},
	{"escape room", domain.CategoryActivity},
	{"art gallery", domain.CategoryActivity},
	{"recreation", domain.CategoryActivity},
	{"sports", domain.CategoryActivity},
}

func categoryID(c domain.Category) string {
	if id, ok := categoryIDs[c]; ok {
		return id
	}
	return fallbackCategoryID
}

func lookupCategory(name string) (domain.Category, bool) {
	words := " " + strings.Join(strings.FieldsFunc(strings.ToLower(name), notLetter), " ") + " "
	for _, k := range categoryKeywords {
		if strings.Contains(words, " "+k.keyword+" ") {
			return k.category, true
		}
	}
	return "", false
}

func notLetter(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
