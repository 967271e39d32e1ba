// Package domain models venues returned by third-party place-search APIs.
//
// # Providers
//
// Three upstream APIs are supported, each with its own conventions:
//
//	google      Google Places (legacy web service). API key in the query string.
//	yelp        Yelp Fusion. Bearer token in the Authorization header.
//	foursquare  Foursquare Places v3. Raw API key in the Authorization header.
//
// Adapters translate SearchParams into the provider's request shape and
// normalize every record into a Venue. Callers never branch on the provider.
//
// # Normalization Rules
//
// Rating keeps the provider's native scale:
//
//	google, yelp   0–5
//	foursquare     0–10
//
// Price level is a 1–4 ordinal:
//
//	google      price_level 0–4; 0 ("free") and missing map to 1
//	yelp        "$".."$$$$" by symbol count; anything else maps to 1
//	foursquare  price 1–4; missing maps to 1
//
// Categories: each native category yields one unified Category. Values the
// adapter's table does not know become FallbackCategory (restaurant). Several
// native categories may collapse to the same unified tag; duplicates are kept.
//
// Distance: adapters use the provider's distance field when present and fall
// back to HaversineDistance (Earth radius 6371 km) between the query point and
// the venue coordinates.
//
// # Date Aggregation
//
// DateVenues holds four buckets (restaurants, cafes, bars, activities), each
// capped at MaxDateVenuesPerCategory in provider order.
package domain
