package google

// Google Places API response types.

type nearbyResponse struct {
	Results       []place `json:"results"`
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

type detailsResponse struct {
	Result       *place `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type place struct {
	PlaceID              string             `json:"place_id"`
	Name                 string             `json:"name"`
	Rating               float64            `json:"rating"`
	UserRatingsTotal     *int               `json:"user_ratings_total,omitempty"`
	PriceLevel           *int               `json:"price_level,omitempty"`
	Types                []string           `json:"types"`
	Vicinity             string             `json:"vicinity,omitempty"`
	FormattedAddress     string             `json:"formatted_address,omitempty"`
	AddressComponents    []addressComponent `json:"address_components,omitempty"`
	Geometry             geometry           `json:"geometry"`
	Photos               []photo            `json:"photos,omitempty"`
	OpeningHours         *openingHours      `json:"opening_hours,omitempty"`
	FormattedPhoneNumber string             `json:"formatted_phone_number,omitempty"`
	Website              string             `json:"website,omitempty"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type openingHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

type addressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}
