package foursquare

// Foursquare Places API response types.

type searchResponse struct {
	Results []place `json:"results"`
}

type place struct {
	FsqID      string     `json:"fsq_id"`
	Name       string     `json:"name"`
	Geocodes   geocodes   `json:"geocodes"`
	Location   location   `json:"location"`
	Categories []category `json:"categories"`
	Distance   *float64   `json:"distance,omitempty"` // meters; search only
	Rating     float64    `json:"rating"`             // 0–10
	Price      *int       `json:"price,omitempty"`
	Photos     []photo    `json:"photos,omitempty"`
	Tel        string     `json:"tel,omitempty"`
	Website    string     `json:"website,omitempty"`
	Hours      *hours     `json:"hours,omitempty"`
	Stats      *stats     `json:"stats,omitempty"`
}

type geocodes struct {
	Main point `json:"main"`
}

type point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type location struct {
	Address          string `json:"address"`
	Locality         string `json:"locality"`
	Region           string `json:"region"`
	FormattedAddress string `json:"formatted_address"`
}

type category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type photo struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

type hours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

type stats struct {
	TotalRatings *int `json:"total_ratings,omitempty"`
}
