package yelp

// Yelp Fusion API response types.

type searchResponse struct {
	Businesses []business `json:"businesses"`
	Total      int        `json:"total"`
}

type business struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	ImageURL     string      `json:"image_url"`
	URL          string      `json:"url"`
	ReviewCount  *int        `json:"review_count,omitempty"`
	Categories   []category  `json:"categories"`
	Rating       float64     `json:"rating"`
	Coordinates  coordinates `json:"coordinates"`
	Price        string      `json:"price,omitempty"`
	Location     location    `json:"location"`
	Phone        string      `json:"phone"`
	DisplayPhone string      `json:"display_phone"`
	Distance     *float64    `json:"distance,omitempty"` // meters; search only
	Hours        []hours     `json:"hours,omitempty"`    // details only
}

type category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

type coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type location struct {
	Address1       string   `json:"address1"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	DisplayAddress []string `json:"display_address"`
}

type hours struct {
	IsOpenNow bool `json:"is_open_now"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}
