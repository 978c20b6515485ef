package schema

// Facility is a medical venue near the user. Fields the places service did
// not return stay null.
type Facility struct {
	Name             *string  `json:"name"`
	Address          *string  `json:"address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal *int     `json:"user_ratings_total"`
	Location         *LatLng  `json:"location"`
	PlaceID          *string  `json:"place_id"`
	MapsURL          *string  `json:"maps_url"`
	OpenNow          *bool    `json:"open_now"`
}
