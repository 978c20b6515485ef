package schema

// Weather is the curated current-conditions summary, metric units.
type Weather struct {
	Summary     *string  `json:"summary"`
	Description *string  `json:"description"`
	TempC       *float64 `json:"temp_c"`
	FeelsLikeC  *float64 `json:"feels_like_c"`
	HumidityPct *int     `json:"humidity_pct"`
	WindMps     *float64 `json:"wind_mps"`
}
