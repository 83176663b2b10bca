package response_models

type PlaceResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Rating    *float64 `json:"rating,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

type TripResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	StartPoint string `json:"start_point"`
	EndPoint   string `json:"end_point"`
	TripDays   int    `json:"trip_days"`
	Pace       string `json:"pace"`
	StartDate  string `json:"start_date,omitempty"` // RFC3339
	EndDate    string `json:"end_date,omitempty"`
}
