package request_models

// MustVisitPlace is a user-declared place the generator has to include,
// optionally pinned to a preferred day index ("any day" when nil).
type MustVisitPlace struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	PreferredDay *int   `json:"preferred_day"`
}

type GenerateItineraryRequest struct {
	TripID     string           `json:"trip_id"`
	StartPoint string           `json:"start_point" binding:"required"`
	EndPoint   string           `json:"end_point" binding:"required"`
	TripDays   int              `json:"trip_days" binding:"required,min=1,max=30"`
	Pace       string           `json:"pace"`
	MustVisit  []MustVisitPlace `json:"must_visit"`
}

type PlaceInput struct {
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OptimizeItineraryRequest struct {
	TripID    string       `json:"trip_id"`
	Places    []PlaceInput `json:"places"`
	TripDays  int          `json:"trip_days" binding:"required,min=1,max=30"`
	Pace      string       `json:"pace"`
	Departure *PlaceInput  `json:"departure"`
}
