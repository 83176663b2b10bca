package request_models

type CreateTripRequest struct {
	Title      string `json:"title" binding:"required"`
	StartPoint string `json:"start_point"`
	EndPoint   string `json:"end_point"`
	TripDays   int    `json:"trip_days" binding:"required,min=1,max=30"`
	Pace       string `json:"pace"`
	StartDate  int64  `json:"start_date"` // unix seconds
	EndDate    *int64 `json:"end_date"`
}
