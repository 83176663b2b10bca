package response_models

type ScheduledStopResponse struct {
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	Description     string `json:"description,omitempty"`
	IsStartingPoint bool   `json:"is_starting_point,omitempty"`

	EstimatedDuration int    `json:"estimated_duration,omitempty"`
	BestTimeToVisit   string `json:"best_time_to_visit,omitempty"`
	TravelTimeToNext  int    `json:"travel_time_to_next,omitempty"`
}

type DayPlanResponse struct {
	Day             int                     `json:"day"`
	Date            string                  `json:"date,omitempty"`
	Locations       []ScheduledStopResponse `json:"locations"`
	TotalTravelTime int                     `json:"total_travel_time"`
	TotalDuration   int                     `json:"total_duration"`
}
