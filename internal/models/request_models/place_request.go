package request_models

type CreatePlaceRequest struct {
	Name      string   `json:"name" binding:"required"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Rating    *float64 `json:"rating"`
	Notes     string   `json:"notes"`
}

type SearchPlacesRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}
