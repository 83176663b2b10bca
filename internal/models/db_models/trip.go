package db_models

type Trip struct {
	BaseModel
	UserID     string `gorm:"index"`
	Title      string
	StartPoint string
	EndPoint   string
	TripDays   int
	Pace       string `gorm:"default:balanced"`
	StartDate  int64  // unix seconds
	EndDate    *int64
}
