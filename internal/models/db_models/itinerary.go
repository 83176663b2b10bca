package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ItineraryDay groups the stops of one trip day. Days are rebuilt wholesale
// on every re-optimization; there is no incremental mutation path.
type ItineraryDay struct {
	BaseModel
	TripID   uuid.UUID `gorm:"type:uuid;index"`
	DayIndex int
	Date     int64 // unix seconds, derived from the trip start date

	Stops []ScheduledStop `gorm:"foreignKey:DayID"`
}

// ScheduledStop is a place bound to a day and position. Kind discriminates
// the hotel/attraction variants: hotels never carry timing fields.
type ScheduledStop struct {
	BaseModel
	DayID    uuid.UUID `gorm:"type:uuid;index"`
	Position int

	Kind        string `gorm:"size:16"` // "attraction" | "hotel"
	Name        string `gorm:"not null"`
	Address     string
	Description string

	IsStartingPoint bool

	// Attraction-only timing fields; zero for hotels.
	EstimatedDuration int    // on-site dwell, minutes
	BestTimeToVisit   string // daypart label or HH:MM
	TravelTimeToNext  int    // minutes to next stop in the day, 0 for the last

	// Hotel amenity/price-tier metadata as free structure.
	Meta datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
