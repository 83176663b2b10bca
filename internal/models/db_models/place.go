package db_models

import (
	"github.com/pgvector/pgvector-go"
)

// Place is an identity-bearing point of interest. Latitude/Longitude of 0/0
// means "not geocoded yet"; Address falls back to Name when empty.
type Place struct {
	BaseModel
	Name      string `gorm:"not null"`
	Address   string
	Latitude  float64
	Longitude float64
	Rating    *float64
	Notes     string

	// Embedding powers free-text place search; populated on create.
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}

// DisplayAddress returns the address or the name when no address was given.
func (p *Place) DisplayAddress() string {
	if p.Address == "" {
		return p.Name
	}
	return p.Address
}
