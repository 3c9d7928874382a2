package directory

import (
	"time"

	"github.com/google/uuid"
)

// Specialist is one provider listing in the referral directory.
type Specialist struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Specialty    string    `json:"specialty"`
	DistanceKm   float64   `json:"distance_km"`
	Rating       float64   `json:"rating"`
	Availability string    `json:"availability"`
	Fee          float64   `json:"fee"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Hospital is one facility listing in the referral directory.
type Hospital struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	DistanceKm       float64   `json:"distance_km"`
	Rating           float64   `json:"rating"`
	EmergencyCapable bool      `json:"emergency_capable"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
