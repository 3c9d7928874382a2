package subscription

import (
	"time"

	"github.com/google/uuid"

	"github.com/caresense/caresense/internal/domain/triage"
)

// Plan is the product tier a patient is subscribed to.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPlus    Plan = "plus"
	PlanPremium Plan = "premium"
)

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPlus, PlanPremium:
		return true
	}
	return false
}

// Entitlements maps a plan to the feature gates the triage engine consumes.
// A patient without a subscription row is on the free plan.
func (p Plan) Entitlements() triage.Entitlements {
	switch p {
	case PlanPremium:
		return triage.Entitlements{SpecialistMatches: true, HospitalMatches: true}
	case PlanPlus:
		return triage.Entitlements{SpecialistMatches: true}
	}
	return triage.Entitlements{}
}

// Subscription is one patient's active plan record.
type Subscription struct {
	ID        uuid.UUID  `json:"id"`
	PatientID uuid.UUID  `json:"patient_id"`
	Plan      Plan       `json:"plan"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Active reports whether the subscription grants its plan now. An expired or
// cancelled record falls back to free-plan entitlements.
func (s *Subscription) Active(now time.Time) bool {
	if s.Status != "active" {
		return false
	}
	if s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return false
	}
	return true
}
