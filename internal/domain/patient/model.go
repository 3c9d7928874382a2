package patient

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/caresense/caresense/internal/domain/triage"
)

// Patient is one enrolled person.
type Patient struct {
	ID             uuid.UUID  `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Condition      string     `json:"condition,omitempty"`
	MedicalHistory string     `json:"medical_history,omitempty"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FullName returns the display name for reports.
func (p *Patient) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// HealthRecord is one persisted self-reported snapshot, column per vital.
type HealthRecord struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	Systolic        *int      `json:"systolic,omitempty"`
	Diastolic       *int      `json:"diastolic,omitempty"`
	HeartRate       *int      `json:"heart_rate,omitempty"`
	Temperature     *float64  `json:"temperature,omitempty"`
	Weight          *float64  `json:"weight,omitempty"`
	Symptoms        string    `json:"symptoms,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	MedicationTaken *bool     `json:"medication_taken,omitempty"`
	Smoked          *bool     `json:"smoked,omitempty"`
	Adherence       *float64  `json:"adherence,omitempty"`
	RecordedAt      time.Time `json:"recorded_at"`
}

// Assessment is one stored triage result tied to the record that produced it.
// The full engine output is kept as a JSON payload so the rendering surface
// can evolve without schema churn.
type Assessment struct {
	ID        uuid.UUID       `json:"id"`
	PatientID uuid.UUID       `json:"patient_id"`
	RecordID  uuid.UUID       `json:"record_id"`
	RiskScore int             `json:"risk_score"`
	RiskTier  triage.RiskTier `json:"risk_tier"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Result unmarshals the stored engine output.
func (a *Assessment) Result() (*triage.RiskAssessment, error) {
	var res triage.RiskAssessment
	if err := json.Unmarshal(a.Payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
