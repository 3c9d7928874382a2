package triage

import (
	"time"
)

// RiskTier is the discrete output of the risk scorer.
type RiskTier string

const (
	TierLow    RiskTier = "low"
	TierMedium RiskTier = "medium"
	TierHigh   RiskTier = "high"
)

// rank orders tiers for monotonic comparisons.
func (t RiskTier) rank() int {
	switch t {
	case TierHigh:
		return 2
	case TierMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t is the same or a more severe tier than other.
func (t RiskTier) AtLeast(other RiskTier) bool { return t.rank() >= other.rank() }

// HealthObservation is one caller-supplied snapshot. Every field is optional;
// a missing or unparsable value means "no evidence", never an error.
type HealthObservation struct {
	BloodPressure   string   `json:"blood_pressure,omitempty"` // raw "120/80" form
	Systolic        *int     `json:"systolic,omitempty"`
	Diastolic       *int     `json:"diastolic,omitempty"`
	HeartRate       *int     `json:"heart_rate,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"` // Fahrenheit
	Weight          *float64 `json:"weight,omitempty"`
	Symptoms        string   `json:"symptoms,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	MedicationTaken *bool    `json:"medication_taken,omitempty"`
	Smoked          *bool    `json:"smoked,omitempty"`
	Adherence       *float64 `json:"adherence,omitempty"` // medication adherence ratio in [0,1]
	Condition       string   `json:"condition,omitempty"`
	MedicalHistory  string   `json:"medical_history,omitempty"`
	Specialty       string   `json:"specialty,omitempty"`
}

// EntityMatch is a recognized clinical concept. Identity is Label.
type EntityMatch struct {
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	ColorTag string `json:"color_tag"`
}

// CodeSuggestion is one billing code proposal emitted by a fired code rule.
type CodeSuggestion struct {
	System      string `json:"system"` // "ICD-10" or "CPT"
	Code        string `json:"code"`
	Description string `json:"description"`
	Confidence  int    `json:"confidence"` // 0..100
	Rationale   string `json:"rationale"`
}

// RiskFactor records one fired risk predicate.
type RiskFactor struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// SpecialistMatch is a directory-supplied candidate, not computed here.
type SpecialistMatch struct {
	Name         string  `json:"name"`
	Specialty    string  `json:"specialty"`
	DistanceKm   float64 `json:"distance_km"`
	Rating       float64 `json:"rating"`
	Availability string  `json:"availability"`
	Fee          float64 `json:"fee"`
}

// HospitalMatch is a directory-supplied candidate hospital.
type HospitalMatch struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	DistanceKm       float64 `json:"distance_km"`
	Rating           float64 `json:"rating"`
	EmergencyCapable bool    `json:"emergency_capable"`
}

// RiskAssessment is the engine output for one observation. Immutable once
// produced; the caller persists or discards it. Slices are never nil.
type RiskAssessment struct {
	RiskScore         int               `json:"risk_score"` // 0..100
	RiskTier          RiskTier          `json:"risk_tier"`
	Entities          []EntityMatch     `json:"entities"`
	Codes             []CodeSuggestion  `json:"codes"`
	Factors           []RiskFactor      `json:"factors"`
	Insights          []string          `json:"insights"`
	Recommendations   []string          `json:"recommendations"`
	NeedsSpecialist   bool              `json:"needs_specialist"`
	SpecialistMatches []SpecialistMatch `json:"specialist_matches,omitempty"`
	HospitalMatches   []HospitalMatch   `json:"hospital_matches,omitempty"`
	GeneratedAt       time.Time         `json:"generated_at"`
}

// Entitlements are caller-side plan gates. A closed gate drops the matching
// recommendation section; it is never an error.
type Entitlements struct {
	SpecialistMatches bool `json:"specialist_matches"`
	HospitalMatches   bool `json:"hospital_matches"`
}

// ChatIntent classifies one inbound chat message.
type ChatIntent string

const (
	IntentEmergency    ChatIntent = "emergency"
	IntentDemoLow      ChatIntent = "demo_low"
	IntentDemoHigh     ChatIntent = "demo_high"
	IntentSymptomQuery ChatIntent = "symptom_query"
	IntentGreeting     ChatIntent = "greeting"
	IntentDefault      ChatIntent = "default"
)

// ChatMessage is one prior turn of the conversation, read-only context.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound payload for the chat classification flow.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatResponse is the single response every classified message produces.
type ChatResponse struct {
	Text                   string            `json:"text"`
	Intent                 ChatIntent        `json:"intent"`
	RiskTier               RiskTier          `json:"risk_tier"`
	RequiresHumanClinician bool              `json:"requires_human_clinician"`
	Timestamp              time.Time         `json:"timestamp"`
	Metadata               map[string]string `json:"metadata,omitempty"`
}
