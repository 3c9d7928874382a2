package triage

import (
	"regexp"
)

// MaxEntities caps the extracted entity list; later matches are silently dropped.
const MaxEntities = 10

// Risk score scale is 0..100 with two documented cutoffs. A raw sum above 100
// is clamped.
const (
	HighCutoff   = 60
	MediumCutoff = 30
)

// EntityPattern maps surface text to one clinical entity. Terms are matched as
// case-insensitive substrings; Pattern (when set) is a bounded regex for shapes
// plain substrings cannot express, e.g. "BP 120/80" or "100.4°F".
type EntityPattern struct {
	Label    string
	Icon     string
	ColorTag string
	Terms    []string
	Pattern  *regexp.Regexp
}

// CodeRule emits one CodeSuggestion when its entity predicate holds.
// RequireAll entities must all be present; RequireAny needs at least one;
// ExcludeAny suppresses the rule ("else" semantics). Specialties and Keywords
// extend the predicate to the caller-supplied specialty context and note text.
type CodeRule struct {
	System      string
	Code        string
	Description string
	Confidence  int
	Rationale   string
	RequireAll  []string
	RequireAny  []string
	ExcludeAny  []string
	Specialties []string
	Keywords    []string
}

// RiskPredicate is one additive row of the weighted risk table. Terms are
// scanned against the combined symptom/note text; Entities against extracted
// entity labels; History against condition/history text. A predicate fires at
// most once.
type RiskPredicate struct {
	Name     string
	Weight   int
	Detail   string
	Terms    []string
	Entities []string
	History  []string
}

// VitalBand is one inclusive band of a vitals predicate. Bands for the same
// vital are ordered most severe first and are mutually exclusive: only the
// highest matching band contributes.
type VitalBand struct {
	Name   string
	Weight int
	Detail string
	Min    float64 // fires when value > Min
}

// Lexicon holds every rule table the engine evaluates. It is immutable after
// construction and safe to share across concurrent callers.
type Lexicon struct {
	Version string

	Entities []EntityPattern
	Codes    []CodeRule

	Predicates    []RiskPredicate
	SystolicBands []VitalBand
	DiastolicBand []VitalBand
	HeartRateBand []VitalBand
	TempBands     []VitalBand

	// HardOverrideTerms force at least TierHigh on any single match,
	// independent of the accumulated score.
	HardOverrideTerms []string
	// HardOverrideEntities do the same keyed on extracted entity labels.
	HardOverrideEntities []string

	// Specialty routing: which directory key to query per firing override or
	// entity; RoutingDefault is used when nothing more specific fired.
	Routing        map[string]string
	RoutingDefault string

	// Chat intent tables.
	EmergencyTerms []string
	DemoTriggers   map[string]RiskTier // exact match after trim+lowercase
	SymptomTerms   []string
	GreetingTerms  []string
}

var (
	reBloodPressure = regexp.MustCompile(`\b\d{2,3}\s*/\s*\d{2,3}\b`)
	reTemperature   = regexp.MustCompile(`\b\d{2,3}(\.\d)?\s*°?\s*[Ff]\b`)
	reSTElevation   = regexp.MustCompile(`(?i)\bST[-\s]?elevation`)
)

// DefaultLexicon returns the built-in rule tables. A rule file loaded at boot
// may replace it wholesale; individual tables are never mutated in place.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Version: "2026.08",

		Entities: []EntityPattern{
			{Label: "STEMI", Icon: "heart-crack", ColorTag: "red",
				Terms:   []string{"stemi", "myocardial infarction", "heart attack"},
				Pattern: reSTElevation},
			{Label: "Chest Pain", Icon: "heart-pulse", ColorTag: "red",
				Terms: []string{"chest pain", "chest tightness", "chest pressure"}},
			{Label: "Shortness of Breath", Icon: "lungs", ColorTag: "red",
				Terms: []string{"shortness of breath", "difficulty breathing", "dyspnea", "can't breathe", "cannot breathe"}},
			{Label: "Bleeding", Icon: "droplet", ColorTag: "red",
				Terms: []string{"bleeding", "hemorrhage", "blood loss"}},
			{Label: "Hypertension", Icon: "gauge", ColorTag: "orange",
				Terms:   []string{"hypertension", "high blood pressure", "elevated bp"},
				Pattern: reBloodPressure},
			{Label: "Tachycardia", Icon: "activity", ColorTag: "orange",
				Terms: []string{"tachycardia", "racing heart", "heart racing", "palpitations"}},
			{Label: "Fever", Icon: "thermometer", ColorTag: "orange",
				Terms:   []string{"fever", "febrile", "pyrexia"},
				Pattern: reTemperature},
			{Label: "URI", Icon: "wind", ColorTag: "yellow",
				Terms: []string{"cough", "upper respiratory", "runny nose", "nasal congestion", "sore throat"}},
			{Label: "Headache", Icon: "brain", ColorTag: "yellow",
				Terms: []string{"headache", "migraine", "cephalgia"}},
			{Label: "Dizziness", Icon: "rotate", ColorTag: "yellow",
				Terms: []string{"dizziness", "dizzy", "vertigo", "lightheaded"}},
			{Label: "Nausea", Icon: "cookie", ColorTag: "yellow",
				Terms: []string{"nausea", "vomiting", "nauseous", "threw up"}},
			{Label: "Diabetes", Icon: "syringe", ColorTag: "orange",
				Terms: []string{"diabetes", "diabetic", "hyperglycemia", "high blood sugar"}},
			{Label: "Fracture", Icon: "bone", ColorTag: "orange",
				Terms: []string{"fracture", "broken bone", "broken arm", "broken leg"}},
			{Label: "Rash", Icon: "hand", ColorTag: "yellow",
				Terms: []string{"rash", "hives", "skin eruption"}},
			{Label: "Aspirin", Icon: "pill", ColorTag: "blue",
				Terms: []string{"aspirin", "asa "}},
			{Label: "Metformin", Icon: "pill", ColorTag: "blue",
				Terms: []string{"metformin"}},
			{Label: "Lisinopril", Icon: "pill", ColorTag: "blue",
				Terms: []string{"lisinopril"}},
			{Label: "Ibuprofen", Icon: "pill", ColorTag: "blue",
				Terms: []string{"ibuprofen", "advil", "motrin"}},
		},

		Codes: []CodeRule{
			// Acute rules first: cascade order is priority order.
			{System: "ICD-10", Code: "I21.09", Description: "ST elevation myocardial infarction",
				Confidence: 92, Rationale: "ST elevation pattern documented in note",
				RequireAll: []string{"STEMI"}},
			{System: "CPT", Code: "93010", Description: "Electrocardiogram interpretation and report",
				Confidence: 80, Rationale: "ECG findings referenced alongside acute cardiac event",
				RequireAll: []string{"STEMI"}},
			{System: "ICD-10", Code: "R07.9", Description: "Chest pain, unspecified",
				Confidence: 70, Rationale: "chest pain documented without confirmed infarction",
				RequireAll: []string{"Chest Pain"}, ExcludeAny: []string{"STEMI"}},
			{System: "ICD-10", Code: "J06.9", Description: "Acute upper respiratory infection, unspecified",
				Confidence: 85, Rationale: "upper respiratory symptoms documented",
				RequireAll: []string{"URI"}},
			{System: "ICD-10", Code: "R50.9", Description: "Fever, unspecified",
				Confidence: 75, Rationale: "fever documented without respiratory source",
				RequireAll: []string{"Fever"}, ExcludeAny: []string{"URI"}},
			{System: "ICD-10", Code: "I10", Description: "Essential (primary) hypertension",
				Confidence: 80, Rationale: "elevated blood pressure documented",
				RequireAll: []string{"Hypertension"}},
			{System: "ICD-10", Code: "E11.9", Description: "Type 2 diabetes mellitus without complications",
				Confidence: 80, Rationale: "diabetes documented in note",
				RequireAll: []string{"Diabetes"}},
			{System: "ICD-10", Code: "R51.9", Description: "Headache, unspecified",
				Confidence: 70, Rationale: "headache documented",
				RequireAll: []string{"Headache"}},
			{System: "ICD-10", Code: "R11.2", Description: "Nausea with vomiting, unspecified",
				Confidence: 70, Rationale: "nausea or vomiting documented",
				RequireAll: []string{"Nausea"}},
			{System: "CPT", Code: "99213", Description: "Established patient office visit, low complexity",
				Confidence: 65, Rationale: "follow-up visit in primary care context",
				Specialties: []string{"Primary Care", "General Practice"}, Keywords: []string{"follow"}},
		},

		Predicates: []RiskPredicate{
			{Name: "cardiac_symptoms", Weight: 25, Detail: "cardiac symptom vocabulary present",
				Terms: []string{"chest pain", "chest tightness", "palpitations"}},
			{Name: "respiratory_distress", Weight: 25, Detail: "respiratory distress vocabulary present",
				Terms: []string{"difficulty breathing", "shortness of breath", "can't breathe", "cannot breathe"}},
			{Name: "severe_language", Weight: 20, Detail: "severity qualifier present",
				Terms: []string{"severe", "worst", "unbearable", "excruciating"}},
			{Name: "acute_cardiac_entity", Weight: 30, Detail: "acute cardiac entity extracted",
				Entities: []string{"STEMI"}},
			{Name: "fever_symptom", Weight: 10, Detail: "fever documented",
				Terms: []string{"fever", "febrile"}, Entities: []string{"Fever"}},
			{Name: "infection_symptoms", Weight: 5, Detail: "infection vocabulary present",
				Terms: []string{"cough", "sore throat", "congestion"}},
			{Name: "cardiac_history", Weight: 15, Detail: "cardiac history on record",
				History: []string{"heart disease", "heart attack", "coronary", "cardiac"}},
			{Name: "diabetic_history", Weight: 10, Detail: "diabetes on record",
				History: []string{"diabetes", "diabetic"}},
			{Name: "hypertensive_history", Weight: 10, Detail: "hypertension on record",
				History: []string{"hypertension", "high blood pressure"}},
		},

		SystolicBands: []VitalBand{
			{Name: "systolic_high", Weight: 20, Detail: "systolic blood pressure above 140", Min: 140},
			{Name: "systolic_elevated", Weight: 10, Detail: "systolic blood pressure above 130", Min: 130},
		},
		DiastolicBand: []VitalBand{
			{Name: "diastolic_high", Weight: 20, Detail: "diastolic blood pressure above 90", Min: 90},
			{Name: "diastolic_elevated", Weight: 10, Detail: "diastolic blood pressure above 85", Min: 85},
		},
		HeartRateBand: []VitalBand{
			{Name: "heart_rate_high", Weight: 15, Detail: "heart rate above 100", Min: 100},
			{Name: "heart_rate_elevated", Weight: 8, Detail: "heart rate above 90", Min: 90},
		},
		TempBands: []VitalBand{
			{Name: "temperature_high", Weight: 15, Detail: "temperature above 102.0°F", Min: 102.0},
			{Name: "temperature_elevated", Weight: 8, Detail: "temperature above 100.4°F", Min: 100.4},
		},

		HardOverrideTerms: []string{
			"chest pain", "severe", "difficulty breathing", "can't breathe",
			"cannot breathe", "bleeding", "unconscious",
		},
		HardOverrideEntities: []string{"STEMI", "Bleeding"},

		Routing: map[string]string{
			"STEMI":                "Cardiology",
			"chest pain":           "Cardiology",
			"cardiac_symptoms":     "Cardiology",
			"acute_cardiac_entity": "Cardiology",
			"cardiac_history":      "Cardiology",
			"difficulty breathing": "Pulmonology",
			"can't breathe":        "Pulmonology",
			"cannot breathe":       "Pulmonology",
			"respiratory_distress": "Pulmonology",
			"diabetic_history":     "Endocrinology",
		},
		RoutingDefault: "Internal Medicine",

		EmergencyTerms: []string{
			"chest pain", "can't breathe", "cannot breathe", "unconscious",
			"severe bleeding", "stroke", "heart attack", "choking", "severe pain",
		},
		DemoTriggers: map[string]RiskTier{
			"hi":    TierLow,
			"hello": TierHigh,
		},
		SymptomTerms: []string{
			"symptom", "pain", "fever", "cough", "headache", "nausea",
			"dizzy", "dizziness", "tired", "fatigue", "rash", "sick",
		},
		GreetingTerms: []string{
			"hey", "good morning", "good afternoon", "good evening", "greetings",
		},
	}
}
