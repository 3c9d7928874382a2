package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caresense/caresense/internal/domain/triage"
)

// Analyzer runs the triage pipeline for one observation. Satisfied by the
// triage service.
type Analyzer interface {
	AnalyzeObservation(ctx context.Context, patientID *uuid.UUID, obs triage.HealthObservation) *triage.RiskAssessment
}

type Service struct {
	patients    Repository
	records     RecordRepository
	assessments AssessmentRepository
	analyzer    Analyzer
	logger      zerolog.Logger
	now         func() time.Time
}

func NewService(patients Repository, records RecordRepository, assessments AssessmentRepository, analyzer Analyzer, logger zerolog.Logger) *Service {
	return &Service{
		patients:    patients,
		records:     records,
		assessments: assessments,
		analyzer:    analyzer,
		logger:      logger,
		now:         time.Now,
	}
}

// -- Patient CRUD --

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("name is required")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("name is required")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// -- Observation logging --

// LogObservation persists the snapshot, runs the triage pipeline with the
// patient's recorded condition and history filled in, and stores the
// resulting assessment. The returned assessment is the engine output; the
// stored row is its persisted form.
func (s *Service) LogObservation(ctx context.Context, patientID uuid.UUID, obs triage.HealthObservation) (*triage.RiskAssessment, *Assessment, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, nil, fmt.Errorf("load patient: %w", err)
	}

	if obs.Condition == "" {
		obs.Condition = p.Condition
	}
	if obs.MedicalHistory == "" {
		obs.MedicalHistory = p.MedicalHistory
	}

	rec := &HealthRecord{
		PatientID:       patientID,
		Systolic:        obs.Systolic,
		Diastolic:       obs.Diastolic,
		HeartRate:       obs.HeartRate,
		Temperature:     obs.Temperature,
		Weight:          obs.Weight,
		Symptoms:        obs.Symptoms,
		Notes:           obs.Notes,
		MedicationTaken: obs.MedicationTaken,
		Smoked:          obs.Smoked,
		Adherence:       obs.Adherence,
		RecordedAt:      s.now().UTC(),
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, nil, fmt.Errorf("store health record: %w", err)
	}

	result := s.analyzer.AnalyzeObservation(ctx, &patientID, obs)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, nil, fmt.Errorf("encode assessment: %w", err)
	}
	stored := &Assessment{
		PatientID: patientID,
		RecordID:  rec.ID,
		RiskScore: result.RiskScore,
		RiskTier:  result.RiskTier,
		Payload:   payload,
	}
	if err := s.assessments.Create(ctx, stored); err != nil {
		return nil, nil, fmt.Errorf("store assessment: %w", err)
	}

	s.logger.Info().
		Str("patient_id", patientID.String()).
		Str("record_id", rec.ID.String()).
		Int("risk_score", result.RiskScore).
		Str("risk_tier", string(result.RiskTier)).
		Msg("observation logged")

	return result, stored, nil
}

func (s *Service) ListRecords(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	return s.records.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.assessments.GetByID(ctx, id)
}

func (s *Service) ListAssessments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	return s.assessments.ListByPatient(ctx, patientID, limit, offset)
}
