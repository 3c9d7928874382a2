package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/caresense/caresense/internal/domain/triage"
)

// Service resolves plan entitlements for the triage engine and manages
// subscription records. It implements triage.EntitlementProvider.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Entitlements resolves the feature gates for one patient. A patient without
// a subscription row, or with an inactive one, gets free-plan gates; only
// infrastructure failures surface as errors.
func (s *Service) Entitlements(ctx context.Context, patientID uuid.UUID) (triage.Entitlements, error) {
	sub, err := s.repo.GetByPatient(ctx, patientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return PlanFree.Entitlements(), nil
	}
	if err != nil {
		return triage.Entitlements{}, fmt.Errorf("load subscription: %w", err)
	}
	if !sub.Active(s.now()) {
		return PlanFree.Entitlements(), nil
	}
	return sub.Plan.Entitlements(), nil
}

// Get returns the patient's subscription, synthesizing a free-plan record
// when none exists.
func (s *Service) Get(ctx context.Context, patientID uuid.UUID) (*Subscription, error) {
	sub, err := s.repo.GetByPatient(ctx, patientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Subscription{PatientID: patientID, Plan: PlanFree, Status: "active"}, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// SetPlan replaces the patient's plan effective immediately.
func (s *Service) SetPlan(ctx context.Context, patientID uuid.UUID, plan Plan, expiresAt *time.Time) (*Subscription, error) {
	if !plan.Valid() {
		return nil, fmt.Errorf("invalid plan: %s", plan)
	}
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	sub := &Subscription{
		PatientID: patientID,
		Plan:      plan,
		Status:    "active",
		StartedAt: s.now().UTC(),
		ExpiresAt: expiresAt,
	}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel marks the subscription cancelled; the patient drops to free-plan
// entitlements.
func (s *Service) Cancel(ctx context.Context, patientID uuid.UUID) error {
	return s.repo.Cancel(ctx, patientID)
}
