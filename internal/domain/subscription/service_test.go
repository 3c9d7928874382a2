package subscription

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type mockRepo struct {
	items map[uuid.UUID]*Subscription
	fail  bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Subscription)}
}

func (m *mockRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*Subscription, error) {
	if m.fail {
		return nil, fmt.Errorf("repo down")
	}
	s, ok := m.items[patientID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockRepo) Upsert(_ context.Context, s *Subscription) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.items[s.PatientID] = s
	return nil
}

func (m *mockRepo) Cancel(_ context.Context, patientID uuid.UUID) error {
	if s, ok := m.items[patientID]; ok {
		s.Status = "cancelled"
	}
	return nil
}

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo), repo
}

func TestPlan_Entitlements(t *testing.T) {
	if e := PlanFree.Entitlements(); e.SpecialistMatches || e.HospitalMatches {
		t.Error("expected free plan to have no gates open")
	}
	if e := PlanPlus.Entitlements(); !e.SpecialistMatches || e.HospitalMatches {
		t.Error("expected plus plan to open specialist matches only")
	}
	if e := PlanPremium.Entitlements(); !e.SpecialistMatches || !e.HospitalMatches {
		t.Error("expected premium plan to open both gates")
	}
}

func TestEntitlements_MissingPatientGetsFreePlan(t *testing.T) {
	svc, _ := newTestService()

	ent, err := svc.Entitlements(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ent.SpecialistMatches || ent.HospitalMatches {
		t.Error("expected free-plan gates for unknown patient")
	}
}

func TestEntitlements_ActivePremium(t *testing.T) {
	svc, repo := newTestService()
	pid := uuid.New()
	repo.items[pid] = &Subscription{PatientID: pid, Plan: PlanPremium, Status: "active"}

	ent, err := svc.Entitlements(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ent.SpecialistMatches || !ent.HospitalMatches {
		t.Error("expected premium gates open")
	}
}

func TestEntitlements_ExpiredFallsBackToFree(t *testing.T) {
	svc, repo := newTestService()
	pid := uuid.New()
	expired := time.Now().Add(-time.Hour)
	repo.items[pid] = &Subscription{PatientID: pid, Plan: PlanPremium, Status: "active", ExpiresAt: &expired}

	ent, err := svc.Entitlements(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ent.SpecialistMatches || ent.HospitalMatches {
		t.Error("expected expired subscription to drop to free-plan gates")
	}
}

func TestEntitlements_CancelledFallsBackToFree(t *testing.T) {
	svc, repo := newTestService()
	pid := uuid.New()
	repo.items[pid] = &Subscription{PatientID: pid, Plan: PlanPlus, Status: "cancelled"}

	ent, err := svc.Entitlements(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ent.SpecialistMatches {
		t.Error("expected cancelled subscription to drop to free-plan gates")
	}
}

func TestEntitlements_RepoErrorPropagates(t *testing.T) {
	svc, repo := newTestService()
	repo.fail = true

	if _, err := svc.Entitlements(context.Background(), uuid.New()); err == nil {
		t.Error("expected infrastructure error to surface")
	}
}

func TestSetPlan_RejectsUnknownPlan(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.SetPlan(context.Background(), uuid.New(), Plan("gold"), nil); err == nil {
		t.Error("expected error for unknown plan")
	}
}

func TestSetPlan_ThenGet(t *testing.T) {
	svc, _ := newTestService()
	pid := uuid.New()

	sub, err := svc.SetPlan(context.Background(), pid, PlanPlus, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Plan != PlanPlus || sub.Status != "active" {
		t.Errorf("expected active plus subscription, got %s/%s", sub.Plan, sub.Status)
	}

	got, err := svc.Get(context.Background(), pid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Plan != PlanPlus {
		t.Errorf("expected plus plan, got %s", got.Plan)
	}
}

func TestGet_SynthesizesFreeRecord(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Plan != PlanFree || got.Status != "active" {
		t.Errorf("expected synthesized free record, got %s/%s", got.Plan, got.Status)
	}
}
