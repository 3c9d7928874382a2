package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	specialists []SpecialistMatch
	hospitals   []HospitalMatch
	err         error

	lastSpecialty string
	hospitalCalls int
}

func (d *stubDirectory) FindSpecialists(_ context.Context, specialty string, _ int) ([]SpecialistMatch, error) {
	d.lastSpecialty = specialty
	if d.err != nil {
		return nil, d.err
	}
	return d.specialists, nil
}

func (d *stubDirectory) FindHospitals(_ context.Context, _ bool, _ int) ([]HospitalMatch, error) {
	d.hospitalCalls++
	if d.err != nil {
		return nil, d.err
	}
	return d.hospitals, nil
}

type stubEntitlements struct {
	ent   Entitlements
	err   error
	calls int
}

func (e *stubEntitlements) Entitlements(_ context.Context, _ uuid.UUID) (Entitlements, error) {
	e.calls++
	return e.ent, e.err
}

func newTestService(dir *stubDirectory, ent *stubEntitlements, demo bool) *Service {
	var lookup DirectoryLookup
	if dir != nil {
		lookup = dir
	}
	var provider EntitlementProvider
	if ent != nil {
		provider = ent
	}
	return NewService(DefaultLexicon, lookup, provider, demo, zerolog.Nop())
}

func highRiskObservation() HealthObservation {
	return HealthObservation{Symptoms: "crushing chest pain and difficulty breathing"}
}

func TestAnalyzeObservation_EmptyObservationIsValidLow(t *testing.T) {
	svc := newTestService(nil, nil, false)

	a := svc.AnalyzeObservation(context.Background(), nil, HealthObservation{})

	require.NotNil(t, a)
	assert.Equal(t, TierLow, a.RiskTier)
	assert.Equal(t, 0, a.RiskScore)
	assert.NotNil(t, a.Entities)
	assert.NotNil(t, a.Codes)
	assert.NotNil(t, a.Factors)
	assert.NotEmpty(t, a.Recommendations)
	assert.False(t, a.GeneratedAt.IsZero())
}

func TestAnalyzeObservation_FullPipeline(t *testing.T) {
	dir := &stubDirectory{
		specialists: []SpecialistMatch{{Name: "Dr. Okafor", Specialty: "Cardiology"}},
		hospitals:   []HospitalMatch{{Name: "City General", EmergencyCapable: true}},
	}
	svc := newTestService(dir, nil, false)

	a := svc.AnalyzeObservation(context.Background(), nil, highRiskObservation())

	assert.Equal(t, TierHigh, a.RiskTier)
	assert.Contains(t, a.Recommendations, EscalationMessage)
	assert.True(t, a.NeedsSpecialist)
	assert.Equal(t, "Cardiology", dir.lastSpecialty)
	require.Len(t, a.SpecialistMatches, 1)
	require.Len(t, a.HospitalMatches, 1)

	labels := matchLabels(a.Entities)
	assert.Contains(t, labels, "Chest Pain")
	assert.Contains(t, labels, "Shortness of Breath")
}

func TestAnalyzeObservation_DirectoryFailureDegrades(t *testing.T) {
	dir := &stubDirectory{err: errors.New("connection refused")}
	svc := newTestService(dir, nil, false)

	a := svc.AnalyzeObservation(context.Background(), nil, highRiskObservation())

	require.NotNil(t, a)
	assert.Equal(t, TierHigh, a.RiskTier)
	assert.True(t, a.NeedsSpecialist)
	assert.Empty(t, a.SpecialistMatches)
	assert.Empty(t, a.HospitalMatches)
	assert.Contains(t, a.Recommendations, EscalationMessage)
}

func TestAnalyzeObservation_AnonymousGetsOpenGates(t *testing.T) {
	ent := &stubEntitlements{ent: Entitlements{}}
	dir := &stubDirectory{}
	svc := newTestService(dir, ent, false)

	a := svc.AnalyzeObservation(context.Background(), nil, highRiskObservation())

	assert.Zero(t, ent.calls, "anonymous callers never hit the entitlement provider")
	assert.True(t, a.NeedsSpecialist)
	assert.Equal(t, 1, dir.hospitalCalls)
}

func TestAnalyzeObservation_EntitlementFailureOpensGates(t *testing.T) {
	ent := &stubEntitlements{err: errors.New("db down")}
	dir := &stubDirectory{}
	svc := newTestService(dir, ent, false)

	id := uuid.New()
	a := svc.AnalyzeObservation(context.Background(), &id, highRiskObservation())

	assert.Equal(t, 1, ent.calls)
	assert.True(t, a.NeedsSpecialist)
	assert.Equal(t, 1, dir.hospitalCalls)
}

func TestAnalyzeObservation_ClosedGatesDropMatches(t *testing.T) {
	ent := &stubEntitlements{ent: Entitlements{}}
	dir := &stubDirectory{specialists: []SpecialistMatch{{Name: "Dr. Okafor"}}}
	svc := newTestService(dir, ent, false)

	id := uuid.New()
	a := svc.AnalyzeObservation(context.Background(), &id, highRiskObservation())

	assert.False(t, a.NeedsSpecialist)
	assert.Empty(t, a.SpecialistMatches)
	assert.Zero(t, dir.hospitalCalls)
	// Escalation survives regardless of plan.
	assert.Contains(t, a.Recommendations, EscalationMessage)
}

func TestClassifyMessage_UsesServiceDemoFlag(t *testing.T) {
	enabled := newTestService(nil, nil, true)
	disabled := newTestService(nil, nil, false)

	withDemo := enabled.ClassifyMessage(context.Background(), ChatRequest{Message: "hi"})
	assert.Equal(t, IntentDemoLow, withDemo.Intent)

	without := disabled.ClassifyMessage(context.Background(), ChatRequest{Message: "hi"})
	assert.Equal(t, IntentDefault, without.Intent)
}
