package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var openGates = Entitlements{SpecialistMatches: true, HospitalMatches: true}

func TestBuildRecommendations_LowTier(t *testing.T) {
	lex := DefaultLexicon()

	rec := BuildRecommendations(lex, RiskResult{Tier: TierLow}, openGates)

	assert.NotEmpty(t, rec.Insights)
	assert.Len(t, rec.Recommendations, 3)
	assert.False(t, rec.NeedsSpecialist)
	assert.False(t, rec.WantHospitals)
}

func TestBuildRecommendations_MediumTierWithSpecialistGate(t *testing.T) {
	lex := DefaultLexicon()
	res := RiskResult{Tier: TierMedium, Fired: []string{"cardiac_symptoms"}}

	rec := BuildRecommendations(lex, res, openGates)

	assert.True(t, rec.NeedsSpecialist)
	assert.Equal(t, "Cardiology", rec.SpecialistKey)
	assert.False(t, rec.WantHospitals, "hospitals are a high-tier concern only")
}

func TestBuildRecommendations_ClosedGatesDropSections(t *testing.T) {
	lex := DefaultLexicon()
	res := RiskResult{Tier: TierHigh, Overrides: []string{"chest pain"}}

	rec := BuildRecommendations(lex, res, Entitlements{})

	assert.False(t, rec.NeedsSpecialist)
	assert.False(t, rec.WantHospitals)
	// The escalation itself is never gated.
	assert.Contains(t, rec.Recommendations, EscalationMessage)
}

func TestBuildRecommendations_HighTierEscalatesOnly(t *testing.T) {
	lex := DefaultLexicon()
	res := RiskResult{Tier: TierHigh, Overrides: []string{"difficulty breathing"}}

	rec := BuildRecommendations(lex, res, openGates)

	require.Equal(t, []string{EscalationMessage}, rec.Recommendations,
		"high tier routes and escalates, it never offers softer guidance")
	for _, r := range rec.Recommendations {
		assert.NotContains(t, strings.ToLower(r), "consult")
	}
	assert.True(t, rec.NeedsSpecialist)
	assert.True(t, rec.WantHospitals)
	assert.Equal(t, "Pulmonology", rec.SpecialistKey)
}

func TestRouteSpecialty_OverridesBeatFiredPredicates(t *testing.T) {
	lex := DefaultLexicon()
	res := RiskResult{
		Tier:      TierHigh,
		Overrides: []string{"chest pain"},
		Fired:     []string{"respiratory_distress"},
	}

	rec := BuildRecommendations(lex, res, openGates)
	assert.Equal(t, "Cardiology", rec.SpecialistKey)
}

func TestRouteSpecialty_DefaultWhenNothingMapped(t *testing.T) {
	lex := DefaultLexicon()
	res := RiskResult{Tier: TierMedium, Fired: []string{"severe_language"}}

	rec := BuildRecommendations(lex, res, openGates)
	assert.Equal(t, "Internal Medicine", rec.SpecialistKey)
}
