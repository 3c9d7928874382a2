package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/caresense/caresense/internal/domain/triage"
)

func TestRender_ProducesPDF(t *testing.T) {
	g := NewGenerator("")

	a := &triage.RiskAssessment{
		RiskScore: 55,
		RiskTier:  triage.TierMedium,
		Entities:  []triage.EntityMatch{{Label: "Hypertension"}},
		Codes: []triage.CodeSuggestion{
			{System: "ICD-10", Code: "I10", Description: "Essential (primary) hypertension", Confidence: 80},
		},
		Factors:         []triage.RiskFactor{{Name: "systolic_high", Detail: "systolic blood pressure above 140"}},
		Insights:        []string{"Your blood pressure reading is elevated."},
		Recommendations: []string{"Re-check your blood pressure within 24 hours."},
		GeneratedAt:     time.Now(),
	}

	data, err := g.Render("Test Patient", time.Now(), a)
	if err != nil {
		t.Skipf("no usable TTF font on this machine: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("expected non-empty PDF output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("expected PDF magic header, got %q", data[:8])
	}
}

func TestFontCandidates_ConfiguredPathFirst(t *testing.T) {
	g := NewGenerator("/opt/fonts/Custom.ttf")
	paths := g.fontCandidates()
	if paths[0] != "/opt/fonts/Custom.ttf" {
		t.Errorf("expected configured font path first, got %s", paths[0])
	}
	if len(paths) != 4 {
		t.Errorf("expected 4 candidate paths, got %d", len(paths))
	}
}
