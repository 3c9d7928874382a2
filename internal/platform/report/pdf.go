// Package report renders a completed assessment as a downloadable PDF.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"

	"github.com/caresense/caresense/internal/domain/triage"
)

const textWidth = 500

// Generator renders assessment PDFs. A configured font path takes priority;
// otherwise the common DejaVu install locations are probed.
type Generator struct {
	fontPath string
}

func NewGenerator(fontPath string) *Generator {
	return &Generator{fontPath: fontPath}
}

func (g *Generator) fontCandidates() []string {
	paths := []string{
		"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	}
	if g.fontPath != "" {
		return append([]string{g.fontPath}, paths...)
	}
	return paths
}

// Render produces a single-document PDF for one assessment.
func (g *Generator) Render(patientName string, assessedAt time.Time, a *triage.RiskAssessment) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range g.fontCandidates() {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("load report font (is ttf-dejavu installed?): %w", fontErr)
	}

	if err := pdf.SetFont("DejaVu", "", 20); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "Health Assessment Report")
	pdf.Br(30)

	if err := pdf.SetFont("DejaVu", "", 12); err != nil {
		return nil, err
	}
	pdf.Cell(nil, fmt.Sprintf("Patient: %s", patientName))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Assessed: %s", assessedAt.Format("02 Jan 2006 15:04")))
	pdf.Br(15)
	pdf.Cell(nil, fmt.Sprintf("Risk: %s (%d/100)", strings.ToUpper(string(a.RiskTier)), a.RiskScore))
	pdf.Br(25)

	if len(a.Entities) > 0 {
		if err := writeSection(&pdf, "Identified Conditions"); err != nil {
			return nil, err
		}
		for _, e := range a.Entities {
			writeLine(&pdf, fmt.Sprintf("- %s", e.Label))
		}
		pdf.Br(10)
	}

	if len(a.Codes) > 0 {
		if err := writeSection(&pdf, "Suggested Codes"); err != nil {
			return nil, err
		}
		for _, c := range a.Codes {
			writeLine(&pdf, fmt.Sprintf("- [%s %s] %s (confidence %d%%)", c.System, c.Code, c.Description, c.Confidence))
		}
		pdf.Br(10)
	}

	if len(a.Factors) > 0 {
		if err := writeSection(&pdf, "Risk Factors"); err != nil {
			return nil, err
		}
		for _, f := range a.Factors {
			writeLine(&pdf, fmt.Sprintf("- %s", f.Detail))
		}
		pdf.Br(10)
	}

	if len(a.Insights) > 0 {
		if err := writeSection(&pdf, "Insights"); err != nil {
			return nil, err
		}
		for _, line := range a.Insights {
			writeLine(&pdf, fmt.Sprintf("- %s", line))
		}
		pdf.Br(10)
	}

	if len(a.Recommendations) > 0 {
		if err := writeSection(&pdf, "Recommendations"); err != nil {
			return nil, err
		}
		for _, line := range a.Recommendations {
			writeLine(&pdf, fmt.Sprintf("- %s", line))
		}
		pdf.Br(10)
	}

	if len(a.SpecialistMatches) > 0 {
		if err := writeSection(&pdf, "Nearby Specialists"); err != nil {
			return nil, err
		}
		for _, m := range a.SpecialistMatches {
			writeLine(&pdf, fmt.Sprintf("- %s, %s (%.1f km, rating %.1f)", m.Name, m.Specialty, m.DistanceKm, m.Rating))
		}
		pdf.Br(10)
	}

	pdf.SetY(800)
	if err := pdf.SetFont("DejaVu", "", 9); err != nil {
		return nil, err
	}
	pdf.Cell(nil, "This report is informational and is not a medical diagnosis.")

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gopdf.GoPdf, title string) error {
	if err := pdf.SetFont("DejaVu", "", 14); err != nil {
		return err
	}
	pdf.Cell(nil, title)
	pdf.Br(15)
	return pdf.SetFont("DejaVu", "", 11)
}

func writeLine(pdf *gopdf.GoPdf, text string) {
	lines, _ := pdf.SplitText(text, textWidth)
	for _, l := range lines {
		pdf.Cell(nil, l)
		pdf.Br(12)
	}
	pdf.Br(3)
}
