package triage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RiskResult is the scorer output consumed by the recommendation generator.
type RiskResult struct {
	Score   int
	Tier    RiskTier
	Factors []RiskFactor

	// Fired lists every predicate and band name that contributed, in table
	// order; Overrides lists the hard-override terms or entities that matched.
	Fired     []string
	Overrides []string
}

var reBPValue = regexp.MustCompile(`^\s*(\d{2,3})\s*/\s*(\d{2,3})\s*$`)

// ScoreRisk evaluates the weighted predicate tables over one observation and
// its extracted entities. Each predicate contributes its fixed weight at most
// once; vitals bands are mutually exclusive per vital. Missing or unparsable
// vitals contribute nothing. Any hard-override match forces at least TierHigh.
func ScoreRisk(lex *Lexicon, obs HealthObservation, entities []EntityMatch) RiskResult {
	res := RiskResult{Factors: []RiskFactor{}}

	systolic, diastolic := resolveBloodPressure(obs)

	// Vitals bands, most severe band first, one hit per vital.
	res.applyBand(lex.SystolicBands, floatPtrFromInt(systolic))
	res.applyBand(lex.DiastolicBand, floatPtrFromInt(diastolic))
	res.applyBand(lex.HeartRateBand, floatPtrFromInt(obs.HeartRate))
	res.applyBand(lex.TempBands, obs.Temperature)

	symptomText := strings.ToLower(obs.Symptoms + " " + obs.Notes)
	historyText := strings.ToLower(obs.Condition + " " + obs.MedicalHistory)
	labels := entityLabels(entities)

	for _, p := range lex.Predicates {
		detail, fired := predicateFires(p, symptomText, historyText, labels)
		if !fired {
			continue
		}
		res.Score += p.Weight
		res.Fired = append(res.Fired, p.Name)
		res.Factors = append(res.Factors, RiskFactor{Name: p.Name, Detail: detail})
	}

	// Lifestyle and adherence signals.
	if obs.Smoked != nil && *obs.Smoked {
		res.Score += 5
		res.Fired = append(res.Fired, "smoking")
		res.Factors = append(res.Factors, RiskFactor{Name: "smoking", Detail: "smoking reported in this period"})
	}
	if obs.Adherence != nil && *obs.Adherence < 0.5 {
		res.Score += 10
		res.Fired = append(res.Fired, "low_adherence")
		res.Factors = append(res.Factors, RiskFactor{
			Name:   "low_adherence",
			Detail: fmt.Sprintf("medication adherence at %d%%", int(*obs.Adherence*100)),
		})
	}

	// Hard overrides: a single match forces at least TierHigh. Kept separate
	// from the weight table so partial evidence can never suppress it.
	for _, term := range lex.HardOverrideTerms {
		if strings.Contains(symptomText, term) {
			res.Overrides = append(res.Overrides, term)
		}
	}
	for _, label := range lex.HardOverrideEntities {
		if labels[label] {
			res.Overrides = append(res.Overrides, label)
		}
	}

	if res.Score > 100 {
		res.Score = 100
	}

	switch {
	case len(res.Overrides) > 0:
		res.Tier = TierHigh
		if res.Score < HighCutoff {
			res.Score = HighCutoff
		}
		res.Factors = append(res.Factors, RiskFactor{
			Name:   "severe_symptom_override",
			Detail: "high-severity signal: " + strings.Join(res.Overrides, ", "),
		})
	case res.Score >= HighCutoff:
		res.Tier = TierHigh
	case res.Score >= MediumCutoff:
		res.Tier = TierMedium
	default:
		res.Tier = TierLow
	}

	return res
}

func (r *RiskResult) applyBand(bands []VitalBand, value *float64) {
	if value == nil {
		return
	}
	for _, b := range bands {
		if *value > b.Min {
			r.Score += b.Weight
			r.Fired = append(r.Fired, b.Name)
			r.Factors = append(r.Factors, RiskFactor{Name: b.Name, Detail: b.Detail})
			return
		}
	}
}

func predicateFires(p RiskPredicate, symptoms, history string, labels map[string]bool) (string, bool) {
	for _, term := range p.Terms {
		if strings.Contains(symptoms, term) {
			return p.Detail, true
		}
	}
	for _, label := range p.Entities {
		if labels[label] {
			return p.Detail, true
		}
	}
	for _, term := range p.History {
		if strings.Contains(history, term) {
			return p.Detail, true
		}
	}
	return "", false
}

// resolveBloodPressure prefers the structured systolic/diastolic fields and
// falls back to parsing the raw "systolic/diastolic" string. An unparsable
// value is treated as absent.
func resolveBloodPressure(obs HealthObservation) (*int, *int) {
	systolic, diastolic := obs.Systolic, obs.Diastolic
	if systolic != nil || diastolic != nil {
		return systolic, diastolic
	}
	m := reBPValue.FindStringSubmatch(obs.BloodPressure)
	if m == nil {
		return nil, nil
	}
	sys, err1 := strconv.Atoi(m[1])
	dia, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &sys, &dia
}

func floatPtrFromInt(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
