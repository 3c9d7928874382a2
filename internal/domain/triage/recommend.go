package triage

// EscalationMessage is the mandatory HIGH-tier instruction. Once a HIGH tier
// or emergency intent fires this text is never suppressed or rephrased away.
const EscalationMessage = "Your reported signs need prompt medical attention. Please contact a clinician now, or call your local emergency number if symptoms are worsening."

// Recommendation is the tier-driven output before directory resolution.
// SpecialistKey and WantHospitals are routing requests for the caller's
// directory collaborator; the engine itself performs no lookups.
type Recommendation struct {
	Insights        []string
	Recommendations []string
	NeedsSpecialist bool
	SpecialistKey   string
	WantHospitals   bool
}

// BuildRecommendations maps a risk result and the caller-supplied entitlement
// gates to guidance. Closed gates drop the matching section; they never error.
// At TierHigh the engine only informs, routes, and escalates - it never offers
// to consult in place of a clinician.
func BuildRecommendations(lex *Lexicon, res RiskResult, ent Entitlements) Recommendation {
	rec := Recommendation{
		Insights:        []string{},
		Recommendations: []string{},
	}

	switch res.Tier {
	case TierLow:
		rec.Insights = append(rec.Insights, "Your readings are within a routine range.")
		rec.Recommendations = append(rec.Recommendations,
			"Keep logging your vitals and symptoms daily.",
			"Stay hydrated and keep up regular light activity.",
			"Schedule a routine follow-up within the next 3 months.",
		)
	case TierMedium:
		rec.Insights = append(rec.Insights, "Some of your readings are outside the expected range.")
		rec.Recommendations = append(rec.Recommendations,
			"Re-check the flagged vitals over the next 2-3 days.",
			"Reduce salt intake and avoid strenuous exertion until readings settle.",
			"Book a review with a clinician within the next 1-2 weeks.",
		)
		if ent.SpecialistMatches {
			rec.NeedsSpecialist = true
			rec.SpecialistKey = routeSpecialty(lex, res)
			rec.Recommendations = append(rec.Recommendations,
				"A specialist review may help; suggested matches are included below.")
		}
	case TierHigh:
		rec.Insights = append(rec.Insights, "One or more signals in this report are high-severity.")
		rec.Recommendations = append(rec.Recommendations, EscalationMessage)
		if ent.SpecialistMatches {
			rec.NeedsSpecialist = true
			rec.SpecialistKey = routeSpecialty(lex, res)
		}
		if ent.HospitalMatches {
			rec.WantHospitals = true
		}
	}

	return rec
}

// routeSpecialty picks the directory key for the most specific signal that
// fired: overrides take precedence over accumulated predicates.
func routeSpecialty(lex *Lexicon, res RiskResult) string {
	for _, name := range res.Overrides {
		if key, ok := lex.Routing[name]; ok {
			return key
		}
	}
	for _, name := range res.Fired {
		if key, ok := lex.Routing[name]; ok {
			return key
		}
	}
	return lex.RoutingDefault
}
