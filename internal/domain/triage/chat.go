package triage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const emergencyResponse = "This sounds like a medical emergency. I cannot help with this over chat. " +
	"Call your local emergency number immediately or go to the nearest emergency department. " +
	"A human clinician must assess you now."

const symptomQueryResponse = "I'd like to understand your symptoms better. " +
	"How long have you had them, how severe are they on a scale of 1-10, " +
	"and have you noticed anything that makes them better or worse?"

const greetingResponse = "Hello! I can help you log your vitals, review your readings, " +
	"or talk through symptoms you're noticing. What would you like to do?"

const defaultResponse = "I can help with logging health readings and reviewing symptoms. " +
	"Tell me how you're feeling today, or share a reading like your blood pressure."

const demoLowResponse = "Here's a sample low-risk summary: your readings are in a routine range, " +
	"no concerning symptoms were reported, and a standard follow-up in 3 months is suggested."

const demoHighResponse = "Here's a sample high-risk summary: " + EscalationMessage +
	" A clinician review has been flagged as required."

var (
	reChatBP        = regexp.MustCompile(`\b(\d{2,3})\s*/\s*(\d{2,3})\b`)
	reChatHeartRate = regexp.MustCompile(`(?i)(?:heart rate|pulse|hr)\D{0,5}(\d{2,3})`)
	reChatTemp      = regexp.MustCompile(`(?i)(?:temp(?:erature)?)\D{0,5}(\d{2,3}(?:\.\d)?)`)
)

// Classifier routes a free-text chat message into the engine's risk
// vocabulary. Classification is single-turn: history is read-only context.
type Classifier struct {
	lex         *Lexicon
	demoEnabled bool
	now         func() time.Time
}

// NewClassifier builds a classifier over the given lexicon. Demo triggers are
// a demonstration seam; pass demoEnabled=false to disable them entirely in a
// production build.
func NewClassifier(lex *Lexicon, demoEnabled bool) *Classifier {
	return &Classifier{lex: lex, demoEnabled: demoEnabled, now: time.Now}
}

// Classify produces exactly one response for any input; there is no
// unclassifiable message. Priority order is strict and deterministic:
// emergency, demo trigger, structured vitals, symptom query, greeting, default.
func (c *Classifier) Classify(req ChatRequest) ChatResponse {
	message := req.Message
	lower := strings.ToLower(message)
	trimmed := strings.TrimSpace(lower)

	// Emergency check always runs first and short-circuits everything else.
	for _, term := range c.lex.EmergencyTerms {
		if strings.Contains(lower, term) {
			return c.respond(IntentEmergency, TierHigh, true, emergencyResponse, map[string]string{
				"matched_term": term,
			})
		}
	}

	if c.demoEnabled {
		if tier, ok := c.lex.DemoTriggers[trimmed]; ok {
			if tier == TierHigh {
				return c.respond(IntentDemoHigh, TierHigh, true, demoHighResponse, nil)
			}
			return c.respond(IntentDemoLow, TierLow, false, demoLowResponse, nil)
		}
	}

	if obs, ok := parseVitalsBlock(message); ok {
		return c.classifyVitals(obs)
	}

	for _, term := range c.lex.SymptomTerms {
		if containsWord(lower, term) {
			return c.respond(IntentSymptomQuery, TierLow, false, symptomQueryResponse, nil)
		}
	}

	for _, term := range c.lex.GreetingTerms {
		if containsWord(lower, term) {
			return c.respond(IntentGreeting, TierLow, false, greetingResponse, nil)
		}
	}

	return c.respond(IntentDefault, TierLow, false, defaultResponse, nil)
}

// classifyVitals routes a recognizable vitals block through the same risk
// scorer used for logged observations and renders a tier narrative.
func (c *Classifier) classifyVitals(obs HealthObservation) ChatResponse {
	entities := ExtractEntities(c.lex, obs.Symptoms+" "+obs.Notes)
	res := ScoreRisk(c.lex, obs, entities)

	meta := map[string]string{"risk_score": fmt.Sprintf("%d", res.Score)}
	if res.Tier == TierHigh {
		text := "Based on the readings you shared, some values are in a high-risk range. " + EscalationMessage
		return c.respond(IntentSymptomQuery, TierHigh, true, text, meta)
	}

	text := "Thanks for sharing your readings. They look within a manageable range. " +
		"Keep logging them daily, and let me know if any symptoms appear."
	if res.Tier == TierMedium {
		text = "Some of the readings you shared are outside the expected range. " +
			"Please re-check them over the next couple of days and consider booking a clinician review."
	}
	return c.respond(IntentSymptomQuery, res.Tier, false, text, meta)
}

func (c *Classifier) respond(intent ChatIntent, tier RiskTier, human bool, text string, meta map[string]string) ChatResponse {
	return ChatResponse{
		Text:                   text,
		Intent:                 intent,
		RiskTier:               tier,
		RequiresHumanClinician: human,
		Timestamp:              c.now().UTC(),
		Metadata:               meta,
	}
}

// parseVitalsBlock recognizes a structured self-introduction: at minimum a
// blood pressure reading, optionally heart rate and temperature.
func parseVitalsBlock(message string) (HealthObservation, bool) {
	var obs HealthObservation
	m := reChatBP.FindStringSubmatch(message)
	if m == nil {
		return obs, false
	}
	obs.BloodPressure = m[1] + "/" + m[2]

	if hm := reChatHeartRate.FindStringSubmatch(message); hm != nil {
		if v, err := parseInt(hm[1]); err == nil {
			obs.HeartRate = &v
		}
	}
	if tm := reChatTemp.FindStringSubmatch(message); tm != nil {
		if v, err := parseFloat(tm[1]); err == nil {
			obs.Temperature = &v
		}
	}
	obs.Notes = message
	return obs, true
}

// containsWord matches term on word boundaries so short greetings do not fire
// inside unrelated words.
func containsWord(text, term string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '\''
}

func parseInt(s string) (int, error)       { return strconv.Atoi(s) }
func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
