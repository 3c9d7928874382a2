package triage

import (
	"strings"
)

// SuggestCodes evaluates the cascading code rules against extracted entities
// and the optional specialty context. Rules fire independently in table order
// (cascades are additive); ExcludeAny expresses explicit "else" precedence.
// An empty result is a legitimate outcome.
func SuggestCodes(lex *Lexicon, entities []EntityMatch, specialty, noteText string) []CodeSuggestion {
	suggestions := []CodeSuggestion{}
	labels := entityLabels(entities)
	lowerNote := strings.ToLower(noteText)
	lowerSpecialty := strings.ToLower(strings.TrimSpace(specialty))

	for _, rule := range lex.Codes {
		if !ruleFires(rule, labels, lowerSpecialty, lowerNote) {
			continue
		}
		suggestions = append(suggestions, CodeSuggestion{
			System:      rule.System,
			Code:        rule.Code,
			Description: rule.Description,
			Confidence:  rule.Confidence,
			Rationale:   rule.Rationale,
		})
	}
	return suggestions
}

func ruleFires(rule CodeRule, labels map[string]bool, specialty, note string) bool {
	for _, label := range rule.ExcludeAny {
		if labels[label] {
			return false
		}
	}
	for _, label := range rule.RequireAll {
		if !labels[label] {
			return false
		}
	}
	if len(rule.RequireAny) > 0 {
		any := false
		for _, label := range rule.RequireAny {
			if labels[label] {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}

	// Context rules: an entity-free rule needs specialty or keyword support.
	if len(rule.Specialties) > 0 || len(rule.Keywords) > 0 {
		if !contextMatches(rule, specialty, note) {
			return false
		}
	}
	return len(rule.RequireAll) > 0 || len(rule.RequireAny) > 0 ||
		len(rule.Specialties) > 0 || len(rule.Keywords) > 0
}

func contextMatches(rule CodeRule, specialty, note string) bool {
	for _, s := range rule.Specialties {
		if specialty != "" && specialty == strings.ToLower(s) {
			return true
		}
	}
	for _, kw := range rule.Keywords {
		if note != "" && strings.Contains(note, kw) {
			return true
		}
	}
	return false
}
