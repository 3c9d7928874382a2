package triage

import (
	"strings"
)

// ExtractEntities scans note text against the lexicon's entity patterns in
// fixed table order. Matching is case-insensitive; the first match per label
// wins and the result is capped at MaxEntities. Empty or unmatched input
// yields an empty slice, never nil.
func ExtractEntities(lex *Lexicon, text string) []EntityMatch {
	matches := []EntityMatch{}
	if strings.TrimSpace(text) == "" {
		return matches
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(lex.Entities))

	for _, p := range lex.Entities {
		if len(matches) >= MaxEntities {
			break
		}
		if seen[p.Label] {
			continue
		}
		if !patternMatches(p, lower, text) {
			continue
		}
		seen[p.Label] = true
		matches = append(matches, EntityMatch{Label: p.Label, Icon: p.Icon, ColorTag: p.ColorTag})
	}
	return matches
}

func patternMatches(p EntityPattern, lower, original string) bool {
	for _, term := range p.Terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	if p.Pattern != nil && p.Pattern.MatchString(original) {
		return true
	}
	return false
}

// entityLabels returns the set of extracted labels for rule predicates.
func entityLabels(entities []EntityMatch) map[string]bool {
	set := make(map[string]bool, len(entities))
	for _, e := range entities {
		set[e.Label] = true
	}
	return set
}
