package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestFor(t *testing.T, text, specialty string) []CodeSuggestion {
	t.Helper()
	lex := DefaultLexicon()
	entities := ExtractEntities(lex, text)
	return SuggestCodes(lex, entities, specialty, text)
}

func codeSet(suggestions []CodeSuggestion) map[string]bool {
	set := make(map[string]bool, len(suggestions))
	for _, s := range suggestions {
		set[s.Code] = true
	}
	return set
}

func TestSuggestCodes_StemiCascade(t *testing.T) {
	codes := codeSet(suggestFor(t, "crushing chest pain, ECG shows ST elevation", ""))

	assert.True(t, codes["I21.09"], "ICD-10 infarction code should fire")
	assert.True(t, codes["93010"], "ECG CPT code should cascade from the same entity")
	assert.False(t, codes["R07.9"], "unspecified chest pain is excluded once STEMI is present")
}

func TestSuggestCodes_ChestPainWithoutStemi(t *testing.T) {
	codes := codeSet(suggestFor(t, "intermittent chest pain after exertion", ""))

	assert.True(t, codes["R07.9"])
	assert.False(t, codes["I21.09"])
}

func TestSuggestCodes_FeverExcludedByURI(t *testing.T) {
	withURI := codeSet(suggestFor(t, "fever with cough and sore throat", ""))
	assert.True(t, withURI["J06.9"])
	assert.False(t, withURI["R50.9"], "fever code yields to the respiratory source")

	feverOnly := codeSet(suggestFor(t, "fever of unknown origin", ""))
	assert.True(t, feverOnly["R50.9"])
}

func TestSuggestCodes_ContextRule(t *testing.T) {
	suggestions := suggestFor(t, "routine follow up, doing well", "Primary Care")
	codes := codeSet(suggestions)
	require.True(t, codes["99213"])

	// Specialty comparison ignores case.
	codes = codeSet(suggestFor(t, "follow up visit", "primary care"))
	assert.True(t, codes["99213"])

	// Neither specialty nor keyword support: the context rule stays silent.
	codes = codeSet(suggestFor(t, "routine visit, doing well", "Cardiology"))
	assert.False(t, codes["99213"])
}

func TestSuggestCodes_EmptyResultIsLegitimate(t *testing.T) {
	suggestions := suggestFor(t, "feeling fine today", "")
	require.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}

func TestSuggestCodes_CarriesRuleFields(t *testing.T) {
	suggestions := suggestFor(t, "persistent headache", "")
	require.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.Equal(t, "ICD-10", s.System)
	assert.Equal(t, "R51.9", s.Code)
	assert.Equal(t, 70, s.Confidence)
	assert.NotEmpty(t, s.Rationale)
}
