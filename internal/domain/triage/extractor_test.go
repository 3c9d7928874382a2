package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEntities_EmptyInput(t *testing.T) {
	lex := DefaultLexicon()

	for _, text := range []string{"", "   ", "\t\n"} {
		matches := ExtractEntities(lex, text)
		require.NotNil(t, matches)
		assert.Empty(t, matches)
	}
}

func TestExtractEntities_CaseInsensitive(t *testing.T) {
	lex := DefaultLexicon()

	matches := ExtractEntities(lex, "Patient reports CHEST PAIN and a Headache")
	labels := matchLabels(matches)
	assert.Contains(t, labels, "Chest Pain")
	assert.Contains(t, labels, "Headache")
}

func TestExtractEntities_DeduplicatesPerLabel(t *testing.T) {
	lex := DefaultLexicon()

	matches := ExtractEntities(lex, "dizzy and dizzy again, also vertigo and lightheaded")
	count := 0
	for _, m := range matches {
		if m.Label == "Dizziness" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractEntities_RegexPatterns(t *testing.T) {
	lex := DefaultLexicon()

	matches := ExtractEntities(lex, "ECG shows ST-elevation, BP recorded at 150/95")
	labels := matchLabels(matches)
	assert.Contains(t, labels, "STEMI")
	assert.Contains(t, labels, "Hypertension")
}

func TestExtractEntities_CapsAtMaxEntities(t *testing.T) {
	lex := DefaultLexicon()

	text := strings.Join([]string{
		"stemi", "chest pain", "shortness of breath", "bleeding",
		"hypertension", "tachycardia", "fever", "cough", "headache",
		"dizziness", "nausea", "diabetes", "fracture", "rash",
	}, ", ")
	matches := ExtractEntities(lex, text)
	require.Len(t, matches, MaxEntities)

	// Table order is preserved up to the cap.
	assert.Equal(t, "STEMI", matches[0].Label)
	assert.Equal(t, "Dizziness", matches[len(matches)-1].Label)
}

func TestExtractEntities_KeepsIconAndColor(t *testing.T) {
	lex := DefaultLexicon()

	matches := ExtractEntities(lex, "fever since yesterday")
	require.Len(t, matches, 1)
	assert.Equal(t, "Fever", matches[0].Label)
	assert.Equal(t, "thermometer", matches[0].Icon)
	assert.Equal(t, "orange", matches[0].ColorTag)
}

func matchLabels(matches []EntityMatch) []string {
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		labels = append(labels, m.Label)
	}
	return labels
}
