package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no fence", `["a"]`, `["a"]`},
		{"json fence", "```json\n[\"a\"]\n```", `["a"]`},
		{"bare fence", "```\n[\"a\"]\n```", `["a"]`},
		{"uppercase tag", "```JSON\n[\"a\"]\n```", `["a"]`},
		{"surrounding whitespace", "  \n```json\n[\"a\"]\n```\n  ", `["a"]`},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFence(tt.raw))
		})
	}
}

func TestParseClauseList(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		clauses, err := parseClauseList(`["Clause one.", "Clause two."]`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Clause one.", "Clause two."}, clauses)
	})

	t.Run("drops blank entries", func(t *testing.T) {
		clauses, err := parseClauseList(`["Clause one.", "", "   "]`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Clause one."}, clauses)
	})

	t.Run("fenced list", func(t *testing.T) {
		clauses, err := parseClauseList("```json\n[\"Clause one.\"]\n```")
		require.NoError(t, err)
		assert.Equal(t, []string{"Clause one."}, clauses)
	})

	t.Run("rejects prose", func(t *testing.T) {
		_, err := parseClauseList("here are the clauses I found")
		assert.Error(t, err)
	})

	t.Run("rejects array of objects", func(t *testing.T) {
		_, err := parseClauseList(`[{"clause": "a"}]`)
		assert.Error(t, err)
	})
}

func TestBuildClauseExtractionPrompt(t *testing.T) {
	prompt := buildClauseExtractionPrompt("THE CONTRACT BODY")

	assert.Contains(t, prompt, "THE CONTRACT BODY")
	assert.Contains(t, prompt, "JSON array of strings")
}

func TestBuildRiskAnalysisPrompt(t *testing.T) {
	prompt := buildRiskAnalysisPrompt([]string{"Indemnity clause.", "Termination clause."})

	assert.Contains(t, prompt, "1. Indemnity clause.")
	assert.Contains(t, prompt, "2. Termination clause.")

	// The prompt spells out the full wire contract
	for _, field := range requiredFields {
		assert.True(t, strings.Contains(prompt, `"`+field+`"`), "prompt must name field %q", field)
	}
}
