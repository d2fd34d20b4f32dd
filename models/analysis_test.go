package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLevelLow},
		{3.9, RiskLevelLow},
		{4, RiskLevelMedium},
		{6.9, RiskLevelMedium},
		{7, RiskLevelHigh},
		{10, RiskLevelHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelFor(tt.score), "score %.1f", tt.score)
	}
}

func TestAnalysisReportJSONBRoundTrip(t *testing.T) {
	report := AnalysisReport{
		OverallRiskScore: 6.0,
		HighestRiskClause: &ClauseJudgment{
			Clause:    "C1",
			RiskType:  "Liability",
			RiskScore: 8,
		},
		RiskDistribution: map[string]int{"Liability": 1, "Financial": 1},
		Clauses: []ClauseJudgment{
			{Clause: "C1", RiskType: "Liability", RiskScore: 8, Confidence: 0.95},
			{Clause: "C2", RiskType: "Financial", RiskScore: 4, Confidence: 0.85},
		},
	}

	value, err := report.Value()
	require.NoError(t, err)

	var decoded AnalysisReport
	require.NoError(t, decoded.Scan(value))

	assert.Equal(t, report, decoded)
}

func TestAnalysisReportScanNil(t *testing.T) {
	var report AnalysisReport
	require.NoError(t, report.Scan(nil))
	assert.Zero(t, report.OverallRiskScore)
	assert.Nil(t, report.HighestRiskClause)
}

func TestAnalysisStepsScan(t *testing.T) {
	t.Run("nil yields empty slice", func(t *testing.T) {
		var steps AnalysisSteps
		require.NoError(t, steps.Scan(nil))
		assert.NotNil(t, steps)
		assert.Empty(t, steps)
	})

	t.Run("bytes decode", func(t *testing.T) {
		var steps AnalysisSteps
		require.NoError(t, steps.Scan([]byte(`[{"name":"Extracting Clauses","status":"completed"}]`)))
		require.Len(t, steps, 1)
		assert.Equal(t, "Extracting Clauses", steps[0].Name)
	})

	t.Run("string decodes", func(t *testing.T) {
		var steps AnalysisSteps
		require.NoError(t, steps.Scan(`[{"name":"Analyzing Risk","status":"pending"}]`))
		require.Len(t, steps, 1)
		assert.Equal(t, "pending", steps[0].Status)
	})
}
