package service

import (
	"fmt"
	"math"

	"contractguard-backend/models"
)

// ComputeOverallRisk returns the arithmetic mean of all clause risk scores,
// rounded to 2 decimal places. An empty batch is a legitimate "no risky
// clauses found" outcome and scores exactly 0.0.
func ComputeOverallRisk(clauses []models.ClauseJudgment) float64 {
	if len(clauses) == 0 {
		return 0.0
	}

	total := 0.0
	for _, clause := range clauses {
		total += clause.RiskScore
	}

	average := total / float64(len(clauses))
	return math.Round(average*100) / 100
}

// ComputeHighestRiskClause returns the judgment with the maximum risk score,
// or nil for an empty batch. Ties resolve to the first occurrence in the
// validated order, so a fixed input always yields the same answer.
func ComputeHighestRiskClause(clauses []models.ClauseJudgment) *models.ClauseJudgment {
	if len(clauses) == 0 {
		return nil
	}

	highest := 0
	for i := 1; i < len(clauses); i++ {
		if clauses[i].RiskScore > clauses[highest].RiskScore {
			highest = i
		}
	}

	result := clauses[highest]
	return &result
}

// ComputeRiskDistribution counts clauses per risk-type label. Labels are used
// verbatim: "Liability" and "liability" are distinct categories, since the
// model output defines no normalization policy. Only an empty label falls
// back to "Unknown".
func ComputeRiskDistribution(clauses []models.ClauseJudgment) map[string]int {
	distribution := make(map[string]int)
	for _, clause := range clauses {
		riskType := clause.RiskType
		if riskType == "" {
			riskType = "Unknown"
		}
		distribution[riskType]++
	}

	return distribution
}

// buildReport assembles the final report from a validated batch. The
// distribution invariant is rechecked defensively; a violation means a bug in
// the analytics, not bad model output, and surfaces as a ComputationError.
func buildReport(clauses []models.ClauseJudgment) (*models.AnalysisReport, error) {
	report := &models.AnalysisReport{
		OverallRiskScore:  ComputeOverallRisk(clauses),
		HighestRiskClause: ComputeHighestRiskClause(clauses),
		RiskDistribution:  ComputeRiskDistribution(clauses),
		Clauses:           clauses,
	}

	counted := 0
	for _, count := range report.RiskDistribution {
		counted += count
	}
	if counted != len(clauses) {
		return nil, &ComputationError{
			Err: fmt.Errorf("distribution counts %d clauses, batch has %d", counted, len(clauses)),
		}
	}

	return report, nil
}
