package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// buildClauseExtractionPrompt builds the prompt for the clause extraction
// stage: segment the contract into discrete provisions.
func buildClauseExtractionPrompt(contractText string) string {
	return fmt.Sprintf(`You are an expert contract attorney reviewing a legal agreement.

CONTRACT TEXT:
%s

TASK:
Segment the contract above into its discrete clauses. A clause is a single
contractual provision (e.g., a limitation of liability, a termination right,
an indemnification obligation). Preserve the original wording of each clause.

OUTPUT REQUIREMENTS:
- Return ONLY a JSON array of strings, one string per clause
- Do not merge unrelated provisions into one clause
- Do not add commentary, numbering, or markdown outside the JSON array

Example output:
["The Supplier shall indemnify the Customer against all claims...", "Either party may terminate this Agreement upon thirty (30) days notice..."]

Return the JSON array now:`, contractText)
}

// buildRiskAnalysisPrompt builds the prompt for the risk analysis stage: one
// structured judgment per extracted clause. The six-field object shape is the
// wire contract enforced downstream by ValidateJudgments.
func buildRiskAnalysisPrompt(clauses []string) string {
	var clauseList strings.Builder
	for i, clause := range clauses {
		clauseList.WriteString(fmt.Sprintf("%d. %s\n", i+1, clause))
	}

	return fmt.Sprintf(`You are an expert contract attorney performing a risk assessment.

CLAUSES UNDER REVIEW:
%s
TASK:
For EVERY clause listed above, produce one risk judgment object with exactly
these fields:

- "clause": the clause text being judged
- "risk_type": a short risk category label (e.g., "Liability", "Termination", "Financial", "Confidentiality")
- "risk_score": a number from 0 to 10, where 0 is no risk and 10 is severe risk
- "reasoning": a concise explanation of why the clause carries this risk
- "suggested_revision": a concrete rewording that would reduce the risk
- "confidence": a number from 0.0 to 1.0 expressing your confidence in this judgment

OUTPUT REQUIREMENTS:
- Return ONLY a JSON array of these objects, in the same order as the clauses
- Every object must contain all six fields
- risk_score and confidence must be JSON numbers, not strings
- Do not add commentary or markdown outside the JSON array

Return the JSON array now:`, clauseList.String())
}

// stripCodeFence removes a surrounding markdown code fence from model output.
// Gemini frequently wraps JSON answers in ```json ... ``` despite the prompt.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop a language tag on the opening fence line
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		first := strings.TrimSpace(trimmed[:idx])
		if first == "json" || first == "JSON" || first == "" {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")

	return strings.TrimSpace(trimmed)
}

// parseClauseList decodes the clause extraction response into a list of
// clause strings. Blank entries are dropped.
func parseClauseList(raw string) ([]string, error) {
	cleaned := stripCodeFence(raw)

	var clauses []string
	if err := json.Unmarshal([]byte(cleaned), &clauses); err != nil {
		return nil, fmt.Errorf("clause list is not a JSON array of strings: %w", err)
	}

	result := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause != "" {
			result = append(result, clause)
		}
	}

	return result, nil
}
