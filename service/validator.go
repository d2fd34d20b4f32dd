package service

import (
	"encoding/json"
	"fmt"

	"contractguard-backend/models"
)

// requiredFields are the fields every clause judgment object must carry.
// This is the wire contract with the risk analysis stage.
var requiredFields = []string{
	"clause",
	"risk_type",
	"risk_score",
	"reasoning",
	"suggested_revision",
	"confidence",
}

// decodeRawJudgments parses the risk analysis response into its raw untyped
// form. The model output is untrusted free text; anything that is not a JSON
// array fails here with a batch-level ValidationError.
func decodeRawJudgments(raw string) ([]interface{}, error) {
	cleaned := stripCodeFence(raw)

	var decoded interface{}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, &ValidationError{Index: -1, Reason: fmt.Sprintf("response is not valid JSON: %v", err)}
	}

	items, ok := decoded.([]interface{})
	if !ok {
		return nil, &ValidationError{Index: -1, Reason: "response must be a JSON array of clause judgments"}
	}

	return items, nil
}

// ValidateJudgments converts the raw decoded response into typed clause
// judgments. One defective record invalidates the whole batch: downstream
// aggregation assumes every record is trustworthy. Values pass through
// unchanged on success; out-of-range scores are not clamped or rejected here.
func ValidateJudgments(items []interface{}) ([]models.ClauseJudgment, error) {
	judgments := make([]models.ClauseJudgment, 0, len(items))

	for index, item := range items {
		record, ok := item.(map[string]interface{})
		if !ok {
			return nil, &ValidationError{Index: index, Reason: "record is not an object"}
		}

		var missing []string
		for _, field := range requiredFields {
			if _, ok := record[field]; !ok {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			return nil, &ValidationError{Index: index, Missing: missing}
		}

		riskScore, ok := numericValue(record["risk_score"])
		if !ok {
			return nil, &ValidationError{Index: index, Reason: "field 'risk_score' must be a number"}
		}

		confidence, ok := numericValue(record["confidence"])
		if !ok {
			return nil, &ValidationError{Index: index, Reason: "field 'confidence' must be a number"}
		}

		judgment := models.ClauseJudgment{
			RiskScore:  riskScore,
			Confidence: confidence,
		}

		stringFields := []struct {
			name string
			dest *string
		}{
			{"clause", &judgment.Clause},
			{"risk_type", &judgment.RiskType},
			{"reasoning", &judgment.Reasoning},
			{"suggested_revision", &judgment.SuggestedRevision},
		}
		for _, field := range stringFields {
			value, ok := record[field.name].(string)
			if !ok {
				return nil, &ValidationError{Index: index, Reason: fmt.Sprintf("field '%s' must be a string", field.name)}
			}
			*field.dest = value
		}

		judgments = append(judgments, judgment)
	}

	return judgments, nil
}

// numericValue reports whether v carries a JSON-compatible numeric value.
// Unmarshalled JSON numbers arrive as float64; int variants cover records
// built programmatically.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
