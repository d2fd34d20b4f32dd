package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJudgmentRecord() map[string]interface{} {
	return map[string]interface{}{
		"clause":             "The Supplier shall have unlimited liability.",
		"risk_type":          "Liability",
		"risk_score":         8.0,
		"reasoning":          "Unlimited liability exposes the supplier to unbounded claims.",
		"suggested_revision": "Cap liability at 12 months of fees.",
		"confidence":         0.95,
	}
}

func TestValidateJudgmentsAcceptsValidBatch(t *testing.T) {
	first := validJudgmentRecord()
	second := validJudgmentRecord()
	second["clause"] = "Either party may terminate without notice."
	second["risk_type"] = "Termination"
	second["risk_score"] = 4
	second["confidence"] = 0.85

	judgments, err := ValidateJudgments([]interface{}{first, second})
	require.NoError(t, err)
	require.Len(t, judgments, 2)

	assert.Equal(t, "The Supplier shall have unlimited liability.", judgments[0].Clause)
	assert.Equal(t, "Liability", judgments[0].RiskType)
	assert.Equal(t, 8.0, judgments[0].RiskScore)
	assert.Equal(t, 0.95, judgments[0].Confidence)
	assert.Equal(t, "Termination", judgments[1].RiskType)
	assert.Equal(t, 4.0, judgments[1].RiskScore)
}

func TestValidateJudgmentsRejectsMissingFields(t *testing.T) {
	// One field present, five missing
	judgments, err := ValidateJudgments([]interface{}{
		map[string]interface{}{"clause": "bad"},
	})
	require.Error(t, err)
	assert.Nil(t, judgments)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, validationErr.Index)
	assert.ElementsMatch(t,
		[]string{"risk_type", "risk_score", "reasoning", "suggested_revision", "confidence"},
		validationErr.Missing,
	)
	assert.Contains(t, err.Error(), "index 0")
	assert.Contains(t, err.Error(), "risk_type")
}

func TestValidateJudgmentsReportsOffendingIndex(t *testing.T) {
	bad := validJudgmentRecord()
	delete(bad, "confidence")

	_, err := ValidateJudgments([]interface{}{validJudgmentRecord(), validJudgmentRecord(), bad})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 2, validationErr.Index)
	assert.Equal(t, []string{"confidence"}, validationErr.Missing)
}

func TestValidateJudgmentsRejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   interface{}
		wantMsg string
	}{
		{"string risk_score", "risk_score", "8", "'risk_score' must be a number"},
		{"bool risk_score", "risk_score", true, "'risk_score' must be a number"},
		{"string confidence", "confidence", "high", "'confidence' must be a number"},
		{"numeric clause", "clause", 7.0, "'clause' must be a string"},
		{"numeric risk_type", "risk_type", 1, "'risk_type' must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := validJudgmentRecord()
			record[tt.field] = tt.value

			_, err := ValidateJudgments([]interface{}{record})

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, 0, validationErr.Index)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateJudgmentsRejectsNonObjectRecord(t *testing.T) {
	tests := []struct {
		name string
		item interface{}
	}{
		{"scalar", "just a string"},
		{"number", 3.0},
		{"nested array", []interface{}{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJudgments([]interface{}{tt.item})

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, 0, validationErr.Index)
			assert.Contains(t, err.Error(), "not an object")
		})
	}
}

func TestValidateJudgmentsFailFastInvalidatesWholeBatch(t *testing.T) {
	bad := validJudgmentRecord()
	bad["risk_score"] = "not a number"

	judgments, err := ValidateJudgments([]interface{}{validJudgmentRecord(), bad, validJudgmentRecord()})

	require.Error(t, err)
	assert.Nil(t, judgments)
}

func TestValidateJudgmentsDoesNotClampOutOfRangeValues(t *testing.T) {
	record := validJudgmentRecord()
	record["risk_score"] = 15.0
	record["confidence"] = 2.0

	judgments, err := ValidateJudgments([]interface{}{record})
	require.NoError(t, err)
	require.Len(t, judgments, 1)

	// Range enforcement is deliberately absent; values pass through unchanged
	assert.Equal(t, 15.0, judgments[0].RiskScore)
	assert.Equal(t, 2.0, judgments[0].Confidence)
}

func TestValidateJudgmentsEmptyBatch(t *testing.T) {
	judgments, err := ValidateJudgments([]interface{}{})
	require.NoError(t, err)
	assert.Empty(t, judgments)
	assert.NotNil(t, judgments)
}

func TestDecodeRawJudgments(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLen int
		wantErr bool
	}{
		{"plain array", `[{"clause":"a"}]`, 1, false},
		{"fenced array", "```json\n[{\"clause\":\"a\"},{\"clause\":\"b\"}]\n```", 2, false},
		{"empty array", `[]`, 0, false},
		{"not json", "the contract looks fine to me", 0, true},
		{"object instead of array", `{"clauses":[]}`, 0, true},
		{"bare string", `"ok"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := decodeRawJudgments(tt.raw)
			if tt.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Equal(t, -1, validationErr.Index)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.wantLen)
		})
	}
}

func TestNumericValue(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOK bool
	}{
		{"float64", 8.5, 8.5, true},
		{"int", 8, 8.0, true},
		{"int64", int64(3), 3.0, true},
		{"string", "8", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numericValue(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
