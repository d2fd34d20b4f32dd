package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpstreamErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := &UpstreamError{Stage: "risk analysis", Err: cause}

	assert.Equal(t, "risk analysis stage failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestValidationErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			"batch level",
			&ValidationError{Index: -1, Reason: "response must be a JSON array of clause judgments"},
			"invalid analysis response: response must be a JSON array of clause judgments",
		},
		{
			"missing fields",
			&ValidationError{Index: 3, Missing: []string{"risk_score", "confidence"}},
			"item at index 3 missing fields: risk_score, confidence",
		},
		{
			"type mismatch",
			&ValidationError{Index: 0, Reason: "field 'risk_score' must be a number"},
			"item at index 0: field 'risk_score' must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestComputationErrorWrapsCause(t *testing.T) {
	cause := errors.New("count mismatch")
	err := &ComputationError{Err: cause}

	assert.Equal(t, "analytics computation failed: count mismatch", err.Error())
	assert.ErrorIs(t, err, cause)
}
