package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AnalysisStatus represents the status of a contract analysis
type AnalysisStatus string

const (
	AnalysisStatusPending    AnalysisStatus = "pending"
	AnalysisStatusInProgress AnalysisStatus = "in_progress"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// RiskLevel buckets a 0-10 risk score into the bands the dashboard renders
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskLevelFor returns the risk level band for a 0-10 risk score
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score < 4:
		return RiskLevelLow
	case score < 7:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

// ClauseJudgment is one model-produced risk verdict for one contract clause.
// Every field must be present in the raw model output before a judgment is
// accepted; see service.ValidateJudgments.
type ClauseJudgment struct {
	Clause            string  `json:"clause"`
	RiskType          string  `json:"risk_type"`
	RiskScore         float64 `json:"risk_score"`
	Reasoning         string  `json:"reasoning"`
	SuggestedRevision string  `json:"suggested_revision"`
	Confidence        float64 `json:"confidence"`
}

// AnalysisReport is the final output of one analysis run.
// HighestRiskClause is nil when no clauses were found; RiskDistribution keys
// are the literal risk-type labels returned by the model.
type AnalysisReport struct {
	OverallRiskScore  float64          `json:"overall_risk_score"`
	HighestRiskClause *ClauseJudgment  `json:"highest_risk_clause"`
	RiskDistribution  map[string]int   `json:"risk_distribution"`
	Clauses           []ClauseJudgment `json:"clauses"`
}

// Value implements driver.Valuer for JSONB
func (r AnalysisReport) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *AnalysisReport) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// AnalysisStep represents a step in the analysis pipeline
type AnalysisStep struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "pending", "in_progress", "completed", "failed"
}

// AnalysisSteps represents the ordered pipeline steps of an analysis
type AnalysisSteps []AnalysisStep

// Value implements driver.Valuer for JSONB
func (s AnalysisSteps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *AnalysisSteps) Scan(value interface{}) error {
	if value == nil {
		*s = make(AnalysisSteps, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = make(AnalysisSteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*s = make(AnalysisSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// ContractAnalysis represents one analysis run over one contract document
type ContractAnalysis struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	FileID       *uuid.UUID      `json:"file_id,omitempty"`
	ContractName string          `json:"contract_name"`
	Status       AnalysisStatus  `json:"status"`
	CurrentStep  *string         `json:"current_step,omitempty"`
	Steps        AnalysisSteps   `json:"steps"`
	Report       *AnalysisReport `json:"report,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}
