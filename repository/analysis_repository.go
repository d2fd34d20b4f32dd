package repository

import (
	"context"

	"contractguard-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles database operations for contract analyses
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create creates a new contract analysis record
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.ContractAnalysis) error {
	query := `
		INSERT INTO contract_analyses (
			id, user_id, file_id, contract_name, status, current_step,
			steps, report, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	// Report is nil until the run completes; avoid passing a typed nil Valuer
	var report interface{}
	if analysis.Report != nil {
		report = *analysis.Report
	}

	err := r.db.QueryRow(
		ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.FileID,
		analysis.ContractName,
		analysis.Status,
		analysis.CurrentStep,
		analysis.Steps,
		report,
		analysis.ErrorMessage,
	).Scan(&analysis.CreatedAt, &analysis.UpdatedAt)

	return err
}

// GetByID retrieves a contract analysis by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContractAnalysis, error) {
	analysis := &models.ContractAnalysis{}
	query := `
		SELECT id, user_id, file_id, contract_name, status, current_step,
			steps, report, error_message, created_at, updated_at, completed_at
		FROM contract_analyses
		WHERE id = $1`

	var report models.AnalysisReport
	err := r.db.QueryRow(ctx, query, id).Scan(
		&analysis.ID,
		&analysis.UserID,
		&analysis.FileID,
		&analysis.ContractName,
		&analysis.Status,
		&analysis.CurrentStep,
		&analysis.Steps,
		&report,
		&analysis.ErrorMessage,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
		&analysis.CompletedAt,
	)

	if err != nil {
		return nil, err
	}

	// A report only exists once the run completed
	if analysis.Status == models.AnalysisStatusCompleted {
		analysis.Report = &report
	}

	if analysis.Steps == nil {
		analysis.Steps = make(models.AnalysisSteps, 0)
	}

	return analysis, nil
}

// ListByUserID retrieves all analyses for a user, newest first
func (r *AnalysisRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.ContractAnalysis, error) {
	query := `
		SELECT id, user_id, file_id, contract_name, status, current_step,
			steps, report, error_message, created_at, updated_at, completed_at
		FROM contract_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := make([]*models.ContractAnalysis, 0)
	for rows.Next() {
		analysis := &models.ContractAnalysis{}
		var report models.AnalysisReport
		err := rows.Scan(
			&analysis.ID,
			&analysis.UserID,
			&analysis.FileID,
			&analysis.ContractName,
			&analysis.Status,
			&analysis.CurrentStep,
			&analysis.Steps,
			&report,
			&analysis.ErrorMessage,
			&analysis.CreatedAt,
			&analysis.UpdatedAt,
			&analysis.CompletedAt,
		)
		if err != nil {
			return nil, err
		}

		if analysis.Status == models.AnalysisStatusCompleted {
			analysis.Report = &report
		}
		if analysis.Steps == nil {
			analysis.Steps = make(models.AnalysisSteps, 0)
		}

		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}

// UpdateStatus updates the status of a contract analysis
func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AnalysisStatus) error {
	query := `
		UPDATE contract_analyses SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateProgress updates the current step and step list of an analysis
func (r *AnalysisRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AnalysisSteps) error {
	query := `
		UPDATE contract_analyses SET
			current_step = $2,
			steps = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps)
	return err
}

// Complete stores the final report and marks the analysis as completed
func (r *AnalysisRepository) Complete(ctx context.Context, id uuid.UUID, report *models.AnalysisReport) error {
	query := `
		UPDATE contract_analyses SET
			status = $2,
			report = $3,
			steps = (
				SELECT COALESCE(jsonb_agg(jsonb_set(step, '{status}', '"completed"')), '[]'::jsonb)
				FROM jsonb_array_elements(steps) AS step
			),
			current_step = NULL,
			error_message = NULL,
			updated_at = NOW(),
			completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.AnalysisStatusCompleted, report)
	return err
}

// Fail marks an analysis as failed with an error message
func (r *AnalysisRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE contract_analyses SET
			status = $2,
			error_message = $3,
			updated_at = NOW(),
			completed_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.AnalysisStatusFailed, errorMessage)
	return err
}
