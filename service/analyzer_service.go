package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"contractguard-backend/extract"
	"contractguard-backend/models"
	"contractguard-backend/repository"
	"contractguard-backend/storage"

	"github.com/google/uuid"
)

// AnalyzerService runs the contract analysis pipeline: clause extraction,
// risk analysis, response validation, and analytics aggregation. Each run is
// synchronous, single-threaded, and all-or-nothing: no stage is retried here
// and no partial report is ever returned.
type AnalyzerService struct {
	invoker      ModelInvoker
	analysisRepo *repository.AnalysisRepository
	fileRepo     *repository.FileRepository
	storage      storage.Storage
	extractor    extract.TextExtractor
}

// AnalyzerServiceOption is a functional option for AnalyzerService
type AnalyzerServiceOption func(*AnalyzerService)

// WithModelInvoker sets the model invoker
func WithModelInvoker(invoker ModelInvoker) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.invoker = invoker
	}
}

// WithAnalysisRepository sets the analysis repository
func WithAnalysisRepository(repo *repository.AnalysisRepository) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.analysisRepo = repo
	}
}

// WithFileRepository sets the file repository
func WithFileRepository(repo *repository.FileRepository) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.fileRepo = repo
	}
}

// WithStorage sets the document storage backend
func WithStorage(store storage.Storage) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.storage = store
	}
}

// WithTextExtractor sets the document text extractor
func WithTextExtractor(extractor extract.TextExtractor) AnalyzerServiceOption {
	return func(s *AnalyzerService) {
		s.extractor = extractor
	}
}

// NewAnalyzerService creates a new analyzer service
func NewAnalyzerService(opts ...AnalyzerServiceOption) *AnalyzerService {
	s := &AnalyzerService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pipeline stage names, in execution order
const (
	stepExtractClauses = "Extracting Clauses"
	stepAnalyzeRisk    = "Analyzing Risk"
	stepValidate       = "Validating Response"
	stepAggregate      = "Computing Analytics"
)

func pipelineSteps() models.AnalysisSteps {
	return models.AnalysisSteps{
		{Name: stepExtractClauses, Status: "pending"},
		{Name: stepAnalyzeRisk, Status: "pending"},
		{Name: stepValidate, Status: "pending"},
		{Name: stepAggregate, Status: "pending"},
	}
}

// Analyze runs the full pipeline over already-extracted contract text and
// returns the assembled report. Failures surface as *UpstreamError,
// *ValidationError, or *ComputationError so callers can branch on the kind.
func (s *AnalyzerService) Analyze(ctx context.Context, contractText string) (*models.AnalysisReport, error) {
	return s.analyze(ctx, contractText, nil)
}

// analyze is the pipeline core. progress, when non-nil, is called as each
// stage begins; it is a reporting hook only and cannot influence the run.
func (s *AnalyzerService) analyze(ctx context.Context, contractText string, progress func(step string)) (*models.AnalysisReport, error) {
	if strings.TrimSpace(contractText) == "" {
		return nil, ErrEmptyContract
	}
	if s.invoker == nil {
		return nil, ErrInvokerNotSet
	}

	report := func(step string) {
		if progress != nil {
			progress(step)
		}
	}

	// Stage 1: segment the contract into clauses
	report(stepExtractClauses)
	rawClauses, err := s.invoker.Invoke(ctx, buildClauseExtractionPrompt(contractText))
	if err != nil {
		return nil, &UpstreamError{Stage: "clause extraction", Err: err}
	}

	clauses, err := parseClauseList(rawClauses)
	if err != nil {
		return nil, &UpstreamError{Stage: "clause extraction", Err: err}
	}
	log.Printf("Clause extraction returned %d clauses", len(clauses))

	// Stage 2: obtain one structured judgment per clause. A contract with no
	// identifiable clauses legitimately yields an empty batch.
	var judgments []models.ClauseJudgment
	if len(clauses) > 0 {
		report(stepAnalyzeRisk)
		rawJudgments, err := s.invoker.Invoke(ctx, buildRiskAnalysisPrompt(clauses))
		if err != nil {
			return nil, &UpstreamError{Stage: "risk analysis", Err: err}
		}

		// Stage 3: validate the untrusted response before anything computes on it
		report(stepValidate)
		items, err := decodeRawJudgments(rawJudgments)
		if err != nil {
			return nil, err
		}
		judgments, err = ValidateJudgments(items)
		if err != nil {
			return nil, err
		}
	} else {
		report(stepAnalyzeRisk)
		report(stepValidate)
		judgments = make([]models.ClauseJudgment, 0)
	}

	// Stage 4: aggregate analytics over the validated batch
	report(stepAggregate)
	result, err := buildReport(judgments)
	if err != nil {
		return nil, err
	}

	log.Printf("Analysis complete: %d clauses, overall risk %.2f", len(result.Clauses), result.OverallRiskScore)
	return result, nil
}

// AnalyzeTextRequest represents a request to analyze raw contract text
type AnalyzeTextRequest struct {
	UserID       uuid.UUID
	FileID       *uuid.UUID
	ContractName string
	ContractText string
}

// AnalyzeFileRequest represents a request to analyze an uploaded document
type AnalyzeFileRequest struct {
	UserID       uuid.UUID
	FileID       uuid.UUID
	ContractName string
}

var (
	ErrAnalysisRepoNotSet = errors.New("analysis repository not set")
	ErrAnalysisNotFound   = errors.New("analysis not found")
	ErrFileNotFound       = errors.New("file not found")
)

// AnalyzeText runs the pipeline over the given text and persists the run as
// a ContractAnalysis record, tracking per-stage progress. The record is
// marked failed (with the error message) when any stage aborts the run.
func (s *AnalyzerService) AnalyzeText(ctx context.Context, req AnalyzeTextRequest) (*models.ContractAnalysis, error) {
	if s.analysisRepo == nil {
		return nil, ErrAnalysisRepoNotSet
	}

	analysis := &models.ContractAnalysis{
		ID:           uuid.New(),
		UserID:       req.UserID,
		FileID:       req.FileID,
		ContractName: req.ContractName,
		Status:       models.AnalysisStatusPending,
		Steps:        pipelineSteps(),
	}
	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("failed to create analysis record: %w", err)
	}

	if err := s.analysisRepo.UpdateStatus(ctx, analysis.ID, models.AnalysisStatusInProgress); err != nil {
		return nil, fmt.Errorf("failed to update analysis status: %w", err)
	}

	progress := func(step string) {
		if err := s.updateStepStatus(ctx, analysis, step); err != nil {
			log.Printf("Warning: Failed to update step %q for analysis %s: %v", step, analysis.ID, err)
		}
	}

	result, err := s.analyze(ctx, req.ContractText, progress)
	if err != nil {
		s.markAnalysisFailed(ctx, analysis.ID, err.Error())
		return nil, err
	}

	if err := s.analysisRepo.Complete(ctx, analysis.ID, result); err != nil {
		return nil, fmt.Errorf("failed to store analysis report: %w", err)
	}

	analysis.Status = models.AnalysisStatusCompleted
	analysis.Report = result
	analysis.CurrentStep = nil
	now := time.Now()
	analysis.CompletedAt = &now
	for i := range analysis.Steps {
		analysis.Steps[i].Status = "completed"
	}

	return analysis, nil
}

// AnalyzeFile downloads an uploaded contract document, extracts its text,
// and runs AnalyzeText over the result. Extraction failures propagate with
// the original cause attached.
func (s *AnalyzerService) AnalyzeFile(ctx context.Context, req AnalyzeFileRequest) (*models.ContractAnalysis, error) {
	if s.fileRepo == nil {
		return nil, errors.New("file repository not set")
	}
	if s.storage == nil {
		return nil, errors.New("storage not set")
	}
	if s.extractor == nil {
		return nil, errors.New("text extractor not set")
	}

	file, err := s.fileRepo.GetByID(ctx, req.FileID)
	if err != nil {
		return nil, ErrFileNotFound
	}

	document, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, &UpstreamError{Stage: "text extraction", Err: err}
	}
	defer document.Close()

	contractText, err := s.extractor.ExtractText(ctx, file.Filename, document)
	if err != nil {
		return nil, &UpstreamError{Stage: "text extraction", Err: err}
	}

	contractName := req.ContractName
	if contractName == "" {
		contractName = file.Filename
	}

	fileID := req.FileID
	return s.AnalyzeText(ctx, AnalyzeTextRequest{
		UserID:       req.UserID,
		FileID:       &fileID,
		ContractName: contractName,
		ContractText: contractText,
	})
}

// GetAnalysis retrieves a stored analysis by ID
func (s *AnalyzerService) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.ContractAnalysis, error) {
	if s.analysisRepo == nil {
		return nil, ErrAnalysisRepoNotSet
	}

	analysis, err := s.analysisRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}

	return analysis, nil
}

// ListAnalyses retrieves all analyses for a user, newest first
func (s *AnalyzerService) ListAnalyses(ctx context.Context, userID uuid.UUID) ([]*models.ContractAnalysis, error) {
	if s.analysisRepo == nil {
		return nil, ErrAnalysisRepoNotSet
	}

	return s.analysisRepo.ListByUserID(ctx, userID)
}

// updateStepStatus marks the given step in_progress and every earlier step
// completed, then persists the step list.
func (s *AnalyzerService) updateStepStatus(ctx context.Context, analysis *models.ContractAnalysis, stepName string) error {
	for i := range analysis.Steps {
		if analysis.Steps[i].Name == stepName {
			analysis.Steps[i].Status = "in_progress"
			break
		}
		analysis.Steps[i].Status = "completed"
	}
	analysis.CurrentStep = &stepName

	return s.analysisRepo.UpdateProgress(ctx, analysis.ID, stepName, analysis.Steps)
}

// markAnalysisFailed marks an analysis as failed with an error message
func (s *AnalyzerService) markAnalysisFailed(ctx context.Context, id uuid.UUID, errorMessage string) {
	if err := s.analysisRepo.Fail(ctx, id, errorMessage); err != nil {
		log.Printf("Warning: Failed to mark analysis %s as failed: %v", id, err)
	}
}
