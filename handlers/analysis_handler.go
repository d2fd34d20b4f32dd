package handlers

import (
	"errors"
	"net/http"

	"contractguard-backend/models"
	"contractguard-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles HTTP requests for contract analyses
type AnalysisHandler struct {
	analyzer *service.AnalyzerService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analyzer *service.AnalyzerService) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
	}
}

// CreateAnalysisRequest represents the request body for starting an analysis.
// Exactly one of contract_text or file_id must be provided.
type CreateAnalysisRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	ContractName string `json:"contract_name"`
	ContractText string `json:"contract_text"`
	FileID       string `json:"file_id"`
}

// CreateAnalysis handles POST /api/analyses. The pipeline runs synchronously;
// the response carries the full report or a kind-specific error.
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	var req CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	if (req.ContractText == "") == (req.FileID == "") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Exactly one of contract_text or file_id is required",
			},
		})
		return
	}

	var analysis *models.ContractAnalysis
	if req.FileID != "" {
		fileID, err := uuid.Parse(req.FileID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_FILE_ID",
					"message": "Invalid file_id format",
				},
			})
			return
		}

		analysis, err = h.analyzer.AnalyzeFile(c.Request.Context(), service.AnalyzeFileRequest{
			UserID:       userID,
			FileID:       fileID,
			ContractName: req.ContractName,
		})
		if err != nil {
			h.writeAnalysisError(c, err)
			return
		}
	} else {
		contractName := req.ContractName
		if contractName == "" {
			contractName = "Untitled Contract"
		}

		analysis, err = h.analyzer.AnalyzeText(c.Request.Context(), service.AnalyzeTextRequest{
			UserID:       userID,
			ContractName: contractName,
			ContractText: req.ContractText,
		})
		if err != nil {
			h.writeAnalysisError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"analysis":    analysis,
			"risk_levels": riskLevelCounts(analysis.Report),
		},
	})
}

// GetAnalysis handles GET /api/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	analysis, err := h.analyzer.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"analysis":    analysis,
			"risk_levels": riskLevelCounts(analysis.Report),
		},
	})
}

// ListAnalyses handles GET /api/analyses?user_id=
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Valid user_id query parameter is required",
			},
		})
		return
	}

	analyses, err := h.analyzer.ListAnalyses(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"analyses": analyses,
		},
	})
}

// writeAnalysisError maps the pipeline error taxonomy onto HTTP responses so
// the presentation layer can render kind-specific guidance.
func (h *AnalysisHandler) writeAnalysisError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var upstreamErr *service.UpstreamError
	var computationErr *service.ComputationError

	switch {
	case errors.Is(err, service.ErrEmptyContract):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_CONTRACT",
				"message": "Contract text must not be empty",
			},
		})
	case errors.Is(err, service.ErrFileNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "Referenced file not found",
			},
		})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_AI_RESPONSE",
				"message": validationErr.Error(),
			},
		})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPSTREAM_FAILURE",
				"message": upstreamErr.Error(),
			},
		})
	case errors.As(err, &computationErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYTICS_FAILED",
				"message": computationErr.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": err.Error(),
			},
		})
	}
}

// riskLevelCounts buckets a report's clauses into the low/medium/high bands
// the dashboard renders. Nil-safe for failed or in-progress analyses.
func riskLevelCounts(report *models.AnalysisReport) gin.H {
	counts := map[models.RiskLevel]int{
		models.RiskLevelLow:    0,
		models.RiskLevelMedium: 0,
		models.RiskLevelHigh:   0,
	}
	if report != nil {
		for _, clause := range report.Clauses {
			counts[models.RiskLevelFor(clause.RiskScore)]++
		}
	}

	return gin.H{
		"low":    counts[models.RiskLevelLow],
		"medium": counts[models.RiskLevelMedium],
		"high":   counts[models.RiskLevelHigh],
	}
}
