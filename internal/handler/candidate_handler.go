package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
	"github.com/stemsi/interview-assistant/internal/validator"
)

// CandidateHandler handles candidate profile endpoints.
type CandidateHandler struct {
	interviewService *service.InterviewService
	dashboardService *service.DashboardService
	tokenService     *service.TokenService
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(
	interviewService *service.InterviewService,
	dashboardService *service.DashboardService,
	tokenService *service.TokenService,
) *CandidateHandler {
	return &CandidateHandler{
		interviewService: interviewService,
		dashboardService: dashboardService,
		tokenService:     tokenService,
	}
}

// ListCandidates godoc
// GET /api/v1/candidates?q=&sort=
// Lists candidate summaries, filtered by name, email or phone.
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	items := h.dashboardService.ListCandidates(c.Query("q"), c.DefaultQuery("sort", service.SortByLatestScore))
	response.SuccessList(c, http.StatusOK, items)
}

// CreateCandidate godoc
// POST /api/v1/candidates
// Submits a new profile. Missing contact fields leave it incomplete.
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req model.CreateCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.interviewService.AddCandidate(c.Request.Context(), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"candidate": candidate})
}

// GetCandidate godoc
// GET /api/v1/candidates/:candidate_id
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	id, ok := candidateIDParam(c)
	if !ok {
		return
	}

	candidate, err := h.interviewService.Candidate(id)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// UpdateCandidate godoc
// PATCH /api/v1/candidates/:candidate_id
// Edits profile fields; omitted fields are left as they are.
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	id, ok := candidateIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.interviewService.UpdateCandidate(c.Request.Context(), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// IssueToken godoc
// POST /api/v1/candidates/:candidate_id/token
// Issues the token the interviewee screen uses to open its stream.
func (h *CandidateHandler) IssueToken(c *gin.Context) {
	id, ok := candidateIDParam(c)
	if !ok {
		return
	}

	if _, err := h.interviewService.Candidate(id); err != nil {
		failWith(c, err)
		return
	}

	token, expiresAt, err := h.tokenService.GenerateCandidateToken(id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt,
	})
}
