package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
	"github.com/stemsi/interview-assistant/internal/validator"
)

// AppHandler handles the shared UI state: active tab, selected candidate and
// the welcome-back notice.
type AppHandler struct {
	interviewService *service.InterviewService
}

// NewAppHandler creates a new AppHandler.
func NewAppHandler(interviewService *service.InterviewService) *AppHandler {
	return &AppHandler{interviewService: interviewService}
}

// GetState godoc
// GET /api/v1/state
// Returns the whole application state tree.
func (h *AppHandler) GetState(c *gin.Context) {
	response.Success(c, http.StatusOK, h.interviewService.State())
}

// SetTab godoc
// PUT /api/v1/state/tab
func (h *AppHandler) SetTab(c *gin.Context) {
	var req model.SetTabRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.interviewService.SetActiveTab(c.Request.Context(), req.Tab); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"active_tab": req.Tab})
}

// SelectCandidate godoc
// PUT /api/v1/state/selection
// Selects a candidate, or clears the selection when candidate_id is null.
func (h *AppHandler) SelectCandidate(c *gin.Context) {
	var req model.SelectCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.interviewService.SelectCandidate(c.Request.Context(), req.CandidateID); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"current_candidate_id": req.CandidateID})
}

// DismissWelcomeBack godoc
// DELETE /api/v1/state/welcome-back
func (h *AppHandler) DismissWelcomeBack(c *gin.Context) {
	if err := h.interviewService.SetWelcomeBack(c.Request.Context(), false); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"show_welcome_back": false})
}

// ListResumable godoc
// GET /api/v1/sessions/resumable
// Lists the unfinished sessions offered on the welcome-back prompt.
func (h *AppHandler) ListResumable(c *gin.Context) {
	response.SuccessList(c, http.StatusOK, h.interviewService.ResumableSessions())
}
