package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
	"github.com/stemsi/interview-assistant/internal/validator"
	"github.com/stemsi/interview-assistant/internal/worker"
)

// InterviewHandler drives a candidate's interview session. Every answer goes
// through the countdown worker so manual and timed submissions share one lock.
type InterviewHandler struct {
	interviewService *service.InterviewService
	countdown        *worker.CountdownWorker
	log              zerolog.Logger
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(
	interviewService *service.InterviewService,
	countdown *worker.CountdownWorker,
	log zerolog.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		countdown:        countdown,
		log:              log.With().Str("component", "interview_handler").Logger(),
	}
}

// StartInterview godoc
// POST /api/v1/candidates/:candidate_id/interview
// Starts a six-question interview and arms the countdown on the first one.
func (h *InterviewHandler) StartInterview(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	sess, err := h.interviewService.StartInterview(c.Request.Context(), candidateID)
	if sess == nil {
		failWith(c, err)
		return
	}
	if armErr := h.countdown.Arm(candidateID); armErr != nil {
		response.RequestLogger(c, h.log).Error().Err(armErr).Str("candidate_id", candidateID.String()).Msg("Failed to arm countdown")
	}
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": sess})
}

// GetCurrent godoc
// GET /api/v1/candidates/:candidate_id/interview
// Returns the current question with the seconds left and the saved draft.
func (h *InterviewHandler) GetCurrent(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	current, err := h.interviewService.CurrentQuestion(candidateID)
	if err != nil {
		failWith(c, err)
		return
	}

	data := gin.H{
		"current":   current,
		"remaining": nil,
		"draft":     h.countdown.Draft(candidateID),
	}
	if remaining, armed := h.countdown.Remaining(candidateID); armed {
		data["remaining"] = remaining
	}

	response.Success(c, http.StatusOK, data)
}

// SubmitAnswer godoc
// POST /api/v1/candidates/:candidate_id/interview/answers
// Scores the answer to the current question and advances. Responds once the
// next question is up or the interview is complete.
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sess, err := h.countdown.Submit(c.Request.Context(), candidateID, req.QuestionID, req.Answer)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": sess})
}

// SaveDraft godoc
// PUT /api/v1/candidates/:candidate_id/interview/draft
// Autosaves the answer being typed. It is submitted if time runs out.
func (h *InterviewHandler) SaveDraft(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	var req model.DraftAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.countdown.UpdateDraft(candidateID, req.Answer); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// PauseInterview godoc
// POST /api/v1/candidates/:candidate_id/interview/pause
func (h *InterviewHandler) PauseInterview(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	if err := h.countdown.Pause(c.Request.Context(), candidateID); err != nil {
		failWith(c, err)
		return
	}

	h.respondCurrent(c, candidateID)
}

// ResumeInterview godoc
// POST /api/v1/candidates/:candidate_id/interview/resume
// Resumes a paused session, or picks up a rehydrated one after a restart.
func (h *InterviewHandler) ResumeInterview(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	err := h.countdown.Resume(c.Request.Context(), candidateID)
	if errors.Is(err, service.ErrInvalidTransition) {
		// Already in progress: a session restored from the snapshot has no
		// countdown yet.
		err = h.countdown.Arm(candidateID)
	}
	if err != nil {
		failWith(c, err)
		return
	}

	h.respondCurrent(c, candidateID)
}

// ResetInterview godoc
// DELETE /api/v1/candidates/:candidate_id/interview
// Discards the current session. Completed interviews are kept.
func (h *InterviewHandler) ResetInterview(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	err := h.interviewService.Reset(c.Request.Context(), candidateID)
	h.countdown.Disarm(candidateID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "interview reset"})
}

func (h *InterviewHandler) respondCurrent(c *gin.Context, candidateID uuid.UUID) {
	current, err := h.interviewService.CurrentQuestion(candidateID)
	if err != nil {
		failWith(c, err)
		return
	}
	remaining, _ := h.countdown.Remaining(candidateID)
	response.Success(c, http.StatusOK, gin.H{"current": current, "remaining": remaining})
}
