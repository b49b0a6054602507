package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/interview-assistant/internal/report"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/resume"
	"github.com/stemsi/interview-assistant/internal/service"
	"github.com/stemsi/interview-assistant/internal/worker"
)

// errorStatus maps a domain error to an HTTP status and API error code.
func errorStatus(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrCandidateNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrNotFound
	case errors.Is(err, service.ErrNoCompletedSession):
		return http.StatusNotFound, response.ErrNoCompletedSession
	case errors.Is(err, service.ErrProfileIncomplete):
		return http.StatusUnprocessableEntity, response.ErrProfileIncomplete
	case errors.Is(err, service.ErrSessionActive):
		return http.StatusConflict, response.ErrSessionActive
	case errors.Is(err, service.ErrNoActiveSession):
		return http.StatusConflict, response.ErrNoActiveSession
	case errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, worker.ErrStaleQuestion):
		return http.StatusConflict, response.ErrQuestionNotCurrent
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, response.ErrInvalidTransition
	case errors.Is(err, worker.ErrSubmissionInProgress):
		return http.StatusConflict, response.ErrSubmissionInProgress
	case errors.Is(err, worker.ErrSessionPaused):
		return http.StatusConflict, response.ErrSessionPaused
	case errors.Is(err, service.ErrInvalidTab),
		errors.Is(err, report.ErrUnknownFormat):
		return http.StatusBadRequest, response.ErrValidation
	case errors.Is(err, resume.ErrUnsupportedFormat):
		return http.StatusBadRequest, response.ErrUnsupportedFile
	case errors.Is(err, resume.ErrCorruptFile):
		return http.StatusUnprocessableEntity, response.ErrCorruptFile
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, response.ErrFileTooLarge
	case errors.Is(err, service.ErrEmailFailed):
		return http.StatusBadGateway, response.ErrEmailFailed
	case errors.Is(err, service.ErrPersistFailed):
		return http.StatusInternalServerError, response.ErrPersistFailed
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// failWith writes the error envelope for err.
func failWith(c *gin.Context, err error) {
	status, code := errorStatus(err)
	response.Fail(c, status, code)
}

// candidateIDParam parses :candidate_id, writing INVALID_ID on failure.
func candidateIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("candidate_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
